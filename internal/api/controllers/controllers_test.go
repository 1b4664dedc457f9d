package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lotus/internal/api/controllers"
	"lotus/internal/itinerary"
	"lotus/internal/models/response_models"
	"lotus/internal/services"
	"lotus/pkg/middleware"
	"lotus/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePlanner struct {
	plan func(ctx context.Context, in services.PlanInput) (*response_models.PlanItineraryResponse, error)
}

var _ services.PlannerServiceInterface = (*fakePlanner)(nil)

func (f *fakePlanner) Plan(ctx context.Context, in services.PlanInput) (*response_models.PlanItineraryResponse, error) {
	return f.plan(ctx, in)
}

type fakeTripService struct {
	details  func(ctx context.Context, tripID string, userID uuid.UUID) (*response_models.TripDetailResponse, error)
	calendar func(ctx context.Context, tripID string, userID uuid.UUID) (string, error)
}

var _ services.TripServiceInterface = (*fakeTripService)(nil)

func (f *fakeTripService) GetTripDetails(ctx context.Context, tripID string, userID uuid.UUID) (*response_models.TripDetailResponse, error) {
	return f.details(ctx, tripID, userID)
}

func (f *fakeTripService) GetItinerary(context.Context, string, uuid.UUID) (*itinerary.Itinerary, error) {
	return &itinerary.Itinerary{Title: "杭州三日游"}, nil
}

func (f *fakeTripService) ExportCalendar(ctx context.Context, tripID string, userID uuid.UUID) (string, error) {
	return f.calendar(ctx, tripID, userID)
}

var verifier = utils.NewTokenVerifier("test-secret")

func newRouter(planner services.PlannerServiceInterface, trips services.TripServiceInterface) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())

	pc := controllers.NewPlannerController(planner, zap.NewNop())
	tc := controllers.NewTripController(trips, zap.NewNop())

	api := r.Group("/api")
	api.POST("/itineraries/plan", middleware.OptionalAuth(verifier), pc.PlanItinerary)
	tripsGroup := api.Group("/trips", middleware.RequireAuth(verifier))
	tripsGroup.GET("/:tripId", tc.GetTripDetails)
	tripsGroup.GET("/:tripId/itinerary", tc.GetItinerary)
	tripsGroup.GET("/:tripId/calendar.ics", tc.ExportCalendar)
	return r
}

func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPlannerController_tokenIdentityWins(t *testing.T) {
	tokenUser := uuid.New()
	token, err := verifier.CreateToken(tokenUser, time.Hour)
	require.NoError(t, err)
	tripID := uuid.New()

	var got services.PlanInput
	planner := &fakePlanner{plan: func(_ context.Context, in services.PlanInput) (*response_models.PlanItineraryResponse, error) {
		got = in
		return &response_models.PlanItineraryResponse{TripID: in.TripID, RawContent: "{}"}, nil
	}}
	r := newRouter(planner, nil)

	body := `{"prompt":"去杭州玩三天","tripId":"` + tripID.String() + `","userId":"` + uuid.NewString() + `"}`
	rec := do(r, http.MethodPost, "/api/itineraries/plan", body, token)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, got.UserID)
	assert.Equal(t, tokenUser, *got.UserID)
	assert.Equal(t, tripID, *got.TripID)
	assert.Equal(t, "去杭州玩三天", got.Prompt)

	resp := decode(t, rec)
	data := resp["data"].(map[string]any)
	assert.Equal(t, tripID.String(), data["tripId"])
	assert.Nil(t, data["parseError"])
	assert.Equal(t, "{}", data["rawContent"])
	assert.NotEmpty(t, resp["trace_id"])
}

func TestPlannerController_bodyUserWithoutToken(t *testing.T) {
	bodyUser := uuid.New()
	var got services.PlanInput
	planner := &fakePlanner{plan: func(_ context.Context, in services.PlanInput) (*response_models.PlanItineraryResponse, error) {
		got = in
		return &response_models.PlanItineraryResponse{}, nil
	}}
	r := newRouter(planner, nil)

	rec := do(r, http.MethodPost, "/api/itineraries/plan", `{"prompt":"去成都","userId":"`+bodyUser.String()+`"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bodyUser, *got.UserID)
	assert.Nil(t, got.TripID)
}

func TestPlannerController_badRequests(t *testing.T) {
	planner := &fakePlanner{plan: func(_ context.Context, in services.PlanInput) (*response_models.PlanItineraryResponse, error) {
		return nil, utils.ErrInvalidInput
	}}
	r := newRouter(planner, nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"prompt":`, http.StatusBadRequest},
		{"bad trip id", `{"prompt":"去杭州","tripId":"abc"}`, http.StatusUnprocessableEntity},
		{"bad user id", `{"prompt":"去杭州","userId":"abc"}`, http.StatusUnprocessableEntity},
		{"empty prompt", `{"prompt":""}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/api/itineraries/plan", tt.body, "")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "error", decode(t, rec)["status"])
		})
	}
}

func TestPlannerController_forbidden(t *testing.T) {
	planner := &fakePlanner{plan: func(context.Context, services.PlanInput) (*response_models.PlanItineraryResponse, error) {
		return nil, utils.ErrForbidden
	}}
	rec := do(newRouter(planner, nil), http.MethodPost, "/api/itineraries/plan", `{"prompt":"去杭州"}`, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTripController(t *testing.T) {
	owner := uuid.New()
	token, err := verifier.CreateToken(owner, time.Hour)
	require.NoError(t, err)
	tripID := uuid.New()

	trips := &fakeTripService{
		details: func(_ context.Context, id string, userID uuid.UUID) (*response_models.TripDetailResponse, error) {
			switch {
			case id != tripID.String():
				return nil, utils.ErrTripNotFound
			case userID != owner:
				return nil, utils.ErrForbidden
			}
			return &response_models.TripDetailResponse{ID: tripID, Title: "杭州三日游"}, nil
		},
		calendar: func(context.Context, string, uuid.UUID) (string, error) {
			return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
		},
	}
	r := newRouter(nil, trips)

	rec := do(r, http.MethodGet, "/api/trips/"+tripID.String(), "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "杭州三日游", data["title"])

	rec = do(r, http.MethodGet, "/api/trips/"+uuid.NewString(), "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	other, err := verifier.CreateToken(uuid.New(), time.Hour)
	require.NoError(t, err)
	rec = do(r, http.MethodGet, "/api/trips/"+tripID.String(), "", other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(r, http.MethodGet, "/api/trips/"+tripID.String(), "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(r, http.MethodGet, "/api/trips/"+tripID.String()+"/itinerary", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, "/api/trips/"+tripID.String()+"/calendar.ics", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}
