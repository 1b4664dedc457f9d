package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lotus/internal/itinerary"
	dbm "lotus/internal/models/db_models"
	"lotus/internal/services"
	"lotus/pkg/utils"
)

func newPlanner(llm utils.CompletionClient, repo *fakeTripRepo) services.PlannerServiceInterface {
	logger := zap.NewNop()
	return services.NewPlannerService(llm, testPipeline(), services.NewItineraryPersister(repo, logger), repo, logger)
}

func TestPlannerService_systemPromptCarriesSchema(t *testing.T) {
	var gotSystem, gotUser string
	llm := &fakeCompletionClient{complete: func(_ context.Context, system, user string) (utils.Completion, error) {
		gotSystem, gotUser = system, user
		return utils.Completion{Content: undatedCompletion}, nil
	}}

	_, err := newPlanner(llm, newFakeTripRepo()).Plan(context.Background(), services.PlanInput{Prompt: "  去杭州玩三天  "})

	require.NoError(t, err)
	assert.Equal(t, "去杭州玩三天", gotUser)
	for _, field := range []string{"departureLocation", "budgetCurrency", "dayIndex", "estimatedCost", "省+市+区+地点名称"} {
		assert.Contains(t, gotSystem, field)
	}
}

func TestPlannerService_hangzhouScenario(t *testing.T) {
	repo := newFakeTripRepo()
	userID := uuid.New()

	resp, err := newPlanner(replying(undatedCompletion), repo).Plan(context.Background(), services.PlanInput{
		Prompt: "去杭州玩三天",
		UserID: &userID,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.TripID)
	assert.Nil(t, resp.ParseError)
	assert.False(t, resp.Fallback)
	assert.Equal(t, undatedCompletion, resp.RawContent)
	require.Len(t, resp.Itinerary.Days, 1)
	assert.Len(t, resp.Itinerary.Days[0].Activities, 4)
	assert.Equal(t, itinerary.CategorySightseeing, resp.Itinerary.Days[0].Activities[0].Category)

	require.Len(t, repo.transcripts, 1)
	transcript := repo.transcripts[0]
	assert.Equal(t, resp.TripID, transcript.TripID)
	assert.Equal(t, userID, transcript.UserID)
	assert.Equal(t, undatedCompletion, transcript.Content)
	var raw map[string]string
	require.NoError(t, json.Unmarshal(transcript.Raw, &raw))
	assert.Equal(t, undatedCompletion, raw["content"])
	assert.Nil(t, transcript.ParseError)
}

func TestPlannerService_proseFallsBack(t *testing.T) {
	repo := newFakeTripRepo()
	userID := uuid.New()
	prose := "抱歉，我无法完成这个请求。"

	resp, err := newPlanner(replying(prose), repo).Plan(context.Background(), services.PlanInput{
		Prompt: "去杭州玩三天",
		UserID: &userID,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.TripID)
	require.NotNil(t, resp.ParseError)
	assert.NotEmpty(t, *resp.ParseError)
	assert.True(t, resp.Fallback)
	assert.Equal(t, prose, resp.RawContent)
	assert.Equal(t, "杭州", resp.Itinerary.Destination)
	assert.Len(t, resp.Itinerary.Days, 3)

	require.Len(t, repo.transcripts, 1)
	assert.Equal(t, prose, repo.transcripts[0].Content)
	assert.Equal(t, resp.ParseError, repo.transcripts[0].ParseError)
}

func TestPlannerService_modelFailureFallsBack(t *testing.T) {
	repo := newFakeTripRepo()
	userID := uuid.New()

	resp, err := newPlanner(utils.UnconfiguredCompletionClient{}, repo).Plan(context.Background(), services.PlanInput{
		Prompt: "周末到苏州",
		UserID: &userID,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.TripID)
	require.NotNil(t, resp.ParseError)
	assert.True(t, strings.HasPrefix(*resp.ParseError, "model call failed"))
	assert.Equal(t, "苏州", resp.Itinerary.Destination)
	assert.Len(t, resp.Itinerary.Days, 2)
	assert.Empty(t, resp.RawContent)
	assert.Len(t, repo.transcripts, 1)
}

func TestPlannerService_withoutIdentityNothingIsSaved(t *testing.T) {
	repo := newFakeTripRepo()

	resp, err := newPlanner(replying(undatedCompletion), repo).Plan(context.Background(), services.PlanInput{Prompt: "去杭州"})

	require.NoError(t, err)
	assert.Nil(t, resp.TripID)
	require.NotNil(t, resp.ParseError)
	assert.Contains(t, *resp.ParseError, "not saved")
	assert.Empty(t, repo.trips)
	assert.Empty(t, repo.transcripts)
}

func TestPlannerService_invalidPrompt(t *testing.T) {
	planner := newPlanner(replying(undatedCompletion), newFakeTripRepo())

	for _, prompt := range []string{"", "   ", strings.Repeat("游", 2001)} {
		_, err := planner.Plan(context.Background(), services.PlanInput{Prompt: prompt})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	}
}

func TestPlannerService_otherOwnersTrip(t *testing.T) {
	repo := newFakeTripRepo()
	existing := &dbm.Trip{OwnerID: uuid.New(), Title: "别人的行程"}
	require.NoError(t, repo.CreateTrip(context.Background(), existing))
	userID := uuid.New()

	_, err := newPlanner(replying(undatedCompletion), repo).Plan(context.Background(), services.PlanInput{
		Prompt: "去杭州",
		UserID: &userID,
		TripID: &existing.ID,
	})

	require.ErrorIs(t, err, utils.ErrForbidden)
	require.Len(t, repo.transcripts, 1)
	assert.Nil(t, repo.transcripts[0].TripID)
}

func TestPlannerService_persistenceFailureIsReported(t *testing.T) {
	repo := newFakeTripRepo()
	repo.createDaysErr = errors.New("connection reset")
	userID := uuid.New()

	resp, err := newPlanner(replying("没有 JSON"), repo).Plan(context.Background(), services.PlanInput{
		Prompt: "去杭州",
		UserID: &userID,
	})

	require.NoError(t, err)
	assert.Nil(t, resp.TripID)
	require.NotNil(t, resp.ParseError)
	assert.Contains(t, *resp.ParseError, "; failed to save itinerary")
	require.Len(t, repo.transcripts, 1)
	assert.Nil(t, repo.transcripts[0].TripID)
}

func TestPlannerService_transcriptFailureIsLogged(t *testing.T) {
	repo := newFakeTripRepo()
	repo.createTranscriptErr = errors.New("disk full")
	userID := uuid.New()

	resp, err := newPlanner(replying(undatedCompletion), repo).Plan(context.Background(), services.PlanInput{
		Prompt: "去杭州",
		UserID: &userID,
	})

	require.NoError(t, err)
	assert.NotNil(t, resp.TripID)
	assert.Nil(t, resp.ParseError)
}

func TestPlannerService_regenerationSkipsCompletionCache(t *testing.T) {
	repo := newFakeTripRepo()
	userID := uuid.New()
	replies := []string{undatedCompletion, datedCompletion}
	calls := 0
	llm := utils.NewCachedCompletionClient(&fakeCompletionClient{complete: func(context.Context, string, string) (utils.Completion, error) {
		calls++
		return utils.Completion{Content: replies[calls-1]}, nil
	}}, time.Minute)
	planner := newPlanner(llm, repo)

	first, err := planner.Plan(context.Background(), services.PlanInput{Prompt: "去玩几天", UserID: &userID})
	require.NoError(t, err)
	require.NotNil(t, first.TripID)

	second, err := planner.Plan(context.Background(), services.PlanInput{Prompt: "去玩几天", UserID: &userID, TripID: first.TripID})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, datedCompletion, second.RawContent)
	assert.Equal(t, "成都", second.Itinerary.Destination)
}
