package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lotus/internal/services"
	"lotus/pkg/middleware"
	"lotus/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
	logger      *zap.Logger
}

func NewTripController(tripService services.TripServiceInterface, logger *zap.Logger) *TripController {
	return &TripController{
		tripService: tripService,
		logger:      logger,
	}
}

// GetTripDetails godoc
// @Summary Get trip details by ID
// @Description Fetch a trip owned by the caller with its days and activities in display order
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.TripDetailResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId} [get]
func (t *TripController) GetTripDetails(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	trip, err := t.tripService.GetTripDetails(c.Request.Context(), c.Param("tripId"), userID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

// GetItinerary godoc
// @Summary Get the normalized itinerary of a trip
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} itinerary.Itinerary
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/itinerary [get]
func (t *TripController) GetItinerary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	it, err := t.tripService.GetItinerary(c.Request.Context(), c.Param("tripId"), userID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	utils.RespondSuccess(c, it, "Itinerary fetched successfully")
}

// ExportCalendar godoc
// @Summary Export a trip as iCalendar
// @Tags Trip
// @Produce text/calendar
// @Param tripId path string true "Trip ID"
// @Success 200 {string} string "ICS document"
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/calendar.ics [get]
func (t *TripController) ExportCalendar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	doc, err := t.tripService.ExportCalendar(c.Request.Context(), c.Param("tripId"), userID)
	if err != nil {
		utils.HandleServiceError(c, t.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="trip.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}
