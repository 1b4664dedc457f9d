package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lotus/internal/models/request_models"
	"lotus/internal/services"
	"lotus/pkg/middleware"
	"lotus/pkg/utils"
)

type PlannerController struct {
	plannerService services.PlannerServiceInterface
	logger         *zap.Logger
}

func NewPlannerController(plannerService services.PlannerServiceInterface, logger *zap.Logger) *PlannerController {
	return &PlannerController{
		plannerService: plannerService,
		logger:         logger,
	}
}

// PlanItinerary godoc
// @Summary Generate an itinerary from a free-text request
// @Description Asks the language model for a trip plan, repairs and normalizes the answer and stores it for the caller. The token identity wins over the body userId.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.PlanItineraryRequest true "Planning request"
// @Success 200 {object} response_models.PlanItineraryResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/plan [post]
func (p *PlannerController) PlanItinerary(c *gin.Context) {
	var req request_models.PlanItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := services.PlanInput{Prompt: req.Prompt}

	if req.TripID != nil && *req.TripID != "" {
		tripID, err := uuid.Parse(*req.TripID)
		if err != nil {
			utils.RespondError(c, http.StatusUnprocessableEntity, "tripId must be a UUID")
			return
		}
		input.TripID = &tripID
	}

	if userID, ok := middleware.UserID(c); ok {
		input.UserID = &userID
	} else if req.UserID != nil && *req.UserID != "" {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			utils.RespondError(c, http.StatusUnprocessableEntity, "userId must be a UUID")
			return
		}
		input.UserID = &userID
	}

	resp, err := p.plannerService.Plan(c.Request.Context(), input)
	if err != nil {
		utils.HandleServiceError(c, p.logger, err)
		return
	}

	utils.RespondSuccess(c, resp, "Itinerary planned successfully")
}
