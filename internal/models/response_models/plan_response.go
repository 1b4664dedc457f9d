package response_models

import (
	"github.com/google/uuid"

	"lotus/internal/itinerary"
)

type PlanItineraryResponse struct {
	TripID     *uuid.UUID          `json:"tripId"`
	ParseError *string             `json:"parseError"`
	RawContent string              `json:"rawContent"`
	Raw        any                 `json:"raw"`
	Fallback   bool                `json:"fallback"`
	Itinerary  itinerary.Itinerary `json:"itinerary"`
}
