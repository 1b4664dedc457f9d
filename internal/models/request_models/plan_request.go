package request_models

// PlanItineraryRequest is the body of POST /api/itineraries/plan. UserID is
// only honoured when the request carries no bearer token.
type PlanItineraryRequest struct {
	Prompt string  `json:"prompt"`
	TripID *string `json:"tripId,omitempty"`
	UserID *string `json:"userId,omitempty"`
}
