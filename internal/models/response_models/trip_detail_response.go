package response_models

import (
	"time"

	"github.com/google/uuid"
)

// TripDetailResponse is the stored trip with its days and activities in
// display order.
type TripDetailResponse struct {
	ID             uuid.UUID         `json:"id"`
	OwnerID        uuid.UUID         `json:"ownerId"`
	Title          string            `json:"title"`
	Destination    string            `json:"destination"`
	StartDate      *string           `json:"startDate"` // YYYY-MM-DD
	EndDate        *string           `json:"endDate"`
	PartySize      int               `json:"partySize"`
	BudgetCurrency string            `json:"budgetCurrency"`
	BudgetTotal    *float64          `json:"budgetTotal"`
	Notes          *string           `json:"notes"`
	Metadata       map[string]any    `json:"metadata"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	Days           []TripDayResponse `json:"days"`

	TotalDays       int `json:"totalDays"`
	TotalActivities int `json:"totalActivities"`
}

type TripDayResponse struct {
	ID         uuid.UUID              `json:"id"`
	DayIndex   int                    `json:"dayIndex"`
	Date       *string                `json:"date"`
	Summary    *string                `json:"summary"`
	Activities []TripActivityResponse `json:"activities"`
}

type TripActivityResponse struct {
	ID            uuid.UUID      `json:"id"`
	DayIndex      int            `json:"dayIndex"`
	OrderIndex    int            `json:"orderIndex"`
	Title         string         `json:"title"`
	Location      *string        `json:"location"`
	StartTime     *string        `json:"startTime"` // RFC3339 in the service time zone
	EndTime       *string        `json:"endTime"`
	Category      string         `json:"category"`
	EstimatedCost *float64       `json:"estimatedCost"`
	Notes         *string        `json:"notes"`
	Metadata      map[string]any `json:"metadata"`
}
