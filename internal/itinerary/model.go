// Package itinerary turns a free-form language-model completion into a
// validated trip plan: candidate extraction, JSON repair, field
// normalization, activity backfill, travel-window inference and an offline
// fallback generator. Nothing in this package performs I/O.
package itinerary

import "time"

const (
	MinActivitiesPerDay = 4
	DefaultCurrency     = "CNY"
	DefaultDestination  = "未知目的地"

	maxDays             = 30
	maxActivitiesPerDay = 20

	maxTitleLen    = 120
	maxLocationLen = 120
	maxTripNotes   = 800
	maxSummaryLen  = 400
	maxNotesLen    = 400
)

type Category string

const (
	CategoryTransportation Category = "transportation"
	CategoryAccommodation  Category = "accommodation"
	CategoryDining         Category = "dining"
	CategorySightseeing    Category = "sightseeing"
	CategoryShopping       Category = "shopping"
	CategoryOther          Category = "other"
)

// Categories lists the closed category set in a stable order.
var Categories = []Category{
	CategoryTransportation,
	CategoryAccommodation,
	CategoryDining,
	CategorySightseeing,
	CategoryShopping,
	CategoryOther,
}

// Itinerary is the normalized, authoritative trip plan.
//
// Dates are YYYY-MM-DD strings, DepartureTime/ReturnTime are HH:MM, and the
// activity StartTime/EndTime fields are RFC 3339 timestamps that are only set
// once the owning day has a date.
type Itinerary struct {
	Title             string   `json:"title"`
	Destination       string   `json:"destination"`
	StartDate         *string  `json:"startDate"`
	EndDate           *string  `json:"endDate"`
	DepartureLocation *string  `json:"departureLocation"`
	DepartureTime     *string  `json:"departureTime"`
	ReturnTime        *string  `json:"returnTime"`
	PartySize         int      `json:"partySize"`
	BudgetTotal       *float64 `json:"budgetTotal"`
	BudgetCurrency    string   `json:"budgetCurrency"`
	Notes             *string  `json:"notes"`
	Days              []Day    `json:"days"`
}

type Day struct {
	DayIndex   int        `json:"dayIndex"`
	Date       *string    `json:"date"`
	Summary    *string    `json:"summary"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	OrderIndex    int      `json:"orderIndex"`
	Title         string   `json:"title"`
	Location      *string  `json:"location"`
	StartTime     *string  `json:"startTime"`
	EndTime       *string  `json:"endTime"`
	StartTimeText *string  `json:"startTimeText"`
	EndTimeText   *string  `json:"endTimeText"`
	Category      Category `json:"category"`
	EstimatedCost *float64 `json:"estimatedCost"`
	Notes         *string  `json:"notes"`
}

// HasActivities reports whether any day carries at least one activity.
func (it Itinerary) HasActivities() bool {
	for _, d := range it.Days {
		if len(d.Activities) > 0 {
			return true
		}
	}
	return false
}

// projectDay recomputes the activity timestamps of a day from its date and
// the HH:MM texts. Without a date the timestamps are cleared.
func projectDay(day *Day, loc *time.Location) {
	for i := range day.Activities {
		a := &day.Activities[i]
		a.StartTime, a.EndTime = nil, nil
		if day.Date == nil {
			continue
		}

		var start *time.Time
		if a.StartTimeText != nil {
			if t, ok := combineDateTime(*day.Date, *a.StartTimeText, loc); ok {
				start = &t
				a.StartTime = strPtr(t.Format(time.RFC3339))
			}
		}
		if a.EndTimeText != nil {
			if t, ok := combineDateTime(*day.Date, *a.EndTimeText, loc); ok {
				// an end before the start crosses midnight
				if start != nil && t.Before(*start) {
					t = t.Add(24 * time.Hour)
				}
				a.EndTime = strPtr(t.Format(time.RFC3339))
			}
		}
	}
}

func combineDateTime(date, clock string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func reindex(activities []Activity) {
	for i := range activities {
		activities[i].OrderIndex = i
	}
}

func strPtr(s string) *string { return &s }
