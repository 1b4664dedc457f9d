package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"

	"lotus/internal/itinerary"
	dbm "lotus/internal/models/db_models"
	"lotus/internal/models/response_models"
	"lotus/pkg/utils"
)

const (
	metaSource       = "source"
	metaTravelWindow = "travel_window"
	metaTimeText     = "time_text"
	metaEndTimeText  = "end_time_text"

	sourceAIGenerated = "ai_generated"
)

// travel window keys, in the order they are written
var travelWindowKeys = []string{
	"departure_date",
	"departure_location",
	"departure_time",
	"return_date",
	"return_time",
}

func travelWindow(it itinerary.Itinerary) map[string]*string {
	return map[string]*string{
		"departure_date":     it.StartDate,
		"departure_location": it.DepartureLocation,
		"departure_time":     it.DepartureTime,
		"return_date":        it.EndDate,
		"return_time":        it.ReturnTime,
	}
}

// mergeTripMetadata keeps every key of previous, marks the trip as generated
// and merges the travel window field by field. A nil field of the new window
// leaves the previous value in place.
func mergeTripMetadata(previous datatypes.JSONMap, it itinerary.Itinerary) datatypes.JSONMap {
	merged := datatypes.JSONMap{}
	for k, v := range previous {
		merged[k] = v
	}
	merged[metaSource] = sourceAIGenerated

	window := map[string]any{}
	if prev, ok := previous[metaTravelWindow].(map[string]any); ok {
		for k, v := range prev {
			window[k] = v
		}
	}
	next := travelWindow(it)
	for _, key := range travelWindowKeys {
		if v := next[key]; v != nil {
			window[key] = *v
		} else if _, ok := window[key]; !ok {
			window[key] = nil
		}
	}
	merged[metaTravelWindow] = window
	return merged
}

// dayRows converts the itinerary days and activities into rows for tripID.
// Day ids are assigned here so the activities can reference them before the
// days are written.
func dayRows(tripID uuid.UUID, days []itinerary.Day) ([]dbm.TripDay, []dbm.TripActivity) {
	dayModels := make([]dbm.TripDay, 0, len(days))
	var activities []dbm.TripActivity

	for _, d := range days {
		dayID := uuid.New()
		dayModels = append(dayModels, dbm.TripDay{
			BaseModel: dbm.BaseModel{ID: dayID},
			TripID:    tripID,
			DayIndex:  d.DayIndex,
			Date:      utils.ParseDate(d.Date),
			Summary:   d.Summary,
		})

		for _, a := range d.Activities {
			meta := datatypes.JSONMap{}
			if d.Date == nil {
				if a.StartTimeText != nil {
					meta[metaTimeText] = *a.StartTimeText
				}
				if a.EndTimeText != nil {
					meta[metaEndTimeText] = *a.EndTimeText
				}
			}
			activities = append(activities, dbm.TripActivity{
				TripID:        tripID,
				TripDayID:     dayID,
				DayIndex:      d.DayIndex,
				OrderIndex:    a.OrderIndex,
				Title:         a.Title,
				Location:      a.Location,
				StartTime:     utils.ParseTimestamp(a.StartTime),
				EndTime:       utils.ParseTimestamp(a.EndTime),
				Category:      string(a.Category),
				EstimatedCost: a.EstimatedCost,
				Notes:         a.Notes,
				Metadata:      meta,
			})
		}
	}
	return dayModels, activities
}

// itineraryFromTrip rebuilds the itinerary from a trip loaded with its days
// and activities. Timestamps are rendered in loc.
func itineraryFromTrip(trip *dbm.Trip, loc *time.Location) itinerary.Itinerary {
	window, _ := trip.Metadata[metaTravelWindow].(map[string]any)

	it := itinerary.Itinerary{
		Title:             trip.Title,
		Destination:       trip.Destination,
		StartDate:         utils.FormatDate(trip.StartDate),
		EndDate:           utils.FormatDate(trip.EndDate),
		DepartureLocation: metaString(window, "departure_location"),
		DepartureTime:     metaString(window, "departure_time"),
		ReturnTime:        metaString(window, "return_time"),
		PartySize:         trip.PartySize,
		BudgetTotal:       trip.BudgetTotal,
		BudgetCurrency:    trip.BudgetCurrency,
		Notes:             trip.Notes,
	}

	it.Days = lo.Map(trip.Days, func(d dbm.TripDay, _ int) itinerary.Day {
		return itinerary.Day{
			DayIndex: d.DayIndex,
			Date:     utils.FormatDate(d.Date),
			Summary:  d.Summary,
			Activities: lo.Map(d.Activities, func(a dbm.TripActivity, _ int) itinerary.Activity {
				return itinerary.Activity{
					OrderIndex:    a.OrderIndex,
					Title:         a.Title,
					Location:      a.Location,
					StartTime:     utils.FormatTimestampIn(a.StartTime, loc),
					EndTime:       utils.FormatTimestampIn(a.EndTime, loc),
					StartTimeText: clockText(a.Metadata, metaTimeText, a.StartTime, loc),
					EndTimeText:   clockText(a.Metadata, metaEndTimeText, a.EndTime, loc),
					Category:      itinerary.Category(a.Category),
					EstimatedCost: a.EstimatedCost,
					Notes:         a.Notes,
				}
			}),
		}
	})
	return it
}

func clockText(meta datatypes.JSONMap, key string, ts *time.Time, loc *time.Location) *string {
	if s := metaString(meta, key); s != nil {
		return s
	}
	if ts == nil {
		return nil
	}
	s := ts.In(loc).Format("15:04")
	return &s
}

func metaString(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func tripDetailFromModel(trip *dbm.Trip, loc *time.Location) *response_models.TripDetailResponse {
	resp := &response_models.TripDetailResponse{
		ID:             trip.ID,
		OwnerID:        trip.OwnerID,
		Title:          trip.Title,
		Destination:    trip.Destination,
		StartDate:      utils.FormatDate(trip.StartDate),
		EndDate:        utils.FormatDate(trip.EndDate),
		PartySize:      trip.PartySize,
		BudgetCurrency: trip.BudgetCurrency,
		BudgetTotal:    trip.BudgetTotal,
		Notes:          trip.Notes,
		Metadata:       trip.Metadata,
		CreatedAt:      trip.CreatedAt,
		UpdatedAt:      trip.UpdatedAt,
		TotalDays:      len(trip.Days),
	}

	resp.Days = make([]response_models.TripDayResponse, 0, len(trip.Days))
	for _, d := range trip.Days {
		day := response_models.TripDayResponse{
			ID:         d.ID,
			DayIndex:   d.DayIndex,
			Date:       utils.FormatDate(d.Date),
			Summary:    d.Summary,
			Activities: make([]response_models.TripActivityResponse, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, response_models.TripActivityResponse{
				ID:            a.ID,
				DayIndex:      a.DayIndex,
				OrderIndex:    a.OrderIndex,
				Title:         a.Title,
				Location:      a.Location,
				StartTime:     utils.FormatTimestampIn(a.StartTime, loc),
				EndTime:       utils.FormatTimestampIn(a.EndTime, loc),
				Category:      a.Category,
				EstimatedCost: a.EstimatedCost,
				Notes:         a.Notes,
				Metadata:      a.Metadata,
			})
		}
		resp.TotalActivities += len(d.Activities)
		resp.Days = append(resp.Days, day)
	}
	return resp
}
