package itinerary

import (
	"fmt"
	"strings"
	"time"
)

// Normalize converts an untrusted decoded object into an Itinerary. Every
// field degrades independently to a default or nil; nothing here fails.
// Days are not backfilled and the travel window is not inferred yet, so the
// result may have no days or empty days.
func Normalize(obj Object, loc *time.Location) Itinerary {
	obj = obj.unwrap()

	it := Itinerary{
		StartDate:         ParseDate(firstValue(obj, "startDate", "start_date")),
		EndDate:           ParseDate(firstValue(obj, "endDate", "end_date")),
		DepartureLocation: cleanTextN(obj, maxLocationLen, "departureLocation", "departure_location"),
		DepartureTime:     ParseTimeOfDay(firstValue(obj, "departureTime", "departure_time")),
		ReturnTime:        ParseTimeOfDay(firstValue(obj, "returnTime", "return_time")),
		PartySize:         1,
		BudgetTotal:       ParseCost(firstValue(obj, "budgetTotal", "budget_total", "budget")),
		BudgetCurrency:    ParseCurrency(firstValue(obj, "budgetCurrency", "budget_currency", "currency")),
		Notes:             cleanTextN(obj, maxTripNotes, "notes"),
	}
	if n, ok := parseCount(firstValue(obj, "partySize", "party_size")); ok {
		it.PartySize = clamp(n, 1, 99)
	}

	destination := cleanTextN(obj, maxTitleLen, "destination")
	if destination != nil {
		it.Destination = *destination
	} else {
		it.Destination = DefaultDestination
	}
	if title := cleanTextN(obj, maxTitleLen, "title", "name"); title != nil {
		it.Title = *title
	} else {
		it.Title = fmt.Sprintf("%s行程", it.Destination)
	}

	for i, rawDay := range obj.Objects("days") {
		if i == maxDays {
			break
		}
		it.Days = append(it.Days, normalizeDay(rawDay, i+1, loc))
	}
	return it
}

func normalizeDay(obj Object, dayIndex int, loc *time.Location) Day {
	day := Day{
		// the source dayIndex is ignored, position decides
		DayIndex: dayIndex,
		Date:     ParseDate(firstValue(obj, "date")),
		Summary:  cleanTextN(obj, maxSummaryLen, "summary", "title"),
	}

	for _, rawActivity := range obj.Objects("activities", "items") {
		if len(day.Activities) == maxActivitiesPerDay {
			break
		}
		activity, activityDate, ok := normalizeActivity(rawActivity, loc)
		if !ok {
			continue
		}
		if day.Date == nil && activityDate != nil {
			day.Date = activityDate
		}
		day.Activities = append(day.Activities, activity)
	}

	reindex(day.Activities)
	projectDay(&day, loc)
	return day
}

// normalizeActivity returns the activity, the calendar date carried by a
// full start timestamp if there was one, and false when the activity has no
// title.
func normalizeActivity(obj Object, loc *time.Location) (Activity, *string, bool) {
	title := cleanTextN(obj, maxTitleLen, "title", "name")
	if title == nil {
		return Activity{}, nil, false
	}

	rawStart := firstValue(obj, "startTime", "start_time", "startTimeText", "time")
	rawEnd := firstValue(obj, "endTime", "end_time", "endTimeText")

	startText, startDate := timeOf(rawStart, loc)
	endText, _ := timeOf(rawEnd, loc)
	if endText == nil {
		endText = rangeEnd(rawStart)
	}

	rawCategory, hasCategory := obj.Text("category", "type")
	category := ParseCategory(rawCategory)
	if !hasCategory || strings.TrimSpace(rawCategory) == "" {
		category = ParseCategory(*title)
	}

	return Activity{
		Title:         *title,
		Location:      cleanTextN(obj, maxLocationLen, "location", "address"),
		StartTimeText: startText,
		EndTimeText:   endText,
		Category:      category,
		EstimatedCost: ParseCost(firstValue(obj, "estimatedCost", "estimated_cost", "cost")),
		Notes:         cleanTextN(obj, maxNotesLen, "notes", "description"),
	}, startDate, true
}

// timeOf reads an HH:MM time. Full RFC 3339 timestamps are converted into
// loc first and also yield their calendar date.
func timeOf(v any, loc *time.Location) (*string, *string) {
	if s, ok := v.(string); ok {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
			t = t.In(loc)
			return strPtr(t.Format("15:04")), strPtr(t.Format("2006-01-02"))
		}
	}
	return ParseTimeOfDay(v), nil
}

func firstValue(obj Object, keys ...string) any {
	v, _ := obj.Lookup(keys...)
	return v
}

func cleanTextN(obj Object, max int, keys ...string) *string {
	s, ok := obj.Text(keys...)
	return cleanText(s, ok, max)
}

func truncate(s string, max int) *string {
	return cleanText(s, true, max)
}
