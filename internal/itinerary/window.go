package itinerary

import (
	"regexp"
	"time"

	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

var departFromPattern = regexp.MustCompile(`从\s*([^\s,，。；;、]{1,40}?)\s*(?:出发|启程|乘|坐|搭)`)

// InferWindow resolves the trip-level travel window from the day list.
//
// Undated days are backfilled from the resolved start date, which is the
// explicit startDate, else the first dated day shifted back by its position,
// else endDate counted back over all days. Once every day is dated, startDate
// and endDate follow the min and max day dates. Missing departure/return
// times become the earliest start and latest end minute of any activity.
func InferWindow(it *Itinerary, loc *time.Location) {
	if start, ok := resolveStart(it); ok {
		for i := range it.Days {
			if it.Days[i].Date == nil {
				it.Days[i].Date = strPtr(start.AddDate(0, 0, i).Format(dateLayout))
			}
		}
	}

	dates := lo.FilterMap(it.Days, func(d Day, _ int) (string, bool) {
		if d.Date == nil {
			return "", false
		}
		return *d.Date, true
	})
	if len(dates) > 0 {
		// YYYY-MM-DD compares correctly as a string
		it.StartDate = strPtr(lo.Min(dates))
		it.EndDate = strPtr(lo.Max(dates))
	}

	for i := range it.Days {
		projectDay(&it.Days[i], loc)
	}

	if it.DepartureTime == nil {
		it.DepartureTime = earliestStart(it.Days)
	}
	if it.ReturnTime == nil {
		it.ReturnTime = latestEnd(it.Days)
	}
	if it.DepartureLocation == nil {
		it.DepartureLocation = departureFrom(it.Days)
	}
}

func resolveStart(it *Itinerary) (time.Time, bool) {
	if it.StartDate != nil {
		if t, err := time.Parse(dateLayout, *it.StartDate); err == nil {
			return t, true
		}
	}
	for i, d := range it.Days {
		if d.Date == nil {
			continue
		}
		if t, err := time.Parse(dateLayout, *d.Date); err == nil {
			return t.AddDate(0, 0, -i), true
		}
	}
	if it.EndDate != nil && len(it.Days) > 0 {
		if t, err := time.Parse(dateLayout, *it.EndDate); err == nil {
			return t.AddDate(0, 0, -(len(it.Days) - 1)), true
		}
	}
	return time.Time{}, false
}

func earliestStart(days []Day) *string {
	var best *string
	for _, d := range days {
		for _, a := range d.Activities {
			if a.StartTimeText == nil {
				continue
			}
			if best == nil || minuteOfDay(*a.StartTimeText) < minuteOfDay(*best) {
				best = a.StartTimeText
			}
		}
	}
	return copyPtr(best)
}

// latestEnd prefers end times and falls back to the latest start time.
func latestEnd(days []Day) *string {
	var end, start *string
	for _, d := range days {
		for _, a := range d.Activities {
			if a.EndTimeText != nil && (end == nil || minuteOfDay(*a.EndTimeText) > minuteOfDay(*end)) {
				end = a.EndTimeText
			}
			if a.StartTimeText != nil && (start == nil || minuteOfDay(*a.StartTimeText) > minuteOfDay(*start)) {
				start = a.StartTimeText
			}
		}
	}
	if end != nil {
		return copyPtr(end)
	}
	return copyPtr(start)
}

// departureFrom looks for "从X出发" in the first day's activities.
func departureFrom(days []Day) *string {
	if len(days) == 0 {
		return nil
	}
	for _, a := range days[0].Activities {
		for _, text := range []*string{&a.Title, a.Notes} {
			if text == nil {
				continue
			}
			if m := departFromPattern.FindStringSubmatch(*text); m != nil {
				return truncate(m[1], maxLocationLen)
			}
		}
	}
	return nil
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
