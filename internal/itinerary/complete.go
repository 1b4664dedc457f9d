package itinerary

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

type activityTemplate struct {
	titleFormat string
	start       string
	end         string
	category    Category
	notes       string
}

// dayTemplates is the fixed backfill order: morning, midday, afternoon and
// evening.
var dayTemplates = []activityTemplate{
	{"%s第%d天·上午城市漫游", "09:00", "11:30", CategorySightseeing, "沿街区步行，感受当地街巷与人文氛围"},
	{"%s第%d天·午间特色美食", "12:00", "13:30", CategoryDining, "品尝当地特色菜，可提前查询口碑餐厅"},
	{"%s第%d天·下午经典景点", "14:00", "17:00", CategorySightseeing, "游览代表性景点，注意景区开放时间"},
	{"%s第%d天·夜间休闲时光", "19:00", "21:00", CategoryOther, "夜游或自由活动，注意返程交通"},
}

// Complete backfills a day up to MinActivitiesPerDay activities from the
// fixed templates. A template whose title equals an existing activity title
// is skipped. Order indexes are reassigned and timestamps re-projected.
func Complete(day Day, destination string, loc *time.Location) Day {
	activities := make([]Activity, len(day.Activities), max(len(day.Activities), MinActivitiesPerDay))
	copy(activities, day.Activities)

	titles := lo.SliceToMap(activities, func(a Activity) (string, struct{}) {
		return a.Title, struct{}{}
	})

	for _, tpl := range dayTemplates {
		if len(activities) >= MinActivitiesPerDay {
			break
		}
		title := *truncate(fmt.Sprintf(tpl.titleFormat, destination, day.DayIndex), maxTitleLen)
		if _, exists := titles[title]; exists {
			continue
		}
		titles[title] = struct{}{}
		activities = append(activities, tpl.activity(title, destination))
	}

	day.Activities = activities
	reindex(day.Activities)
	projectDay(&day, loc)
	return day
}

func (tpl activityTemplate) activity(title, destination string) Activity {
	return Activity{
		Title:         title,
		Location:      truncate(destination, maxLocationLen),
		StartTimeText: strPtr(tpl.start),
		EndTimeText:   strPtr(tpl.end),
		Category:      tpl.category,
		Notes:         strPtr(tpl.notes),
	}
}
