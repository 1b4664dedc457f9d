package planner_fx

import (
	"time"

	"go.uber.org/fx"

	"lotus/internal/itinerary"
	"lotus/internal/services"
)

var Module = fx.Provide(
	ProvidePipeline,
	services.NewItineraryPersister,
	services.NewPlannerService,
)

func ProvidePipeline(loc *time.Location) itinerary.Pipeline {
	return itinerary.Pipeline{Location: loc, Now: time.Now}
}
