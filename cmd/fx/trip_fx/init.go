package trip_fx

import (
	"go.uber.org/fx"

	"lotus/internal/services"
)

var Module = fx.Provide(services.NewTripService)
