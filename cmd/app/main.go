package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"lotus/cmd/fx/config_fx"
	"lotus/cmd/fx/controllers_fx"
	"lotus/cmd/fx/db_fx"
	"lotus/cmd/fx/llm_fx"
	"lotus/cmd/fx/planner_fx"
	"lotus/cmd/fx/trip_fx"
	"lotus/internal/api/controllers"
	"lotus/internal/config"
	"lotus/pkg/middleware"
	"lotus/pkg/utils"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		config_fx.Module,
		db_fx.Module,
		llm_fx.Module,
		planner_fx.Module,
		trip_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.NewCORSHandler(cfg.CORSOrigins, engine),
		ReadHeaderTimeout: 5 * time.Second,
		// planning waits on the model call
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	logger *zap.Logger,
	verifier *utils.TokenVerifier,
	plannerController *controllers.PlannerController,
	tripController *controllers.TripController) *gin.Engine {

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger))

	RegisterRoutes(r, verifier, middleware.NewRateLimiter(cfg.PlanRatePerMinute), plannerController, tripController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	verifier *utils.TokenVerifier,
	limiter *middleware.RateLimiter,
	plannerController *controllers.PlannerController,
	tripController *controllers.TripController) {

	r.GET("/healthz", func(c *gin.Context) {
		utils.RespondSuccess(c, nil, "ok")
	})

	api := r.Group("/api")

	itineraryGroup := api.Group("/itineraries")
	itineraryGroup.POST("/plan", middleware.OptionalAuth(verifier), limiter.Middleware(), plannerController.PlanItinerary)

	tripGroup := api.Group("/trips", middleware.RequireAuth(verifier))
	tripGroup.GET("/:tripId", tripController.GetTripDetails)
	tripGroup.GET("/:tripId/itinerary", tripController.GetItinerary)
	tripGroup.GET("/:tripId/calendar.ics", tripController.ExportCalendar)
}
