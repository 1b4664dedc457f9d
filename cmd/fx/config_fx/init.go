package config_fx

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"lotus/internal/config"
	"lotus/internal/infra"
	"lotus/pkg/utils"
)

var Module = fx.Provide(
	config.Load,
	infra.NewLogger,
	provideLocation,
	provideTokenVerifier,
)

func provideLocation(cfg config.Config, logger *zap.Logger) *time.Location {
	return utils.LoadLocation(cfg.TimeZone, logger)
}

func provideTokenVerifier(cfg config.Config, logger *zap.Logger) *utils.TokenVerifier {
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set; bearer tokens will be rejected")
	}
	return utils.NewTokenVerifier(cfg.JWTSecret)
}
