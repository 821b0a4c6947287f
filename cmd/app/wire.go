//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/beejsebazaar/advisor/internal/bootstrap"
	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/auth"
	"github.com/beejsebazaar/advisor/internal/domain/contact"
	"github.com/beejsebazaar/advisor/internal/domain/cropalert"
	"github.com/beejsebazaar/advisor/internal/domain/cropplan"
	"github.com/beejsebazaar/advisor/internal/domain/fieldtips"
	"github.com/beejsebazaar/advisor/internal/domain/harvest"
	"github.com/beejsebazaar/advisor/internal/domain/healthcheck"
	"github.com/beejsebazaar/advisor/internal/domain/practices"
	"github.com/beejsebazaar/advisor/internal/infra/config"
	httpiface "github.com/beejsebazaar/advisor/internal/interface/http"
	"github.com/beejsebazaar/advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideGenerator,
		provideWeatherProvider,
		provideCropPlanConfig,
		providePracticesConfig,
		provideFieldTipsConfig,
		provideCropAlertConfig,
		provideHealthCheckConfig,
		provideHarvestConfig,
		provideContactConfig,
		provideRelay,
		provideAuthConfig,
		provideHandlerOptions,
		provideLimiter,
		advisory.NewWeatherService,
		cropplan.NewService,
		practices.NewService,
		fieldtips.NewService,
		cropalert.NewService,
		healthcheck.NewService,
		harvest.NewService,
		contact.NewService,
		auth.NewService,
		wire.Struct(new(httpiface.Services), "*"),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
