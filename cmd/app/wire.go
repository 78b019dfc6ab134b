//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/underwriting-gateway/internal/bootstrap"
	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
	"github.com/yanqian/underwriting-gateway/internal/infra/config"
	"github.com/yanqian/underwriting-gateway/internal/infra/underwritingapi"
	httpiface "github.com/yanqian/underwriting-gateway/internal/interface/http"
	"github.com/yanqian/underwriting-gateway/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideMetricsRecorder,
		provideUnderwritingClient,
		provideHistoryCache,
		underwriting.NewService,
		wire.Bind(new(underwriting.APIClient), new(*underwritingapi.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
