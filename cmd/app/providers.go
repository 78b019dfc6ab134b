package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
	"github.com/yanqian/underwriting-gateway/internal/infra/config"
	"github.com/yanqian/underwriting-gateway/internal/infra/historycache"
	"github.com/yanqian/underwriting-gateway/internal/infra/underwritingapi"
	"github.com/yanqian/underwriting-gateway/pkg/metrics"
)

func provideMetricsRecorder(cfg *config.Config) *metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.NewRecorder()
}

func provideUnderwritingClient(cfg *config.Config, recorder *metrics.Recorder, logger *slog.Logger) *underwritingapi.Client {
	return underwritingapi.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, recorder, logger)
}

func provideHistoryCache(cfg *config.Config, logger *slog.Logger) (underwriting.HistoryCache, func()) {
	noop := func() {}
	cacheCfg := cfg.History.Cache
	if !cacheCfg.Enabled {
		logger.Info("history cache disabled")
		return nil, noop
	}
	memory := historycache.NewMemoryCache(cacheCfg.Size, cacheCfg.TTL)
	if strings.TrimSpace(cacheCfg.ValkeyAddr) == "" {
		logger.Info("history memory cache enabled", "size", cacheCfg.Size, "ttl", cacheCfg.TTL.String())
		return memory, noop
	}

	opt, err := buildValkeyOptions(cacheCfg.ValkeyAddr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return memory, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return memory, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return memory, noop
	}
	logger.Info("history valkey cache enabled", "addr", cacheCfg.ValkeyAddr, "ttl", cacheCfg.TTL.String())
	return historycache.NewValkeyCache(client, "", cacheCfg.TTL), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
