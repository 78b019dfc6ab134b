package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
	"github.com/yanqian/underwriting-gateway/internal/infra/config"
	"github.com/yanqian/underwriting-gateway/internal/infra/underwritingapi"
	"github.com/yanqian/underwriting-gateway/internal/interface/cli"
	apperrors "github.com/yanqian/underwriting-gateway/pkg/errors"
	"github.com/yanqian/underwriting-gateway/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(newService).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apperrors.MessageOf(err))
		os.Exit(1)
	}
}

func newService(opts cli.Options) (underwriting.Service, error) {
	cfg, err := config.LoadWithEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	baseURL := cfg.Upstream.BaseURL
	if override := strings.TrimSpace(opts.BaseURL); override != "" {
		baseURL = override
	}

	log := logger.NewTo(os.Stderr)
	client := underwritingapi.NewClient(baseURL, cfg.Upstream.Timeout, nil, log)
	return underwriting.NewService(client, nil, nil, log), nil
}
