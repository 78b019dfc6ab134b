package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/underwriting-gateway/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New().With("component", "main")

	app, cleanup, err := initializeApp()
	if err != nil {
		log.Error("failed to wire underwriting gateway", "error", err)
		os.Exit(1)
	}

	err = app.Run(ctx)
	cleanup()
	if err != nil {
		log.Error("underwriting gateway stopped with error", "error", err)
		os.Exit(1)
	}
}
