package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
	"github.com/yanqian/underwriting-gateway/internal/infra/config"
)

type stubService struct {
	underwriting.Service
	probed chan struct{}
}

func (s *stubService) Healthy(context.Context) bool {
	close(s.probed)
	return false
}

func TestAppRunStopsOnContextCancel(t *testing.T) {
	cfg := &config.Config{
		HTTP:     config.HTTPConfig{Address: "127.0.0.1:0"},
		Upstream: config.UpstreamConfig{BaseURL: "http://localhost:8081"},
	}
	server := &http.Server{Addr: cfg.HTTP.Address, Handler: http.NotFoundHandler()}
	svc := &stubService{probed: make(chan struct{})}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case <-svc.probed:
	case <-time.After(2 * time.Second):
		t.Fatal("upstream probe did not run")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
