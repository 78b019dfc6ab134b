package underwritingapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
	apperrors "github.com/yanqian/underwriting-gateway/pkg/errors"
	"github.com/yanqian/underwriting-gateway/pkg/metrics"
	"github.com/yanqian/underwriting-gateway/pkg/requestid"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(srv.URL+"/", time.Second, metrics.NewRecorder(), logger)
}

func TestClientSubmitPostsCanonicalRequest(t *testing.T) {
	var received map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/underwriting", r.URL.Path)
		require.Equal(t, "req-7", r.Header.Get(requestid.Header))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Decision":"Approve","DTI":0.3}`))
	})

	ctx := requestid.NewContext(context.Background(), "req-7")
	payload, err := client.Submit(ctx, underwriting.Request{
		UserID:        "u1",
		MonthlyIncome: 10000,
		CreditScore:   700,
		OccupancyType: underwriting.OccupancyPrimaryResidence,
	})
	require.NoError(t, err)
	require.Equal(t, "Approve", underwriting.NormalizeText(payload.Field("Decision")))

	require.Equal(t, "u1", received["user_id"])
	require.Equal(t, 10000.0, received["monthly_income"])
	require.Equal(t, 700.0, received["credit_score"])
	require.Equal(t, "primary_residence", received["occupancy_type"])
}

func TestClientHistoryEscapesUserID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/underwriting/history/a%2Fb%20c", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`[{"UserID":"a/b c"}]`))
	})

	payload, err := client.History(context.Background(), "a/b c")
	require.NoError(t, err)
	require.Len(t, payload.Items(), 1)
}

func TestClientEmptyBodies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	payload, err := client.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, underwriting.KindObject, payload.Kind())
}

func TestClientNonJSONSuccessIsNull(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>ok</html>`))
	})

	payload, err := client.Submit(context.Background(), underwriting.Request{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, underwriting.KindNull, payload.Kind())
}

func TestClientStatusErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bare string", `"credit score too low"`, "credit score too low"},
		{"message field", `{"message":"invalid occupancy","error":"ignored"}`, "invalid occupancy"},
		{"error field", `{"error":"bad request"}`, "bad request"},
		{"non string message", `{"message":42}`, "request failed with status 422"},
		{"not json", `oops`, "request failed with status 422"},
		{"empty", ``, "request failed with status 422"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Submit(context.Background(), underwriting.Request{UserID: "u1"})
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
			require.Equal(t, tc.want, apperrors.MessageOf(err))

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			require.Equal(t, http.StatusUnprocessableEntity, statusErr.Status)
		})
	}
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewClient(base, time.Second, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.History(context.Background(), "u1")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamUnavailable))
	require.Error(t, client.Ping(context.Background()))
}

func TestClientHonoursCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.History(ctx, "u1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestClientPing(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		healthy bool
	}{
		{"empty object", http.StatusOK, `{}`, true},
		{"status body", http.StatusOK, `{"status":"ok"}`, true},
		{"no content", http.StatusNoContent, ``, false},
		{"empty ok", http.StatusOK, `  `, false},
		{"non json", http.StatusOK, `pong`, false},
		{"server error", http.StatusServiceUnavailable, `{}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/api/v1/ping", r.URL.Path)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			err := client.Ping(context.Background())
			if tc.healthy {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
