package underwritingapi

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
	apperrors "github.com/yanqian/underwriting-gateway/pkg/errors"
	"github.com/yanqian/underwriting-gateway/pkg/metrics"
	"github.com/yanqian/underwriting-gateway/pkg/requestid"
)

const (
	defaultTimeout = 10 * time.Second

	submitPath  = "/api/v1/underwriting"
	historyPath = "/api/v1/underwriting/history/{userId}"
	pingPath    = "/api/v1/ping"
)

// StatusError reports a non-2xx answer from the underwriting service.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("underwriting service returned status %d: %s", e.Status, e.Message)
}

// Client talks to the underwriting REST API. Calls are never retried.
type Client struct {
	http     *resty.Client
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// NewClient builds a client for baseURL. A non-positive timeout falls back to ten seconds.
func NewClient(baseURL string, timeout time.Duration, recorder *metrics.Recorder, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(strings.TrimSpace(baseURL), "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	rc.OnBeforeRequest(forwardRequestID)

	return &Client{
		http:     rc,
		recorder: recorder,
		logger:   logger.With("component", "underwritingapi.client"),
	}
}

var _ underwriting.APIClient = (*Client)(nil)

// Submit posts a canonical request and returns the raw decision payload.
func (c *Client) Submit(ctx context.Context, req underwriting.Request) (underwriting.Value, error) {
	r := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req)
	return c.do("submit", r, http.MethodPost, submitPath)
}

// History fetches the raw history payload of a borrower.
func (c *Client) History(ctx context.Context, userID string) (underwriting.Value, error) {
	r := c.http.R().
		SetContext(ctx).
		SetPathParam("userId", userID)
	return c.do("history", r, http.MethodGet, historyPath)
}

// Ping checks liveness. Only a 2xx carrying a JSON body is healthy.
func (c *Client) Ping(ctx context.Context) error {
	started := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(pingPath)
	if err != nil {
		c.recorder.ObserveUpstream("ping", metrics.OutcomeNetworkError, time.Since(started))
		return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "underwriting service unreachable", err)
	}
	if !resp.IsSuccess() {
		c.recorder.ObserveUpstream("ping", metrics.OutcomeStatusError, time.Since(started))
		return statusFailure(resp)
	}
	c.recorder.ObserveUpstream("ping", metrics.OutcomeOK, time.Since(started))

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return apperrors.Wrap(apperrors.CodeUpstreamError, "underwriting service ping returned no JSON body", nil)
	}
	return nil
}

func (c *Client) do(endpoint string, r *resty.Request, method, path string) (underwriting.Value, error) {
	started := time.Now()
	resp, err := r.Execute(method, path)
	elapsed := time.Since(started)
	if err != nil {
		c.recorder.ObserveUpstream(endpoint, metrics.OutcomeNetworkError, elapsed)
		c.logger.Warn("underwriting request failed", "endpoint", endpoint, "error", err)
		return underwriting.Value{}, apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "underwriting service unreachable", err)
	}
	if !resp.IsSuccess() {
		c.recorder.ObserveUpstream(endpoint, metrics.OutcomeStatusError, elapsed)
		c.logger.Warn("underwriting request rejected", "endpoint", endpoint, "status", resp.StatusCode())
		return underwriting.Value{}, statusFailure(resp)
	}
	c.recorder.ObserveUpstream(endpoint, metrics.OutcomeOK, elapsed)

	body := bytes.TrimSpace(resp.Body())
	if resp.StatusCode() == http.StatusNoContent || len(body) == 0 {
		return underwriting.ObjectValue(nil), nil
	}
	if !gjson.ValidBytes(body) {
		c.logger.Warn("underwriting response is not JSON", "endpoint", endpoint, "status", resp.StatusCode(), "bytes", len(body))
		return underwriting.NullValue(), nil
	}
	c.logger.Debug("underwriting response received", "endpoint", endpoint, "status", resp.StatusCode(), "latency_ms", elapsed.Milliseconds())
	return underwriting.DecodeValue(body), nil
}

func statusFailure(resp *resty.Response) error {
	status := resp.StatusCode()
	message := errorMessage(resp.Body(), status)
	return apperrors.Wrap(apperrors.CodeUpstreamError, message, &StatusError{Status: status, Message: message})
}

// errorMessage prefers a bare JSON string, then a "message" field, then an "error" field.
func errorMessage(body []byte, status int) string {
	body = bytes.TrimSpace(body)
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.Type == gjson.String {
			if msg := strings.TrimSpace(parsed.String()); msg != "" {
				return msg
			}
		}
		if parsed.IsObject() {
			for _, key := range []string{"message", "error"} {
				field := parsed.Get(key)
				if field.Type != gjson.String {
					continue
				}
				if msg := strings.TrimSpace(field.String()); msg != "" {
					return msg
				}
			}
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func forwardRequestID(_ *resty.Client, r *resty.Request) error {
	if id, ok := requestid.FromContext(r.Context()); ok {
		r.SetHeader(requestid.Header, id)
	}
	return nil
}
