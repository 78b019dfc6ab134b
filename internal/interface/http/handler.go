package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/yanqian/underwriting-gateway/internal/domain/report"
	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
)

// Handler wires the HTTP transport to the underwriting service.
type Handler struct {
	svc    underwriting.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc underwriting.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

type submitResponse struct {
	Result       report.RecordView   `json:"result"`
	History      []report.RecordView `json:"history"`
	HistoryError string              `json:"historyError,omitempty"`
}

type historyResponse struct {
	Evaluations []report.RecordView `json:"evaluations"`
}

// Ping reports gateway liveness without touching the underwriting service.
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Health reports whether the underwriting service answers its ping endpoint.
func (h *Handler) Health(c *gin.Context) {
	status := "offline"
	if h.svc.Healthy(c.Request.Context()) {
		status = "online"
	}
	c.JSON(http.StatusOK, gin.H{"upstream": status})
}

// Submit evaluates a borrower form and returns the decision with the refreshed history.
func (h *Handler) Submit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "request body could not be read", err))
		return
	}
	if !gjson.ValidBytes(body) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "request body must be valid JSON", nil))
		return
	}
	payload := underwriting.DecodeValue(body)
	if payload.Kind() != underwriting.KindObject {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "request body must be a JSON object", nil))
		return
	}

	eval, err := h.svc.Evaluate(c.Request.Context(), underwriting.FormFromValue(payload))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		Result:       report.NewView(eval.Result),
		History:      report.NewViews(eval.History),
		HistoryError: eval.HistoryError,
	})
}

// History returns the evaluation history of a borrower.
func (h *Handler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("userId"))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, historyResponse{Evaluations: report.NewViews(history)})
}
