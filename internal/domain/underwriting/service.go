package underwriting

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/underwriting-gateway/pkg/errors"
	"github.com/yanqian/underwriting-gateway/pkg/metrics"
)

// Service is the borrower facing underwriting workflow.
type Service interface {
	Submit(ctx context.Context, req Request) (Record, error)
	History(ctx context.Context, userID string) (History, error)
	Evaluate(ctx context.Context, form FormValues) (Evaluation, error)
	Healthy(ctx context.Context) bool
}

// APIClient exchanges raw payloads with the underwriting service.
type APIClient interface {
	Submit(ctx context.Context, req Request) (Value, error)
	History(ctx context.Context, userID string) (Value, error)
	Ping(ctx context.Context) error
}

// HistoryCache keeps recently fetched histories per borrower.
type HistoryCache interface {
	Get(ctx context.Context, userID string) (History, bool, error)
	Set(ctx context.Context, userID string, history History) error
	Delete(ctx context.Context, userID string) error
}

type service struct {
	client   APIClient
	cache    HistoryCache
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// NewService wires the underwriting workflow. cache and recorder may be nil.
func NewService(client APIClient, cache HistoryCache, recorder *metrics.Recorder, logger *slog.Logger) Service {
	return &service{
		client:   client,
		cache:    cache,
		recorder: recorder,
		logger:   logger.With("component", "underwriting.service"),
	}
}

func (s *service) Submit(ctx context.Context, req Request) (Record, error) {
	payload, err := s.client.Submit(ctx, req)
	if err != nil {
		return Record{}, upstreamFailure("underwriting submission failed", err)
	}

	record, ok := NormalizeRecord(payload, &req)
	if !ok {
		record = Record{Request: req, Decision: DecisionRefer}
	}
	s.logger.Info("underwriting decision received",
		"user_id", record.UserID,
		"decision", record.Decision,
		"reasons", len(record.Reasons),
	)

	s.invalidateHistory(ctx, req.UserID)
	if record.UserID != req.UserID {
		s.invalidateHistory(ctx, record.UserID)
	}
	return record, nil
}

// invalidateHistory drops the cached history of userID. The upstream may echo a different
// identifier than the one submitted, so Submit clears both.
func (s *service) invalidateHistory(ctx context.Context, userID string) {
	if s.cache == nil || strings.TrimSpace(userID) == "" {
		return
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("history cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (s *service) History(ctx context.Context, userID string) (History, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return History{}, nil
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, userID)
		switch {
		case err != nil:
			s.logger.Warn("history cache read failed", "user_id", userID, "error", err)
		case ok:
			s.logger.Debug("history cache hit", "user_id", userID, "records", len(cached))
			return cached, nil
		}
	}

	payload, err := s.client.History(ctx, userID)
	if err != nil {
		return nil, upstreamFailure("history lookup failed", err)
	}

	entries := HistoryEntries(payload)
	history := NormalizeHistory(payload)
	if dropped := len(entries) - len(history); dropped > 0 {
		s.recorder.AddDroppedRecords(dropped)
		s.logger.Info("history entries dropped", "user_id", userID, "dropped", dropped)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, history); err != nil {
			s.logger.Warn("history cache write failed", "user_id", userID, "error", err)
		}
	}
	return history, nil
}

func (s *service) Evaluate(ctx context.Context, form FormValues) (Evaluation, error) {
	req, err := ParseForm(form)
	if err != nil {
		return Evaluation{}, err
	}

	result, err := s.Submit(ctx, req)
	if err != nil {
		return Evaluation{}, err
	}

	eval := Evaluation{Result: result, History: History{}}
	history, err := s.History(ctx, result.UserID)
	if err != nil {
		s.logger.Warn("history refresh after submission failed", "user_id", result.UserID, "error", err)
		eval.HistoryError = apperrors.MessageOf(err)
		return eval, nil
	}
	eval.History = history
	return eval, nil
}

func (s *service) Healthy(ctx context.Context) bool {
	if err := s.client.Ping(ctx); err != nil {
		s.logger.Debug("underwriting service ping failed", "error", err)
		return false
	}
	return true
}

// upstreamFailure keeps transport classified errors intact and classifies the rest as unreachable.
func upstreamFailure(message string, err error) error {
	if apperrors.CodeOf(err) != "" {
		return err
	}
	return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, message, err)
}
