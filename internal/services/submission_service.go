package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/storage"

	"github.com/google/uuid"
)

// Submitter places orders and quotes upstream
type Submitter interface {
	PlaceOrder(ctx context.Context, req models.SubmissionRequest) (*commerce.SubmissionResult, error)
	PlaceQuote(ctx context.Context, req models.SubmissionRequest) (*commerce.SubmissionResult, error)
}

// Ledger stores submission attempts
type Ledger interface {
	Record(ctx context.Context, rec models.SubmissionRecord) (int64, error)
	List(ctx context.Context, opts storage.ListOptions) ([]models.SubmissionRecord, error)
}

// SubmissionMetrics is the subset of telemetry submissions report to
type SubmissionMetrics interface {
	RegisterSubmission(ctx context.Context, kind, outcome string, duration time.Duration)
}

// SubmissionService places orders and quotes and records every attempt
type SubmissionService struct {
	submitter Submitter
	ledger    Ledger
	metrics   SubmissionMetrics
	newID     func() string
}

// NewSubmissionService wires the upstream client with the ledger. ledger
// and metrics may be nil.
func NewSubmissionService(submitter Submitter, ledger Ledger, metrics SubmissionMetrics) *SubmissionService {
	return &SubmissionService{
		submitter: submitter,
		ledger:    ledger,
		metrics:   metrics,
		newID:     uuid.NewString,
	}
}

// Submit places req as kind. sessionID is recorded when the submission
// came from a server-side session.
func (s *SubmissionService) Submit(ctx context.Context, kind commerce.SubmissionKind, sessionID string, req models.SubmissionRequest) (*commerce.SubmissionResult, error) {
	correlationID := s.newID()
	start := time.Now()

	slog.Info("Placing submission",
		"kind", kind,
		"correlation_id", correlationID,
		"session_id", sessionID,
		"product_id", req.ProductID,
		"total_price", req.TotalPrice)

	var (
		result *commerce.SubmissionResult
		err    error
	)
	if kind == commerce.KindQuote {
		result, err = s.submitter.PlaceQuote(ctx, req)
	} else {
		result, err = s.submitter.PlaceOrder(ctx, req)
	}

	outcome := storage.StatusSucceeded
	if err != nil {
		outcome = storage.StatusFailed
	}
	if s.metrics != nil {
		s.metrics.RegisterSubmission(ctx, string(kind), outcome, time.Since(start))
	}

	s.record(ctx, newRecord(correlationID, kind, sessionID, req, result, err))

	return result, err
}

// List returns recorded submissions, newest first
func (s *SubmissionService) List(ctx context.Context, opts storage.ListOptions) ([]models.SubmissionRecord, error) {
	if s.ledger == nil {
		return []models.SubmissionRecord{}, nil
	}
	return s.ledger.List(ctx, opts)
}

func (s *SubmissionService) record(ctx context.Context, rec models.SubmissionRecord) {
	if s.ledger == nil {
		return
	}
	// The request context may already be past its deadline
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if _, err := s.ledger.Record(ctx, rec); err != nil {
		slog.Error("Failed to record submission",
			"correlation_id", rec.CorrelationID,
			"kind", rec.Kind,
			"error", err)
	}
}

func newRecord(correlationID string, kind commerce.SubmissionKind, sessionID string, req models.SubmissionRequest, result *commerce.SubmissionResult, err error) models.SubmissionRecord {
	rec := models.SubmissionRecord{
		CorrelationID: correlationID,
		Kind:          string(kind),
		SessionID:     sessionID,
		ProductID:     req.ProductID,
		TotalPrice:    req.TotalPrice,
		Status:        storage.StatusSucceeded,
		CreatedAt:     time.Now(),
	}
	if req.ProductData != nil {
		rec.ProductName = req.ProductData.Name
	}
	if f := req.Financing; f != nil {
		rec.LeaseTerm = f.LeaseTerm
		rec.APR = f.APR
		rec.DownPayment = f.DownPayment
		rec.MonthlyPayment = f.MonthlyPayment
	}
	if err != nil {
		rec.Status = storage.StatusFailed
		rec.Error = err.Error()
	} else if result != nil {
		rec.ExternalID = result.ID
	}
	return rec
}
