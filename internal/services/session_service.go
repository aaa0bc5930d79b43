package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/cache"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/configurator"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrProductRequired = errors.New("productId is required")
)

// SessionMetrics is the subset of telemetry the session registry reports to
type SessionMetrics interface {
	RegisterSessionCreated(ctx context.Context, status string)
	RegisterCatalogLoadFailure(ctx context.Context, errorMessage string)
}

// SessionService is the registry of live configuration sessions. Sessions
// expire after an idle TTL; every access extends it.
type SessionService struct {
	fetcher  configurator.CatalogFetcher
	sessions *cache.TTLCache[*configurator.Session]
	locks    *SessionLockManager
	metrics  SessionMetrics
	newID    func() string
	now      func() time.Time
}

// NewSessionService creates the registry. metrics may be nil.
func NewSessionService(fetcher configurator.CatalogFetcher, ttl, cleanupInterval time.Duration, metrics SessionMetrics) *SessionService {
	s := &SessionService{
		fetcher:  fetcher,
		sessions: cache.NewTTLCache[*configurator.Session]("configuration_sessions", ttl, cleanupInterval),
		locks:    NewSessionLockManager(),
		metrics:  metrics,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	s.sessions.OnEvict(func(id string, session *configurator.Session) {
		s.locks.Forget(id)
		slog.Info("Configuration session discarded", "session_id", id, "product_id", session.ProductID())
	})
	return s
}

// Close stops the expiry loop
func (s *SessionService) Close() {
	s.sessions.Stop()
}

// Create starts a session for productID and loads its catalog snapshot.
// A failed load still registers the session in the error state so the
// caller can read the message; the returned error is the load failure.
func (s *SessionService) Create(ctx context.Context, productID string) (string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", ErrProductRequired
	}

	id := s.newID()
	session := configurator.NewSession(productID, s.fetcher)
	loadErr := session.Load(ctx)

	s.sessions.Set(id, session)

	if s.metrics != nil {
		s.metrics.RegisterSessionCreated(ctx, string(session.Status()))
		if loadErr != nil {
			s.metrics.RegisterCatalogLoadFailure(ctx, loadErr.Error())
		}
	}

	slog.Info("Configuration session created",
		"session_id", id,
		"product_id", productID,
		"status", session.Status())

	return id, loadErr
}

// With runs fn on the session under its write lock and extends its TTL
func (s *SessionService) With(id string, fn func(*configurator.Session) error) error {
	session, ok := s.sessions.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.sessions.Touch(id)

	var err error
	s.locks.WithSessionWriteLock(id, func() {
		err = fn(session)
	})
	return err
}

// Inspect runs fn on the session under its read lock and extends its TTL.
// fn must not mutate the session.
func (s *SessionService) Inspect(id string, fn func(*configurator.Session) error) error {
	session, ok := s.sessions.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.sessions.Touch(id)

	var err error
	s.locks.WithSessionReadLock(id, func() {
		err = fn(session)
	})
	return err
}

// View renders the session for API responses
func (s *SessionService) View(id string) (models.SessionView, error) {
	var view models.SessionView
	err := s.Inspect(id, func(session *configurator.Session) error {
		view = BuildSessionView(id, session, s.now().Add(s.sessions.TTL()))
		return nil
	})
	return view, err
}

// Delete discards a session
func (s *SessionService) Delete(id string) error {
	if !s.sessions.Delete(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	return s.sessions.ActiveSize()
}

// GetStats merges cache and lock statistics
func (s *SessionService) GetStats() map[string]interface{} {
	stats := s.sessions.GetStats()
	for k, v := range s.locks.GetLockStats() {
		stats[k] = v
	}
	return stats
}

// BuildSessionView snapshots a session into its API shape
func BuildSessionView(id string, session *configurator.Session, expiresAt time.Time) models.SessionView {
	sel := session.Selection()
	view := models.SessionView{
		ID:                 id,
		ProductID:          session.ProductID(),
		Status:             session.Status(),
		Error:              session.ErrorMessage(),
		SelectedAttributes: sel.Attributes,
		SelectedComponents: sel.Components,
		BasePrice:          session.BasePrice(),
		TotalPrice:         session.TotalPrice(),
		ExpiresAt:          expiresAt,
	}

	if session.Status() != configurator.StatusReady {
		return view
	}

	plan := session.Plan()
	summary := session.Summary()
	view.Steps = plan.Steps
	view.Options = session.Options()
	view.UnsupportedGroups = plan.Unsupported
	view.CurrentStep = session.Navigator().Current()
	view.MonthlyEstimate = configurator.SidebarEstimate(session.TotalPrice())
	view.Summary = &summary
	view.LeaseTerms = configurator.LeaseTerms()
	return view
}
