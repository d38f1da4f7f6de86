package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ServiceOptions configures a Service. Zero values fall back to defaults.
type ServiceOptions struct {
	MaxFileSize     int64
	DefaultCategory string
	MaxConcurrent   int
	MaxWaitTime     time.Duration
	Timeout         time.Duration // per Load / Import call
	SessionTTL      time.Duration
}

const (
	defaultImportTimeout = 2 * time.Minute
	defaultSessionTTL    = 30 * time.Minute
)

// Service owns the import wizard sessions of all tenants.
type Service struct {
	store   Store
	opts    ServiceOptions
	limiter *ImportLimiter
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*importSession
}

type importSession struct {
	id       string
	wizard   *Wizard
	created  time.Time
	lastUsed time.Time
}

// SessionInfo describes a wizard session.
type SessionInfo struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenantId"`
	CreatedAt time.Time      `json:"createdAt"`
	Wizard    WizardSnapshot `json:"wizard"`
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ServiceOptions) *Service {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = MaxFileSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultImportTimeout
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}

	return &Service{
		store:    store,
		opts:     opts,
		limiter:  NewImportLimiter(opts.MaxConcurrent, opts.MaxWaitTime),
		now:      time.Now,
		sessions: make(map[string]*importSession),
	}
}

// maxTenantIDLen bounds tenant ids taken from request paths.
const maxTenantIDLen = 128

// ValidateTenantID rejects blank or oversized tenant ids.
func ValidateTenantID(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" || len(tenantID) > maxTenantIDLen {
		return fmt.Errorf("%w: %q", ErrInvalidTenant, tenantID)
	}
	return nil
}

// CreateSession starts a new wizard for tenantID in the upload state.
func (s *Service) CreateSession(tenantID string) (SessionInfo, error) {
	if err := ValidateTenantID(tenantID); err != nil {
		return SessionInfo{}, err
	}

	now := s.now()
	sess := &importSession{
		id: uuid.NewString(),
		wizard: NewWizard(tenantID, s.store, WizardConfig{
			Parse:           ParseOptions{MaxFileSize: s.opts.MaxFileSize},
			DefaultCategory: s.opts.DefaultCategory,
		}),
		created:  now,
		lastUsed: now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	slog.Debug("import session created", "session_id", sess.id, "tenant_id", tenantID)
	return sess.info(), nil
}

// Session returns the session's current view. A session owned by another
// tenant is reported as not found.
func (s *Service) Session(tenantID, sessionID string) (SessionInfo, error) {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return SessionInfo{}, err
	}
	return sess.info(), nil
}

// DeleteSession drops a session.
func (s *Service) DeleteSession(tenantID, sessionID string) error {
	if _, err := s.lookup(tenantID, sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// LoadFile runs the session's Load step under the import limit and timeout.
func (s *Service) LoadFile(ctx context.Context, tenantID, sessionID, fileName string, size int64, r io.Reader) (PreviewSummary, error) {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return PreviewSummary{}, err
	}

	var summary PreviewSummary
	err = s.run(ctx, func(ctx context.Context) error {
		var loadErr error
		summary, loadErr = sess.wizard.Load(ctx, fileName, size, r)
		return loadErr
	})
	if err != nil {
		return PreviewSummary{}, err
	}

	slog.Info("import file loaded",
		"session_id", sessionID,
		"tenant_id", tenantID,
		"file", fileName,
		"rows", summary.TotalRows,
		"valid", summary.ValidRows,
		"invalid", summary.InvalidRows,
		"duplicates", summary.DuplicateRows,
	)
	return summary, nil
}

// Import runs the session's Import step under the import limit and timeout.
func (s *Service) Import(ctx context.Context, tenantID, sessionID string) (ImportResult, error) {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return ImportResult{}, err
	}

	start := s.now()
	var result ImportResult
	err = s.run(ctx, func(ctx context.Context) error {
		var importErr error
		result, importErr = sess.wizard.Import(ctx)
		return importErr
	})
	if err != nil {
		return ImportResult{}, err
	}

	slog.Info("import finished",
		"session_id", sessionID,
		"tenant_id", tenantID,
		"success", result.Success,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Back returns a previewing session to upload.
func (s *Service) Back(tenantID, sessionID string) error {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return err
	}
	return sess.wizard.Back()
}

// Reset returns a completed session to upload.
func (s *Service) Reset(tenantID, sessionID string) error {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return err
	}
	return sess.wizard.Reset()
}

// Result returns the outcome of a completed session.
func (s *Service) Result(tenantID, sessionID string) (ImportResult, error) {
	sess, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return ImportResult{}, err
	}
	result, ok := sess.wizard.Result()
	if !ok {
		return ImportResult{}, &TransitionError{Op: "read result", State: sess.wizard.State()}
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, fn func(context.Context) error) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	return fn(ctx)
}

func (s *Service) lookup(tenantID, sessionID string) (*importSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.wizard.TenantID() != tenantID {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	sess.lastUsed = s.now()
	return sess, nil
}

// SweepIdle drops sessions unused for longer than the session TTL and
// returns how many were removed. Sessions mid-import are kept.
func (s *Service) SweepIdle() int {
	cutoff := s.now().Add(-s.opts.SessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.After(cutoff) || sess.wizard.State() == StateImporting {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// StartSessionSweeper runs SweepIdle every interval until ctx is cancelled.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	slog.Info("session sweeper started", "interval", interval, "ttl", s.opts.SessionTTL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := s.SweepIdle(); n > 0 {
				slog.Info("idle import sessions removed", "count", n)
			}
		}
	}
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// WaitForImports blocks until in-flight Load and Import calls finish.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

func (sess *importSession) info() SessionInfo {
	return SessionInfo{
		ID:        sess.id,
		TenantID:  sess.wizard.TenantID(),
		CreatedAt: sess.created,
		Wizard:    sess.wizard.Snapshot(),
	}
}
