package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

type loginAttemptStore interface {
	Load(ctx context.Context) ([]models.LoginAttempt, error)
	Save(ctx context.Context, attempts []models.LoginAttempt) error
}

// LoginGuardConfig tunes the failed-login rate limit.
type LoginGuardConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginGuard counts failed logins per identity over a sliding window.
type LoginGuard struct {
	store  loginAttemptStore
	logger *zap.Logger
	cfg    LoginGuardConfig
	now    func() time.Time
	mu     sync.Mutex
}

// NewLoginGuard constructs a LoginGuard.
func NewLoginGuard(store loginAttemptStore, cfg LoginGuardConfig, logger *zap.Logger) *LoginGuard {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginGuard{store: store, logger: logger, cfg: cfg, now: time.Now}
}

// Check returns LoginLocked when the identity reached the attempt limit inside the
// window, LoginAllowed otherwise. Expired attempts of every identity are purged.
func (g *LoginGuard) Check(ctx context.Context, identity string) (models.LoginOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	attempts, err := g.store.Load(ctx)
	if err != nil {
		return "", appErrors.Storage(err, "failed to load login attempts")
	}
	live := g.purge(attempts)
	if len(live) != len(attempts) {
		if err := g.store.Save(ctx, live); err != nil {
			g.logger.Warn("failed to purge expired login attempts", zap.Error(err))
		}
	}
	if countFor(live, identity) >= g.cfg.MaxAttempts {
		return models.LoginLocked, nil
	}
	return models.LoginAllowed, nil
}

// RecordFailure appends a failed attempt for the identity.
func (g *LoginGuard) RecordFailure(ctx context.Context, identity string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	attempts, err := g.store.Load(ctx)
	if err != nil {
		return appErrors.Storage(err, "failed to load login attempts")
	}
	attempts = append(g.purge(attempts), models.LoginAttempt{Username: identity, Timestamp: g.now().UTC().Truncate(time.Second)})
	if err := g.store.Save(ctx, attempts); err != nil {
		return appErrors.Storage(err, "failed to record login attempt")
	}
	return nil
}

// RecordSuccess clears every attempt of the identity.
func (g *LoginGuard) RecordSuccess(ctx context.Context, identity string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	attempts, err := g.store.Load(ctx)
	if err != nil {
		return appErrors.Storage(err, "failed to load login attempts")
	}
	kept := make([]models.LoginAttempt, 0, len(attempts))
	for _, a := range attempts {
		if a.Username != identity {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(attempts) {
		return nil
	}
	if err := g.store.Save(ctx, kept); err != nil {
		return appErrors.Storage(err, "failed to clear login attempts")
	}
	return nil
}

// Attempts returns the number of failures of the identity inside the window.
func (g *LoginGuard) Attempts(ctx context.Context, identity string) (int, error) {
	attempts, err := g.store.Load(ctx)
	if err != nil {
		return 0, appErrors.Storage(err, "failed to load login attempts")
	}
	return countFor(g.purge(attempts), identity), nil
}

func (g *LoginGuard) purge(attempts []models.LoginAttempt) []models.LoginAttempt {
	cutoff := g.now().Add(-g.cfg.Window)
	live := make([]models.LoginAttempt, 0, len(attempts))
	for _, a := range attempts {
		if a.Timestamp.After(cutoff) {
			live = append(live, a)
		}
	}
	return live
}

func countFor(attempts []models.LoginAttempt, identity string) int {
	n := 0
	for _, a := range attempts {
		if a.Username == identity {
			n++
		}
	}
	return n
}
