package service

import (
	"context"
	"time"

	"github.com/dsaheb/dsahebapi/internal/config"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LockoutService tracks password login attempts and decides when an account
// is temporarily locked.
type LockoutService struct {
	attempts AttemptStore
	cfg      config.LockoutConfig
	now      func() time.Time
	logger   *logrus.Logger
}

func NewLockoutService(attempts AttemptStore, cfg config.LockoutConfig, logger *logrus.Logger) *LockoutService {
	return &LockoutService{
		attempts: attempts,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// IsLockedOut reports whether the user has at least MaxAttempts failures
// strictly inside the window ending at now.
func (s *LockoutService) IsLockedOut(ctx context.Context, userID string, now time.Time) (bool, error) {
	failures, err := s.attempts.CountFailuresSince(ctx, userID, now.Add(-s.cfg.Window))
	if err != nil {
		return false, err
	}
	return failures >= s.cfg.MaxAttempts, nil
}

func (s *LockoutService) RecordFailure(ctx context.Context, userID string) error {
	return s.record(ctx, userID, false)
}

// RecordSuccess clears the lockout by marking every existing attempt row
// successful. No row is appended for the success itself.
func (s *LockoutService) RecordSuccess(ctx context.Context, userID string) error {
	if err := s.attempts.MarkAllSuccessful(ctx, userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to reset login attempts")
		return err
	}
	return nil
}

func (s *LockoutService) record(ctx context.Context, userID string, ok bool) error {
	attempt := &models.LoginAttempt{
		ID:          uuid.New().String(),
		UserID:      userID,
		AttemptedAt: s.now().UTC(),
		Successful:  ok,
	}
	if err := s.attempts.Append(ctx, attempt); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to record login attempt")
		return err
	}
	return nil
}
