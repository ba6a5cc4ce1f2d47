package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
)

// SessionService issues, authenticates and revokes bearer tokens.
type SessionService struct {
	jwt       *JWTService
	tokens    OutstandingTokenStore
	blacklist Blacklist
	users     UserStore
	now       func() time.Time
	logger    *logrus.Logger
}

func NewSessionService(jwtService *JWTService, tokens OutstandingTokenStore, blacklist Blacklist, users UserStore, logger *logrus.Logger) *SessionService {
	return &SessionService{
		jwt:       jwtService,
		tokens:    tokens,
		blacklist: blacklist,
		users:     users,
		now:       time.Now,
		logger:    logger,
	}
}

// Issue starts a new session for user.
func (s *SessionService) Issue(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	return s.issue(ctx, user, "")
}

func (s *SessionService) issue(ctx context.Context, user *models.User, sessionID string) (*models.TokenPair, error) {
	pair, claims, err := s.jwt.GeneratePair(user, sessionID)
	if err != nil {
		return nil, err
	}

	for _, c := range claims {
		token := &models.OutstandingToken{
			JTI:       c.ID,
			UserID:    user.ID,
			SessionID: c.SessionID,
			Type:      c.Type,
			CreatedAt: c.IssuedAt.Time,
			ExpiresAt: c.ExpiresAt.Time,
		}
		if err := s.tokens.Store(ctx, token); err != nil {
			return nil, err
		}
	}

	return pair, nil
}

// RevokeAll blacklists every unexpired token ever issued to the user.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	tokens, err := s.tokens.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	now := s.now()
	var errs []error
	for _, t := range tokens {
		ttl := t.ExpiresAt.Sub(now)
		if ttl <= 0 {
			continue
		}
		if err := s.blacklist.Add(ctx, t.JTI, ttl); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to revoke %d token(s): %w", len(errs), errors.Join(errs...))
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"tokens":  len(tokens),
	}).Info("Revoked all sessions")
	return nil
}

// Authenticate resolves an access token to its active user. Every failure,
// including an unreachable blacklist, is reported as ErrUnauthorized.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwt.VerifyToken(token)
	if err != nil {
		s.logger.WithError(err).Debug("Token verification failed")
		return nil, unauthorized("Invalid or expired token")
	}
	if claims.Type != models.TokenTypeAccess {
		return nil, unauthorized("Invalid token type")
	}
	return s.resolve(ctx, claims)
}

// Refresh exchanges a refresh token for a new pair in the same session. The
// presented refresh token is blacklisted and cannot be used again.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.jwt.VerifyToken(refreshToken)
	if err != nil {
		return nil, unauthorized("Invalid refresh token")
	}
	if claims.Type != models.TokenTypeRefresh {
		return nil, unauthorized("Token is not a refresh token")
	}

	user, err := s.resolve(ctx, claims)
	if err != nil {
		return nil, err
	}

	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Sub(s.now())); err != nil {
		return nil, err
	}
	if err := s.tokens.Delete(ctx, user.ID, claims.ID); err != nil {
		s.logger.WithError(err).WithField("jti", claims.ID).Warn("Failed to drop rotated refresh token")
	}

	return s.issue(ctx, user, claims.SessionID)
}

func (s *SessionService) resolve(ctx context.Context, claims *Claims) (*models.User, error) {
	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		s.logger.WithError(err).Warn("Blacklist lookup failed")
		return nil, unauthorized("Invalid or expired token")
	}
	if revoked {
		return nil, unauthorized("Token has been revoked")
	}

	user, err := s.users.GetByMobile(ctx, claims.Phone)
	if err != nil {
		s.logger.WithError(err).Warn("User lookup failed during authentication")
		return nil, unauthorized("Invalid or expired token")
	}
	if user == nil || user.ID != claims.UserID || !user.IsActive {
		return nil, unauthorized("User not found or inactive")
	}
	return user, nil
}
