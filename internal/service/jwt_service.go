package service

import (
	"fmt"
	"time"

	"github.com/dsaheb/dsahebapi/internal/config"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type JWTService struct {
	secretKey     []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
	logger        *logrus.Logger
}

func NewJWTService(cfg config.JWTConfig, logger *logrus.Logger) (*JWTService, error) {
	secretKey := []byte(cfg.SecretKey)
	if len(secretKey) < 32 {
		return nil, fmt.Errorf("secret key must be at least 32 bytes")
	}

	return &JWTService{
		secretKey:     secretKey,
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		now:           time.Now,
		logger:        logger,
	}, nil
}

// Claims carries the identity of a session. The token ID (jti) lives in
// RegisteredClaims.ID; SessionID is shared by every token of one login.
type Claims struct {
	UserID    string `json:"uid"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Type      string `json:"type"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// GeneratePair signs an access and a refresh token for user in session
// sessionID, returning the claims of both so callers can track them.
func (s *JWTService) GeneratePair(user *models.User, sessionID string) (*models.TokenPair, []*Claims, error) {
	now := s.now()
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	access := s.newClaims(user, sessionID, models.TokenTypeAccess, now, s.accessExpiry)
	accessToken, err := s.sign(access)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign access token")
		return nil, nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := s.newClaims(user, sessionID, models.TokenTypeRefresh, now, s.refreshExpiry)
	refreshToken, err := s.sign(refresh)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign refresh token")
		return nil, nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessExpiry.Seconds()),
	}, []*Claims{access, refresh}, nil
}

func (s *JWTService) newClaims(user *models.User, sessionID, tokenType string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		UserID:    user.ID,
		Phone:     user.Mobile,
		Role:      string(user.Role),
		Type:      tokenType,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

func (s *JWTService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.ID == "" || claims.UserID == "" {
		return nil, fmt.Errorf("token is missing identity claims")
	}

	return claims, nil
}
