package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dsaheb/dsahebapi/internal/config"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgOTPExpired  = "OTP expired"
	MsgOTPInvalid  = "Invalid OTP"
	MsgOTPNotFound = "No OTP found for this phone number"
	MsgOTPVerified = "OTP verified"
	MsgOTPSendFail = "Failed to send OTP"
)

type OTPService struct {
	codes     OTPStore
	messenger Messenger
	cfg       config.OTPConfig
	now       func() time.Time
	logger    *logrus.Logger
}

func NewOTPService(codes OTPStore, messenger Messenger, cfg config.OTPConfig, logger *logrus.Logger) *OTPService {
	return &OTPService{
		codes:     codes,
		messenger: messenger,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
	}
}

// RequestCode issues a fresh code for phone and delivers it. The code is
// persisted before delivery; a delivery failure is reported through ok and
// message, not err.
func (s *OTPService) RequestCode(ctx context.Context, phone, userID string) (bool, string, error) {
	otp, err := generateDigits(s.cfg.Length)
	if err != nil {
		return false, "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(otp), s.cfg.HashCost)
	if err != nil {
		return false, "", fmt.Errorf("failed to hash OTP: %w", err)
	}

	now := s.now().UTC()
	code := &models.OneTimeCode{
		ID:          uuid.New().String(),
		PhoneNumber: phone,
		UserID:      userID,
		CodeHash:    string(hash),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.Expiry),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return false, "", err
	}

	message := strings.ReplaceAll(s.cfg.MessageTemplate, "{otp}", otp)
	if err := s.messenger.Send(ctx, phone, message); err != nil {
		s.logger.WithError(err).WithField("phone", phone).Warn("OTP delivery failed")
		return false, MsgOTPSendFail, nil
	}

	if err := s.codes.MarkSent(ctx, code); err != nil {
		s.logger.WithError(err).WithField("otp_id", code.ID).Warn("Failed to mark OTP as sent")
	}

	return true, "OTP sent to " + phone, nil
}

// VerifyCode checks code against the newest unverified code for phone. A
// matching, unexpired code is consumed and cannot be verified again.
func (s *OTPService) VerifyCode(ctx context.Context, phone, code string) (bool, string, error) {
	record, err := s.codes.LatestUnverified(ctx, phone)
	if err != nil {
		return false, "", err
	}
	if record == nil {
		return false, MsgOTPNotFound, nil
	}

	if record.IsExpired(s.now()) {
		return false, MsgOTPExpired, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		return false, MsgOTPInvalid, nil
	}

	won, err := s.codes.MarkVerified(ctx, record)
	if err != nil {
		return false, "", err
	}
	if !won {
		return false, MsgOTPNotFound, nil
	}

	return true, MsgOTPVerified, nil
}

func generateDigits(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(num.String())
	}
	return b.String(), nil
}
