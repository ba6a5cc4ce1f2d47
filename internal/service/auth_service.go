package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dsaheb/dsahebapi/internal/events"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/dsaheb/dsahebapi/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MsgUserNotFound       = "User not found"
	MsgAccountLocked      = "Account locked due to too many failed login attempts. Please try again later."
	MsgInvalidCredentials = "Invalid credentials"
	MsgMissingCredentials = "Please enter your mobile and password."
)

const minPasswordLength = 8

// LoginResult is returned by every flow that starts a session.
type LoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	UserType     models.Role `json:"user_type"`
}

// AuthService composes the credential store, OTP issuer, lockout tracker and
// session issuer into the user-facing account flows.
type AuthService struct {
	users     UserStore
	otp       *OTPService
	lockout   *LockoutService
	sessions  *SessionService
	messenger Messenger
	publisher events.Publisher
	locks     *keyedMutex
	now       func() time.Time
	logger    *logrus.Logger
}

func NewAuthService(
	users UserStore,
	otp *OTPService,
	lockout *LockoutService,
	sessions *SessionService,
	messenger Messenger,
	publisher events.Publisher,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		otp:       otp,
		lockout:   lockout,
		sessions:  sessions,
		messenger: messenger,
		publisher: publisher,
		locks:     newKeyedMutex(),
		now:       time.Now,
		logger:    logger,
	}
}

func (s *AuthService) RequestOTP(ctx context.Context, phone string) (bool, string, error) {
	phone = strings.TrimSpace(phone)
	if !ValidMobile(phone) {
		return false, "", invalid("phone_number must be a valid phone number")
	}

	var userID string
	user, err := s.users.GetByMobile(ctx, phone)
	if err != nil {
		return false, "", err
	}
	if user != nil {
		userID = user.ID
	}

	return s.otp.RequestCode(ctx, phone, userID)
}

// VerifyOTP checks a code and, on success, marks a registered user as
// verified.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (bool, string, error) {
	phone = strings.TrimSpace(phone)
	if !ValidMobile(phone) {
		return false, "", invalid("phone_number must be a valid phone number")
	}

	ok, message, err := s.otp.VerifyCode(ctx, phone, strings.TrimSpace(code))
	if err != nil || !ok {
		return ok, message, err
	}

	user, err := s.users.GetByMobile(ctx, phone)
	if err != nil {
		return false, "", err
	}
	if user != nil && !user.IsVerified {
		if err := s.users.SetVerified(ctx, phone); err != nil {
			return false, "", err
		}
		s.publish(ctx, events.UserVerified, events.UserEvent{
			UserID:     user.ID,
			Mobile:     user.Mobile,
			Role:       string(user.Role),
			OccurredAt: s.now().UTC(),
		})
	}

	return true, message, nil
}

func (s *AuthService) LoginWithOTP(ctx context.Context, phone, code string) (*LoginResult, error) {
	ok, message, err := s.VerifyOTP(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalid(message)
	}

	user, err := s.users.GetByMobile(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound(MsgUserNotFound)
	}
	if !user.IsActive {
		return nil, forbidden("Account is inactive")
	}

	return s.startSession(ctx, user)
}

// CreateUser registers a user with a generated six-digit password, which is
// delivered by SMS, and logs them in.
func (s *AuthService) CreateUser(ctx context.Context, input models.CreateUserInput) (*LoginResult, error) {
	input.Mobile = strings.TrimSpace(input.Mobile)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !input.Usertype.Valid() {
		return nil, invalid("usertype is not a recognised user type")
	}

	password, err := generatePassword(6)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Mobile:       input.Mobile,
		Name:         strings.TrimSpace(input.Name),
		Role:         input.Usertype,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, conflict("A user with this mobile number already exists")
		}
		return nil, err
	}

	message := fmt.Sprintf("Your password is %s. Please use it to log in.", password)
	if err := s.messenger.Send(ctx, user.Mobile, message); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to deliver generated password")
	}

	s.publish(ctx, events.UserRegistered, events.UserEvent{
		UserID:     user.ID,
		Mobile:     user.Mobile,
		Role:       string(user.Role),
		OccurredAt: s.now().UTC(),
	})

	return s.startSession(ctx, user)
}

// Login authenticates with mobile and password, enforcing the failed-attempt
// lockout. Attempts for one user are serialized.
func (s *AuthService) Login(ctx context.Context, mobile, password string) (*LoginResult, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" || password == "" {
		return nil, invalid(MsgMissingCredentials)
	}

	user, err := s.users.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound(MsgUserNotFound)
	}

	unlock := s.locks.Lock(user.ID)
	defer unlock()

	locked, err := s.lockout.IsLockedOut(ctx, user.ID, s.now())
	if err != nil {
		return nil, err
	}
	if locked {
		s.logger.WithField("user_id", user.ID).Warn("Login rejected, account locked")
		return nil, forbidden(MsgAccountLocked)
	}

	if !user.IsActive || !checkPassword(password, user.PasswordHash) {
		if err := s.lockout.RecordFailure(ctx, user.ID); err != nil {
			return nil, err
		}
		return nil, unauthorized(MsgInvalidCredentials)
	}

	if err := s.lockout.RecordSuccess(ctx, user.ID); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, patch models.ProfilePatch) (*models.User, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return user, nil
	}

	updated, err := s.users.UpdateProfile(ctx, user.Mobile, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, notFound(MsgUserNotFound)
	}
	return updated, nil
}

func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
		return err
	}
	s.publish(ctx, events.UserLoggedOut, events.UserEvent{
		UserID:     user.ID,
		Mobile:     user.Mobile,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, mobile string) (bool, string, error) {
	mobile = strings.TrimSpace(mobile)
	user, err := s.users.GetByMobile(ctx, mobile)
	if err != nil {
		return false, "", err
	}
	if user == nil {
		return false, "", notFound(MsgUserNotFound)
	}
	return s.otp.RequestCode(ctx, mobile, user.ID)
}

// ResetPassword sets a new password after an OTP check and revokes every
// existing session of the user.
func (s *AuthService) ResetPassword(ctx context.Context, mobile, code, newPassword string) error {
	mobile = strings.TrimSpace(mobile)
	if len(newPassword) < minPasswordLength {
		return invalid(fmt.Sprintf("new_password must be at least %d characters", minPasswordLength))
	}

	ok, message, err := s.otp.VerifyCode(ctx, mobile, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if !ok {
		return notFound(message)
	}

	user, err := s.users.GetByMobile(ctx, mobile)
	if err != nil {
		return err
	}
	if user == nil {
		return notFound(MsgUserNotFound)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, mobile, hash); err != nil {
		return err
	}

	if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to revoke sessions after password reset")
	}
	return nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, invalid("refresh_token is required")
	}
	return s.sessions.Refresh(ctx, refreshToken)
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	pair, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserType:     user.Role,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, subject string, data interface{}) {
	if err := s.publisher.Publish(ctx, subject, data); err != nil {
		s.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
	}
}
