package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dsaheb/dsahebapi/internal/config"
	"github.com/dsaheb/dsahebapi/internal/events"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-that-is-at-least-32-bytes"

type authFixture struct {
	svc       *AuthService
	sessions  *SessionService
	jwt       *JWTService
	users     *fakeUsers
	codes     *fakeCodes
	attempts  *fakeAttempts
	tokens    *fakeTokens
	blacklist *fakeBlacklist
	sms       *captureMessenger
	events    *capturePublisher

	mu    sync.Mutex
	clock time.Time
}

func newAuthFixture(t *testing.T, users ...*models.User) *authFixture {
	t.Helper()
	logger := quietLogger()
	f := &authFixture{
		users:     newFakeUsers(users...),
		codes:     &fakeCodes{},
		attempts:  &fakeAttempts{},
		tokens:    newFakeTokens(),
		blacklist: newFakeBlacklist(),
		sms:       &captureMessenger{},
		events:    &capturePublisher{},
		clock:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	jwtService, err := NewJWTService(config.JWTConfig{
		SecretKey:     testSecret,
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	}, logger)
	require.NoError(t, err)
	jwtService.now = f.now
	f.jwt = jwtService

	otp := NewOTPService(f.codes, f.sms, testOTPConfig(), logger)
	otp.now = f.now
	lockout := NewLockoutService(f.attempts, config.LockoutConfig{
		MaxAttempts: 5,
		Window:      30 * time.Minute,
		Retention:   30 * 24 * time.Hour,
	}, logger)
	lockout.now = f.now
	f.sessions = NewSessionService(jwtService, f.tokens, f.blacklist, f.users, logger)
	f.sessions.now = f.now

	f.svc = NewAuthService(f.users, otp, lockout, f.sessions, f.sms, f.events, logger)
	f.svc.now = f.now
	return f
}

func (f *authFixture) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clock
}

func (f *authFixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(d)
}

// seedCode stores a known code for phone, as if it had just been sent.
func (f *authFixture) seedCode(t *testing.T, phone, code string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	now := f.now()
	require.NoError(t, f.codes.Create(context.Background(), &models.OneTimeCode{
		ID:          "seeded-" + code,
		PhoneNumber: phone,
		CodeHash:    string(hash),
		CreatedAt:   now,
		ExpiresAt:   now.Add(5 * time.Minute),
		IsSent:      true,
	}))
}

func newUser(t *testing.T, mobile, password string) *models.User {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-" + mobile,
		Mobile:       mobile,
		Name:         "Test User",
		Role:         models.RoleDoctor,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func TestVerifyOTPWithKnownCode(t *testing.T) {
	f := newAuthFixture(t, newUser(t, "9999999999", "secret-pass"))
	f.seedCode(t, "9999999999", "123456")
	ctx := context.Background()

	ok, msg, err := f.svc.VerifyOTP(ctx, "9999999999", "000000")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "Invalid OTP", msg)

	ok, msg, err = f.svc.VerifyOTP(ctx, "9999999999", "123456")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, MsgOTPVerified, msg)

	user, err := f.users.GetByMobile(ctx, "9999999999")
	require.NoError(t, err)
	require.True(t, user.IsVerified)
	require.Equal(t, []string{events.UserVerified}, f.events.subjects())

	ok, msg, err = f.svc.VerifyOTP(ctx, "9999999999", "123456")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, MsgOTPNotFound, msg)
}

func TestRequestOTPRejectsMalformedPhone(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.RequestOTP(context.Background(), "12ab")
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, f.codes.codes)
}

func TestLoginWithOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("issues tokens for a registered user", func(t *testing.T) {
		f := newAuthFixture(t, newUser(t, "9999999999", "secret-pass"))
		f.seedCode(t, "9999999999", "123456")

		res, err := f.svc.LoginWithOTP(ctx, "9999999999", "123456")
		require.NoError(t, err)
		require.NotEmpty(t, res.AccessToken)
		require.NotEmpty(t, res.RefreshToken)
		require.Equal(t, models.RoleDoctor, res.UserType)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newAuthFixture(t, newUser(t, "9999999999", "secret-pass"))
		f.seedCode(t, "9999999999", "123456")

		_, err := f.svc.LoginWithOTP(ctx, "9999999999", "000000")
		require.ErrorIs(t, err, ErrValidation)
		require.EqualError(t, err, MsgOTPInvalid)
	})

	t.Run("unregistered phone", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedCode(t, "7777777777", "123456")

		_, err := f.svc.LoginWithOTP(ctx, "7777777777", "123456")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLoginLockout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, newUser(t, "9999999999", "correct-horse"))

	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, "9999999999", "wrong")
		require.ErrorIs(t, err, ErrUnauthorized)
		require.EqualError(t, err, MsgInvalidCredentials)
	}

	_, err := f.svc.Login(ctx, "9999999999", "correct-horse")
	require.ErrorIs(t, err, ErrForbidden)
	require.EqualError(t, err, MsgAccountLocked)

	// The failures sit exactly at the window edge and no longer count.
	f.advance(30 * time.Minute)
	res, err := f.svc.Login(ctx, "9999999999", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
}

func TestLoginSuccessResetsFailures(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, newUser(t, "9999999999", "correct-horse"))

	for i := 0; i < 4; i++ {
		_, err := f.svc.Login(ctx, "9999999999", "wrong")
		require.ErrorIs(t, err, ErrUnauthorized)
	}
	_, err := f.svc.Login(ctx, "9999999999", "correct-horse")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := f.svc.Login(ctx, "9999999999", "wrong")
		require.ErrorIs(t, err, ErrUnauthorized)
	}
	_, err = f.svc.Login(ctx, "9999999999", "correct-horse")
	require.NoError(t, err)
}

func TestConcurrentFailedLoginsLockExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, newUser(t, "9999999999", "correct-horse"))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		forbidden int
		denied    int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Login(ctx, "9999999999", "wrong")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
			case strings.Contains(err.Error(), MsgAccountLocked):
				forbidden++
			default:
				denied++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, denied)
	require.Equal(t, 3, forbidden)
}

func TestLoginErrors(t *testing.T) {
	ctx := context.Background()
	inactive := newUser(t, "8888888888", "correct-horse")
	inactive.IsActive = false
	f := newAuthFixture(t, newUser(t, "9999999999", "correct-horse"), inactive)

	_, err := f.svc.Login(ctx, "", "")
	require.ErrorIs(t, err, ErrValidation)
	require.EqualError(t, err, MsgMissingCredentials)

	_, err = f.svc.Login(ctx, "7777777777", "whatever")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Login(ctx, "8888888888", "correct-horse")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateUserSendsPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	res, err := f.svc.CreateUser(ctx, models.CreateUserInput{Mobile: "9999999999", Usertype: models.RolePatient, Name: "Asha"})
	require.NoError(t, err)
	require.Equal(t, models.RolePatient, res.UserType)
	require.Equal(t, []string{events.UserRegistered}, f.events.subjects())

	msg := f.sms.last()
	require.True(t, strings.HasPrefix(msg, "Your password is "))
	password := strings.TrimSuffix(strings.Fields(msg)[3], ".")
	require.Len(t, password, 6)

	_, err = f.svc.Login(ctx, "9999999999", password)
	require.NoError(t, err)

	_, err = f.svc.CreateUser(ctx, models.CreateUserInput{Mobile: "9999999999", Usertype: models.RolePatient})
	require.ErrorIs(t, err, ErrConflict)
}

func TestCreateUserValidation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.CreateUser(context.Background(), models.CreateUserInput{Mobile: "123", Usertype: models.RolePatient})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateUser(context.Background(), models.CreateUserInput{Mobile: "9999999999", Usertype: "pirate"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	user := newUser(t, "9999999999", "correct-horse")
	f := newAuthFixture(t, user)

	updated, err := f.svc.UpdateProfile(ctx, user, models.ProfilePatch{Email: ptr("asha@example.com")})
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", updated.Email)
	require.Equal(t, "Test User", updated.Name)

	_, err = f.svc.UpdateProfile(ctx, user, models.ProfilePatch{Email: ptr("not-an-email")})
	require.ErrorIs(t, err, ErrValidation)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	user := newUser(t, "9999999999", "correct-horse")
	f := newAuthFixture(t, user)

	before, err := f.svc.Login(ctx, "9999999999", "correct-horse")
	require.NoError(t, err)

	_, _, err = f.svc.RequestPasswordReset(ctx, "7777777777")
	require.ErrorIs(t, err, ErrNotFound)

	ok, _, err := f.svc.RequestPasswordReset(ctx, "9999999999")
	require.NoError(t, err)
	require.True(t, ok)
	code := f.sms.last()

	err = f.svc.ResetPassword(ctx, "9999999999", code, "short")
	require.ErrorIs(t, err, ErrValidation)

	err = f.svc.ResetPassword(ctx, "9999999999", otherCode(code), "battery-staple")
	require.ErrorIs(t, err, ErrNotFound)
	require.EqualError(t, err, MsgOTPInvalid)

	require.NoError(t, f.svc.ResetPassword(ctx, "9999999999", code, "battery-staple"))

	_, err = f.sessions.Authenticate(ctx, before.AccessToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Login(ctx, "9999999999", "correct-horse")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.svc.Login(ctx, "9999999999", "battery-staple")
	require.NoError(t, err)
}

func TestLogoutRevokesEverySession(t *testing.T) {
	ctx := context.Background()
	user := newUser(t, "9999999999", "correct-horse")
	f := newAuthFixture(t, user)

	first, err := f.svc.Login(ctx, "9999999999", "correct-horse")
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, "9999999999", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, user))
	require.Contains(t, f.events.subjects(), events.UserLoggedOut)

	for _, token := range []string{first.AccessToken, second.AccessToken} {
		_, err := f.sessions.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrUnauthorized)
	}
	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}
