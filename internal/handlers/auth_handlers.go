package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/dsaheb/dsahebapi/internal/service"
	"github.com/sirupsen/logrus"
)

// AccountService is the account surface the auth handlers drive.
type AccountService interface {
	RequestOTP(ctx context.Context, phone string) (bool, string, error)
	VerifyOTP(ctx context.Context, phone, code string) (bool, string, error)
	LoginWithOTP(ctx context.Context, phone, code string) (*service.LoginResult, error)
	CreateUser(ctx context.Context, input models.CreateUserInput) (*service.LoginResult, error)
	Login(ctx context.Context, mobile, password string) (*service.LoginResult, error)
	UpdateProfile(ctx context.Context, user *models.User, patch models.ProfilePatch) (*models.User, error)
	Logout(ctx context.Context, user *models.User) error
	RequestPasswordReset(ctx context.Context, mobile string) (bool, string, error)
	ResetPassword(ctx context.Context, mobile, code, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type AuthHandlers struct {
	auth   AccountService
	logger *logrus.Logger
}

func NewAuthHandlers(auth AccountService, logger *logrus.Logger) *AuthHandlers {
	return &AuthHandlers{
		auth:   auth,
		logger: logger,
	}
}

type OTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type OTPVerifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Mobile string `json:"mobile"`
}

type ResetPasswordRequest struct {
	Mobile      string `json:"mobile"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ProfileResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Mobile     string      `json:"mobile"`
	Usertype   models.Role `json:"usertype"`
	IsVerified bool        `json:"is_verified"`
	Email      string      `json:"email,omitempty"`
}

func (h *AuthHandlers) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ok, message, err := h.auth.RequestOTP(r.Context(), req.PhoneNumber)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	if !ok {
		respondWithError(w, http.StatusBadGateway, message)
		return
	}
	respondSuccess(w, message, nil)
}

func (h *AuthHandlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ok, message, err := h.auth.VerifyOTP(r.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	if !ok {
		respondWithError(w, http.StatusBadRequest, message)
		return
	}
	respondSuccess(w, message, nil)
}

func (h *AuthHandlers) LoginWithOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.auth.LoginWithOTP(r.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Login successful", result)
}

func (h *AuthHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.auth.CreateUser(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "User created successfully", result)
}

// Login accepts credentials as a JSON body or as query parameters.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	req := LoginRequest{
		Mobile:   r.URL.Query().Get("mobile"),
		Password: r.URL.Query().Get("password"),
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Mobile, req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Login successful", result)
}

func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respondSuccess(w, "Profile fetched successfully", profileResponse(user))
}

func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var patch models.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user, patch)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Profile updated successfully", profileResponse(updated))
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.auth.Logout(r.Context(), user); err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Logout successful", nil)
}

func (h *AuthHandlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	req := PasswordResetRequest{Mobile: r.URL.Query().Get("mobile")}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	ok, message, err := h.auth.RequestPasswordReset(r.Context(), req.Mobile)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	if !ok {
		respondWithError(w, http.StatusBadGateway, message)
		return
	}
	respondSuccess(w, "OTP sent successfully", nil)
}

func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ResetPasswordRequest{Mobile: q.Get("mobile"), OTP: q.Get("otp"), NewPassword: q.Get("new_password")}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Mobile, req.OTP, req.NewPassword); err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Password reset successfully", nil)
}

func (h *AuthHandlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondWithServiceError(w, h.logger, r, err)
		return
	}
	respondSuccess(w, "Token refreshed successfully", pair)
}

func profileResponse(u *models.User) ProfileResponse {
	return ProfileResponse{
		ID:         u.ID,
		Name:       u.Name,
		Mobile:     u.Mobile,
		Usertype:   u.Role,
		IsVerified: u.IsVerified,
		Email:      u.Email,
	}
}

// decodeOptionalJSON decodes a JSON body over dst when one is present.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 || !strings.Contains(r.Header.Get("Content-Type"), "json") {
		return true
	}
	return decodeJSON(w, r, dst)
}
