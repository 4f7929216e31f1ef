package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	"github.com/mpikenya/mpi-backend/internal/handler/http/middleware"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

const msgResetRequested = "If a user with that email is registered, a reset code has been sent."

// AuthHandler serves local and federated sign-in and the password reset flow.
type AuthHandler struct {
	auth  usecasecontract.IAuthUseCase
	reset usecasecontract.IPasswordResetUseCase
}

func NewAuthHandler(auth usecasecontract.IAuthUseCase, reset usecasecontract.IPasswordResetUseCase) *AuthHandler {
	return &AuthHandler{auth: auth, reset: reset}
}

// Register handles user registration (signup)
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	account, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusCreated, dto.AuthResponse{Token: token, User: dto.ToUserResponse(*account)})
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	account, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.AuthResponse{Token: token, User: dto.ToUserResponse(*account)})
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	token, err := h.auth.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.TokenResponse{Token: token})
}

// RequestPasswordReset answers the same way whether or not the email exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.RequestPasswordResetRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	if err := h.reset.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, msgResetRequested)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	token, err := h.reset.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ResetTokenResponse{ResetPasswordToken: token})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	if err := h.reset.ResetPassword(c.Request.Context(), req.ResetPasswordToken, req.Password); err != nil {
		RespondError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Password has been updated successfully.")
}

// FederatedLogin takes the provider token from the Authorization header and
// the profile from the body.
func (h *AuthHandler) FederatedLogin(c *gin.Context) {
	raw, ok := middleware.BearerToken(c)
	if !ok {
		ErrorHandler(c, http.StatusUnauthorized, "no token")
		return
	}
	var req dto.FederatedLoginRequest
	if c.Request.ContentLength != 0 {
		if err := BindAndValidate(c, &req); err != nil {
			return
		}
	}

	profile := entity.FederatedProfile{Name: strings.TrimSpace(req.Name), PhotoURL: strings.TrimSpace(req.PhotoURL)}
	account, token, err := h.auth.FederatedLogin(c.Request.Context(), raw, req.Email, profile)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.AuthResponse{Token: token, User: dto.ToUserResponse(*account)})
}
