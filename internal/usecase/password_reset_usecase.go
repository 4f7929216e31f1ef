package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/metrics"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

const (
	msgInvalidOTP      = "Invalid OTP or it has expired. Please try again."
	msgMissingReset    = "Missing token or new password."
	msgResetUserGone   = "Invalid token. User not found."
	msgResetExpired    = "Your session has expired. Please start the password reset process again."
	mailSendTimeout    = 30 * time.Second
	resetEmailFromName = "Mathare Peace Initiative"
)

// PasswordResetUseCase runs the request, verify and reset steps of the OTP flow.
// All state lives on the account document.
type PasswordResetUseCase struct {
	users     contract.IAccountRepository
	hasher    contract.IHasher
	tokens    TokenService
	mailer    contract.IEmailService
	randGen   contract.IRandomGenerator
	logger    usecasecontract.IAppLogger
	config    usecasecontract.IConfigProvider
	validator usecasecontract.IValidator
	now       func() time.Time
	dispatch  func(func())
}

func NewPasswordResetUseCase(
	users contract.IAccountRepository,
	hasher contract.IHasher,
	tokens TokenService,
	mailer contract.IEmailService,
	randGen contract.IRandomGenerator,
	logger usecasecontract.IAppLogger,
	cfg usecasecontract.IConfigProvider,
	validator usecasecontract.IValidator,
) *PasswordResetUseCase {
	return &PasswordResetUseCase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		randGen:   randGen,
		logger:    logger,
		config:    cfg,
		validator: validator,
		now:       time.Now,
		dispatch:  func(f func()) { go f() },
	}
}

var _ usecasecontract.IPasswordResetUseCase = (*PasswordResetUseCase)(nil)

// RequestPasswordReset stores a fresh code and mails it. The outcome is the
// same whether or not the email is registered; delivery happens off the
// request path.
func (uc *PasswordResetUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := uc.validator.ValidateEmail(email); err != nil {
		return entity.NewValidationError("Please provide a valid email address.")
	}

	otp, err := uc.randGen.GenerateOTP()
	if err != nil {
		uc.logger.Errorf("failed to generate otp: %v", err)
		return entity.NewUpstreamError(msgInternalServer, err)
	}
	// hash before the lookup so known and unknown emails cost the same
	otpHash, err := uc.hasher.HashPassword(ctx, otp)
	if err != nil {
		uc.logger.Errorf("failed to hash otp: %v", err)
		return entity.NewUpstreamError(msgInternalServer, err)
	}

	expiry := uc.now().Add(uc.config.GetOTPTTL())
	account, err := uc.users.SetResetOTP(ctx, email, otpHash, expiry)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			metrics.IncAuthEvent("reset_request", "unknown_email")
			return nil
		}
		uc.logger.Errorf("failed to store reset code: %v", err)
		return entity.NewUpstreamError(msgInternalServer, err)
	}
	metrics.IncAuthEvent("reset_request", "issued")

	msg := entity.EmailMessage{
		To:       account.Email,
		FromName: resetEmailFromName,
		Subject:  "Your Password Reset Code",
		HTMLBody: resetEmailBody(account.Name, otp, uc.config.GetOTPTTL()),
	}
	sendCtx := context.WithoutCancel(ctx)
	uc.dispatch(func() {
		ctx, cancel := context.WithTimeout(sendCtx, mailSendTimeout)
		defer cancel()
		if err := uc.mailer.SendEmail(ctx, msg); err != nil {
			uc.logger.Warnf("failed to send reset code to account %s: %v", account.ID, err)
		}
	})
	return nil
}

func resetEmailBody(name, otp string, ttl time.Duration) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
<h2>Password Reset Request</h2>
<p>Hello %s,</p>
<p>Your password reset code is:</p>
<p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">%s</p>
<p>It is valid for %d minutes. If you did not request a reset you can ignore this email.</p>
</div>`, html.EscapeString(name), otp, int(ttl.Minutes()))
}

// VerifyOTP consumes a valid code and returns a reset session token bound to
// the account's current password.
func (uc *PasswordResetUseCase) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return "", entity.NewValidationError("Please provide email and OTP.")
	}

	account, err := uc.users.GetAccountWithActiveOTP(ctx, email, uc.now())
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			metrics.IncAuthEvent("otp_verify", "failure")
			return "", entity.NewValidationError(msgInvalidOTP)
		}
		uc.logger.Errorf("failed to load reset code: %v", err)
		return "", entity.NewUpstreamError(msgInternalServer, err)
	}
	if account.ResetOTPHash == "" {
		return "", entity.NewValidationError(msgInvalidOTP)
	}
	if err := uc.hasher.ComparePasswordHash(ctx, code, account.ResetOTPHash); err != nil {
		if isContextErr(err) {
			return "", entity.NewUpstreamError(msgInternalServer, err)
		}
		metrics.IncAuthEvent("otp_verify", "failure")
		return "", entity.NewValidationError(msgInvalidOTP)
	}

	// a concurrent verify of the same code may have cleared it first
	if err := uc.users.ClearResetOTP(ctx, account.ID, account.ResetOTPHash); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return "", entity.NewValidationError(msgInvalidOTP)
		}
		uc.logger.Errorf("failed to clear reset code: %v", err)
		return "", entity.NewUpstreamError(msgInternalServer, err)
	}

	token, err := uc.tokens.GenerateResetToken(account.ID, uc.hasher.HashString(account.PasswordHash))
	if err != nil {
		uc.logger.Errorf("failed to issue reset session: %v", err)
		return "", entity.NewUpstreamError(msgInternalServer, err)
	}
	metrics.IncAuthEvent("otp_verify", "success")
	return token, nil
}

// ResetPassword sets a new password using a reset session token. Each token
// changes the password at most once.
func (uc *PasswordResetUseCase) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	resetToken = strings.TrimSpace(resetToken)
	if resetToken == "" || newPassword == "" {
		return entity.NewValidationError(msgMissingReset)
	}
	if err := uc.validator.ValidatePassword(newPassword); err != nil {
		return entity.NewValidationError(err.Error())
	}

	claims, err := uc.tokens.ParseResetToken(resetToken)
	if err != nil {
		return entity.NewUnauthenticatedError(msgResetExpired)
	}

	account, err := uc.users.GetAccountByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewValidationError(msgResetUserGone)
		}
		uc.logger.Errorf("failed to load account for reset: %v", err)
		return entity.NewUpstreamError(msgInternalServer, err)
	}
	if uc.hasher.HashString(account.PasswordHash) != claims.PasswordFingerprint {
		return entity.NewUnauthenticatedError(msgResetExpired)
	}

	newHash, err := uc.hasher.HashPassword(ctx, newPassword)
	if err != nil {
		uc.logger.Errorf("failed to hash password: %v", err)
		return entity.NewUpstreamError(msgInternalServer, err)
	}
	if err := uc.users.UpdatePassword(ctx, account.ID, account.PasswordHash, newHash); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewUnauthenticatedError(msgResetExpired)
		}
		uc.logger.Errorf("failed to update password: %v", err)
		return entity.NewUpstreamError(msgInternalServer, err)
	}
	uc.logger.Infof("password reset completed for account %s", account.ID)
	metrics.IncAuthEvent("password_reset", "success")
	return nil
}
