package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/metrics"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// User facing messages shared by the auth flows.
const (
	msgInvalidCredentials = "Invalid credentials."
	msgEmailTaken         = "An account with this email already exists."
	msgMissingCredentials = "Please provide email and password."
	msgUserExists         = "A user with that email already exists."
	msgInvalidToken       = "invalid token"
	msgInternalServer     = "internal server error"
)

// AuthUseCase implements IAuthUseCase.
type AuthUseCase struct {
	users     contract.IAccountRepository
	admins    contract.IAccountRepository
	hasher    contract.IHasher
	tokens    TokenService
	federated contract.IFederatedVerifier
	logger    usecasecontract.IAppLogger
	config    usecasecontract.IConfigProvider
	validator usecasecontract.IValidator
	uuidGen   contract.IUUIDGenerator
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase creates an AuthUseCase. federated may be nil when no identity
// provider is configured.
func NewAuthUseCase(
	users contract.IAccountRepository,
	admins contract.IAccountRepository,
	hasher contract.IHasher,
	tokens TokenService,
	federated contract.IFederatedVerifier,
	logger usecasecontract.IAppLogger,
	cfg usecasecontract.IConfigProvider,
	validator usecasecontract.IValidator,
	uuidGen contract.IUUIDGenerator,
) *AuthUseCase {
	return &AuthUseCase{
		users:     users,
		admins:    admins,
		hasher:    hasher,
		tokens:    tokens,
		federated: federated,
		logger:    logger,
		config:    cfg,
		validator: validator,
		uuidGen:   uuidGen,
		now:       time.Now,
	}
}

// check if AuthUseCase implements the IAuthUseCase
var _ usecasecontract.IAuthUseCase = (*AuthUseCase)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nameFromEmail is the display name fallback for accounts created without one.
func nameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Register creates a local user account and signs it in.
func (uc *AuthUseCase) Register(ctx context.Context, name, email, password string) (*entity.Account, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, "", entity.NewValidationError("Name is required.")
	}
	if err := uc.validator.ValidateEmail(email); err != nil {
		return nil, "", entity.NewValidationError("Please provide a valid email address.")
	}
	if err := uc.validator.ValidatePassword(password); err != nil {
		return nil, "", entity.NewValidationError(err.Error())
	}

	hashed, err := uc.hasher.HashPassword(ctx, password)
	if err != nil {
		uc.logger.Errorf("failed to hash password: %v", err)
		return nil, "", entity.NewUpstreamError(msgInternalServer, err)
	}

	now := uc.now()
	account := &entity.Account{
		ID:           uc.uuidGen.NewUUID(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         entity.RoleUser,
		PhotoURL:     uc.config.GetDefaultPhotoURL(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, "", entity.NewDuplicateError(msgUserExists)
		}
		uc.logger.Errorf("failed to create user: %v", err)
		return nil, "", entity.NewUpstreamError(msgInternalServer, err)
	}

	token, err := uc.tokens.GenerateSessionToken(account.ID, entity.RoleUser)
	if err != nil {
		uc.logger.Errorf("failed to issue session for %s: %v", account.ID, err)
		return nil, "", entity.NewUpstreamError(msgInternalServer, err)
	}
	metrics.IncAuthEvent("register", "success")
	return account, token, nil
}

// Login authenticates a user. Unknown email and wrong password are indistinguishable.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*entity.Account, string, error) {
	account, err := uc.checkCredentials(ctx, uc.users, email, password)
	if err != nil {
		if entity.KindOf(err) == entity.KindUnauthenticated {
			metrics.IncAuthEvent("login", "failure")
			return nil, "", entity.NewValidationError(msgInvalidCredentials)
		}
		return nil, "", err
	}

	token, err := uc.tokens.GenerateSessionToken(account.ID, entity.RoleUser)
	if err != nil {
		uc.logger.Errorf("failed to issue session for %s: %v", account.ID, err)
		return nil, "", entity.NewUpstreamError(msgInternalServer, err)
	}
	metrics.IncAuthEvent("login", "success")
	return account, token, nil
}

// AdminLogin authenticates against the admins collection only.
func (uc *AuthUseCase) AdminLogin(ctx context.Context, email, password string) (string, error) {
	account, err := uc.checkCredentials(ctx, uc.admins, email, password)
	if err != nil {
		if entity.KindOf(err) == entity.KindUnauthenticated {
			metrics.IncAuthEvent("admin_login", "failure")
		}
		return "", err
	}

	token, err := uc.tokens.GenerateSessionToken(account.ID, entity.RoleAdmin)
	if err != nil {
		uc.logger.Errorf("failed to issue admin session for %s: %v", account.ID, err)
		return "", entity.NewUpstreamError(msgInternalServer, err)
	}
	metrics.IncAuthEvent("admin_login", "success")
	return token, nil
}

// checkCredentials returns an Unauthenticated error for every credential
// failure and always runs one bcrypt comparison.
func (uc *AuthUseCase) checkCredentials(ctx context.Context, repo contract.IAccountRepository, email, password string) (*entity.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, entity.NewValidationError(msgMissingCredentials)
	}

	account, err := repo.GetAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		uc.logger.Errorf("failed to look up account: %v", err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}

	hash := uc.dummyPasswordHash(ctx)
	if account != nil && account.HasPassword() {
		hash = account.PasswordHash
	}
	cmpErr := uc.hasher.ComparePasswordHash(ctx, password, hash)
	if cmpErr != nil && isContextErr(cmpErr) {
		return nil, entity.NewUpstreamError(msgInternalServer, cmpErr)
	}
	if account == nil || !account.HasPassword() || cmpErr != nil {
		return nil, entity.NewUnauthenticatedError(msgInvalidCredentials)
	}
	return account, nil
}

// dummyPasswordHash is compared against when no account matches so the
// response time does not reveal whether the email exists.
func (uc *AuthUseCase) dummyPasswordHash(ctx context.Context) string {
	uc.dummyOnce.Do(func() {
		h, err := uc.hasher.HashPassword(ctx, uc.uuidGen.NewUUID())
		if err != nil {
			uc.logger.Warnf("failed to prepare dummy hash: %v", err)
			return
		}
		uc.dummyHash = h
	})
	return uc.dummyHash
}

// LinkOrCreate attaches externalID to the user with the same email or creates
// a new passwordless user, then issues a session. The caller must have verified
// email with the identity provider.
func (uc *AuthUseCase) LinkOrCreate(ctx context.Context, externalID, email string, profile entity.FederatedProfile) (*entity.Account, string, error) {
	return uc.linkOrCreate(ctx, externalID, email, true, profile)
}

// linkOrCreate only joins an existing account by email when emailVerified is
// set. An unverified email can name a new account but never claim one.
func (uc *AuthUseCase) linkOrCreate(ctx context.Context, externalID, email string, emailVerified bool, profile entity.FederatedProfile) (*entity.Account, string, error) {
	externalID = strings.TrimSpace(externalID)
	email = normalizeEmail(email)
	if externalID == "" {
		return nil, "", entity.NewValidationError("External identity is required.")
	}
	if err := uc.validator.ValidateEmail(email); err != nil {
		return nil, "", entity.NewValidationError("Please provide a valid email address.")
	}
	profile.Name = strings.TrimSpace(profile.Name)
	profile.PhotoURL = strings.TrimSpace(profile.PhotoURL)

	defaults := &entity.Account{
		ID:       uc.uuidGen.NewUUID(),
		Name:     nameFromEmail(email),
		Role:     entity.RoleUser,
		PhotoURL: uc.config.GetDefaultPhotoURL(),
	}
	account, err := uc.users.UpsertFederated(ctx, externalID, email, emailVerified, profile, defaults)
	if err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			metrics.IncAuthEvent("federated_login", "failure")
			return nil, "", entity.NewConflictError(msgEmailTaken)
		}
		uc.logger.Errorf("failed to link federated identity: %v", err)
		return nil, "", entity.NewUpstreamError(msgInternalServer, err)
	}

	token, err := uc.tokens.GenerateSessionToken(account.ID, entity.RoleUser)
	if err != nil {
		uc.logger.Errorf("failed to issue session for %s: %v", account.ID, err)
		return nil, "", entity.NewUpstreamError(msgInternalServer, err)
	}
	metrics.IncAuthEvent("federated_login", "success")
	return account, token, nil
}

// FederatedLogin verifies a provider token and links its subject. Only the
// token's own email claim may link to an existing account; an email taken
// from the body is used to create a new account and nothing else.
func (uc *AuthUseCase) FederatedLogin(ctx context.Context, rawToken, email string, profile entity.FederatedProfile) (*entity.Account, string, error) {
	if uc.federated == nil {
		return nil, "", entity.NewUnauthenticatedError(msgInvalidToken)
	}
	claims, err := uc.federated.Verify(ctx, rawToken)
	if err != nil {
		metrics.IncAuthEvent("federated_login", "failure")
		return nil, "", entity.NewUnauthenticatedError(msgInvalidToken)
	}

	bodyEmail := normalizeEmail(email)
	tokenEmail := normalizeEmail(claims.Email)
	if bodyEmail != "" && tokenEmail != "" && bodyEmail != tokenEmail {
		return nil, "", entity.NewValidationError("Email does not match the identity token.")
	}
	if profile.Name == "" {
		profile.Name = claims.Name
	}
	if profile.PhotoURL == "" {
		profile.PhotoURL = claims.PhotoURL
	}
	if tokenEmail != "" {
		return uc.linkOrCreate(ctx, claims.Subject, tokenEmail, true, profile)
	}
	if bodyEmail == "" {
		return nil, "", entity.NewValidationError("Email is required.")
	}
	return uc.linkOrCreate(ctx, claims.Subject, bodyEmail, false, profile)
}

// AuthenticateFederated maps a verified provider token to its linked user.
// Unlinked identities are rejected.
func (uc *AuthUseCase) AuthenticateFederated(ctx context.Context, rawToken string) (*entity.Claims, error) {
	if uc.federated == nil {
		return nil, entity.ErrInvalidToken
	}
	fc, err := uc.federated.Verify(ctx, rawToken)
	if err != nil {
		return nil, entity.ErrInvalidToken
	}
	account, err := uc.users.GetAccountByExternalID(ctx, fc.Subject)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrInvalidToken
		}
		return nil, err
	}
	return &entity.Claims{AccountID: account.ID, Role: entity.RoleUser}, nil
}
