package mocks

import (
	"context"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// MockAuthUseCase is a mock implementation of IAuthUseCase and IPasswordResetUseCase.
type MockAuthUseCase struct {
	FailWith error

	MockAccount    entity.Account
	MockToken      string
	MockResetToken string

	// FederatedTokens maps a provider token to the local claims it resolves to.
	FederatedTokens map[string]*entity.Claims

	LastEmail      string
	LastExternalID string
	LastProfile    entity.FederatedProfile
}

var (
	_ usecasecontract.IAuthUseCase          = (*MockAuthUseCase)(nil)
	_ usecasecontract.IPasswordResetUseCase = (*MockAuthUseCase)(nil)
)

func NewMockAuthUseCase() *MockAuthUseCase {
	return &MockAuthUseCase{
		MockAccount: entity.Account{
			ID:    "mock-user-id",
			Name:  "Test User",
			Email: "test@example.com",
			Role:  entity.RoleUser,
		},
		MockToken:       "mock_session_token",
		MockResetToken:  "mock_reset_token",
		FederatedTokens: map[string]*entity.Claims{},
	}
}

func (m *MockAuthUseCase) session(email string) (*entity.Account, string, error) {
	m.LastEmail = email
	if m.FailWith != nil {
		return nil, "", m.FailWith
	}
	a := m.MockAccount
	return &a, m.MockToken, nil
}

func (m *MockAuthUseCase) Register(ctx context.Context, name, email, password string) (*entity.Account, string, error) {
	return m.session(email)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.Account, string, error) {
	return m.session(email)
}

func (m *MockAuthUseCase) AdminLogin(ctx context.Context, email, password string) (string, error) {
	m.LastEmail = email
	if m.FailWith != nil {
		return "", m.FailWith
	}
	return m.MockToken, nil
}

func (m *MockAuthUseCase) FederatedLogin(ctx context.Context, rawToken, email string, profile entity.FederatedProfile) (*entity.Account, string, error) {
	m.LastProfile = profile
	if _, ok := m.FederatedTokens[rawToken]; !ok {
		return nil, "", entity.NewUnauthenticatedError("invalid token")
	}
	return m.session(email)
}

func (m *MockAuthUseCase) LinkOrCreate(ctx context.Context, externalID, email string, profile entity.FederatedProfile) (*entity.Account, string, error) {
	m.LastExternalID = externalID
	m.LastProfile = profile
	return m.session(email)
}

func (m *MockAuthUseCase) AuthenticateFederated(ctx context.Context, rawToken string) (*entity.Claims, error) {
	if c, ok := m.FederatedTokens[rawToken]; ok {
		return c, nil
	}
	return nil, entity.ErrInvalidToken
}

func (m *MockAuthUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	m.LastEmail = email
	return m.FailWith
}

func (m *MockAuthUseCase) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	m.LastEmail = email
	if m.FailWith != nil {
		return "", m.FailWith
	}
	return m.MockResetToken, nil
}

func (m *MockAuthUseCase) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return m.FailWith
}

// MockSessions is a session token verifier backed by a fixed token table.
type MockSessions struct {
	Tokens map[string]*entity.Claims
}

func NewMockSessions() *MockSessions {
	return &MockSessions{Tokens: map[string]*entity.Claims{}}
}

func (m *MockSessions) ParseSessionToken(tokenStr string) (*entity.Claims, error) {
	if c, ok := m.Tokens[tokenStr]; ok {
		return c, nil
	}
	return nil, entity.ErrInvalidToken
}
