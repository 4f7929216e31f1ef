package mocks

import (
	"context"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// MockUserUsecase is a mock implementation of the IUserUseCase interface
type MockUserUsecase struct {
	// Control mock behavior
	FailWith error

	// Return values
	MockUser entity.Account

	// Recorded calls
	LastName   *string
	LastUpload *entity.Upload
}

// Ensure MockUserUsecase implements the correct interface for handler.NewUserHandler
var _ usecasecontract.IUserUseCase = (*MockUserUsecase)(nil)

func NewMockUserUsecase() *MockUserUsecase {
	return &MockUserUsecase{
		MockUser: entity.Account{
			ID:        "mock-user-id",
			Name:      "Test User",
			Email:     "test@example.com",
			Role:      entity.RoleUser,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (m *MockUserUsecase) GetProfile(ctx context.Context, userID string) (*entity.Account, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	u := m.MockUser
	u.ID = userID
	return &u, nil
}

func (m *MockUserUsecase) UpdateProfile(ctx context.Context, userID string, name, photoURL *string) (*entity.Account, error) {
	m.LastName = name
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	u := m.MockUser
	if name != nil {
		u.Name = *name
	}
	if photoURL != nil {
		u.PhotoURL = *photoURL
	}
	return &u, nil
}

func (m *MockUserUsecase) UploadProfilePicture(ctx context.Context, userID string, file entity.Upload) (*entity.Account, error) {
	m.LastUpload = &file
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	u := m.MockUser
	u.PhotoURL = "https://cdn.example.com/profile-pictures/" + file.Filename
	return &u, nil
}
