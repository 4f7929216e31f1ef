package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

const (
	errUserNotFound       = "User not found."
	profilePictureFolder  = "profile-pictures"
	msgUploadsUnavailable = "Image uploads are not configured."
)

// UserUsecase implements the IUserUseCase interface.
type UserUsecase struct {
	users   contract.IAccountRepository
	storage contract.IObjectStorage
	logger  usecasecontract.IAppLogger
}

// NewUserUsecase creates a new UserUsecase instance. storage may be nil.
func NewUserUsecase(users contract.IAccountRepository, storage contract.IObjectStorage, logger usecasecontract.IAppLogger) *UserUsecase {
	return &UserUsecase{users: users, storage: storage, logger: logger}
}

// check if UserUseCase implements the IUserUseCase
var _ usecasecontract.IUserUseCase = (*UserUsecase)(nil)

func (uc *UserUsecase) GetProfile(ctx context.Context, userID string) (*entity.Account, error) {
	account, err := uc.users.GetAccountByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.NewNotFoundError(errUserNotFound)
		}
		uc.logger.Errorf("failed to get user %s: %v", userID, err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	return account, nil
}

// UpdateProfile changes the name and/or photo URL. Nil fields are left untouched.
func (uc *UserUsecase) UpdateProfile(ctx context.Context, userID string, name, photoURL *string) (*entity.Account, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, entity.NewValidationError("Name cannot be empty.")
		}
		name = &trimmed
	}
	if photoURL != nil {
		trimmed := strings.TrimSpace(*photoURL)
		photoURL = &trimmed
	}
	if name == nil && photoURL == nil {
		return uc.GetProfile(ctx, userID)
	}

	account, err := uc.users.UpdateProfile(ctx, userID, name, photoURL)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.NewNotFoundError(errUserNotFound)
		}
		uc.logger.Errorf("failed to update user %s: %v", userID, err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	return account, nil
}

func (uc *UserUsecase) UploadProfilePicture(ctx context.Context, userID string, file entity.Upload) (*entity.Account, error) {
	if len(file.Data) == 0 {
		return nil, entity.NewValidationError("No image file provided.")
	}
	if uc.storage == nil {
		return nil, entity.NewUpstreamError(msgUploadsUnavailable, nil)
	}

	obj, err := uc.storage.Upload(ctx, profilePictureFolder, file)
	if err != nil {
		uc.logger.Errorf("failed to upload profile picture for %s: %v", userID, err)
		return nil, entity.NewUpstreamError("Server error while uploading image.", err)
	}

	account, err := uc.users.UpdateProfile(ctx, userID, nil, &obj.URL)
	if err != nil {
		if delErr := uc.storage.Delete(ctx, obj.Key); delErr != nil {
			uc.logger.Warnf("failed to remove orphaned upload %s: %v", obj.Key, delErr)
		}
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.NewNotFoundError(errUserNotFound)
		}
		uc.logger.Errorf("failed to save profile picture for %s: %v", userID, err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	return account, nil
}
