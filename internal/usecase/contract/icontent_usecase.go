package usecasecontract

import (
	"context"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

type IUserUseCase interface {
	GetProfile(ctx context.Context, userID string) (*entity.Account, error)
	UpdateProfile(ctx context.Context, userID string, name, photoURL *string) (*entity.Account, error)
	UploadProfilePicture(ctx context.Context, userID string, file entity.Upload) (*entity.Account, error)
}

type IAdminUseCase interface {
	AddAdmin(ctx context.Context, name, email, password string) (*entity.Account, error)
	ListUsers(ctx context.Context) ([]*entity.Account, error)
	DeleteUser(ctx context.Context, userID string) error
	ListPersonnel(ctx context.Context) ([]*entity.Account, error)
	GetAdmin(ctx context.Context, adminID string) (*entity.Account, error)
	GetStats(ctx context.Context) (*entity.ContentStats, error)
	EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error
}

type INewsUseCase interface {
	CreatePost(ctx context.Context, title, content string, date time.Time, image *entity.Upload) (*entity.NewsPost, error)
	ListPosts(ctx context.Context) ([]*entity.NewsPost, error)
	GetPost(ctx context.Context, id string) (*entity.NewsPost, error)
	DeletePost(ctx context.Context, id string) error
}

type IGalleryUseCase interface {
	UploadImages(ctx context.Context, caption string, files []entity.Upload) ([]*entity.GalleryImage, error)
	ListImages(ctx context.Context) ([]*entity.GalleryImage, error)
	DeleteImage(ctx context.Context, id string) error
}

type ISubscriptionUseCase interface {
	Subscribe(ctx context.Context, userID string) error
	Unsubscribe(ctx context.Context, userID string) error
	IsSubscribed(ctx context.Context, userID string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// VolunteerApplication is a volunteer form submission.
type VolunteerApplication struct {
	FullName string
	Email    string
	Phone    string
	Reason   string
}

type INotificationUseCase interface {
	SendContactMessage(ctx context.Context, msg ContactMessage) error
	SubmitVolunteerApplication(ctx context.Context, app VolunteerApplication) error
}

type IChatUseCase interface {
	// Chat sends message within conversationID (empty starts a new one) and
	// returns the reply with the conversation id to use next.
	Chat(ctx context.Context, conversationID, message string) (reply string, id string, err error)
}
