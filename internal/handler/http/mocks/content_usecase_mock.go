package mocks

import (
	"context"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// MockContentUseCase implements the news, gallery, subscription, notification,
// chat and admin use cases with canned results.
type MockContentUseCase struct {
	FailWith error

	Posts  []*entity.NewsPost
	Images []*entity.GalleryImage
	Stats  entity.ContentStats
	Reply  string

	LastDate        time.Time
	LastImage       *entity.Upload
	LastFiles       []entity.Upload
	LastCaption     string
	LastContact     usecasecontract.ContactMessage
	LastApplication usecasecontract.VolunteerApplication
	LastDeletedID   string
	Subscribed      map[string]bool
}

var (
	_ usecasecontract.INewsUseCase         = (*MockContentUseCase)(nil)
	_ usecasecontract.IGalleryUseCase      = (*MockContentUseCase)(nil)
	_ usecasecontract.ISubscriptionUseCase = (*MockContentUseCase)(nil)
	_ usecasecontract.INotificationUseCase = (*MockContentUseCase)(nil)
	_ usecasecontract.IChatUseCase         = (*MockContentUseCase)(nil)
	_ usecasecontract.IAdminUseCase        = (*MockContentUseCase)(nil)
)

func NewMockContentUseCase() *MockContentUseCase {
	return &MockContentUseCase{Reply: "mock reply", Subscribed: map[string]bool{}}
}

func (m *MockContentUseCase) CreatePost(ctx context.Context, title, content string, date time.Time, image *entity.Upload) (*entity.NewsPost, error) {
	m.LastDate = date
	m.LastImage = image
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return &entity.NewsPost{ID: "post-1", Title: title, Content: content, Date: date}, nil
}

func (m *MockContentUseCase) ListPosts(ctx context.Context) ([]*entity.NewsPost, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return m.Posts, nil
}

func (m *MockContentUseCase) GetPost(ctx context.Context, id string) (*entity.NewsPost, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, p := range m.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, entity.NewNotFoundError("News post not found.")
}

func (m *MockContentUseCase) DeletePost(ctx context.Context, id string) error {
	m.LastDeletedID = id
	return m.FailWith
}

func (m *MockContentUseCase) UploadImages(ctx context.Context, caption string, files []entity.Upload) ([]*entity.GalleryImage, error) {
	m.LastCaption = caption
	m.LastFiles = files
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := make([]*entity.GalleryImage, len(files))
	for i, f := range files {
		out[i] = &entity.GalleryImage{ID: f.Filename, Caption: caption}
	}
	return out, nil
}

func (m *MockContentUseCase) ListImages(ctx context.Context) ([]*entity.GalleryImage, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return m.Images, nil
}

func (m *MockContentUseCase) DeleteImage(ctx context.Context, id string) error {
	m.LastDeletedID = id
	return m.FailWith
}

func (m *MockContentUseCase) Subscribe(ctx context.Context, userID string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if m.Subscribed[userID] {
		return entity.NewConflictError("User is already subscribed.")
	}
	m.Subscribed[userID] = true
	return nil
}

func (m *MockContentUseCase) Unsubscribe(ctx context.Context, userID string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if !m.Subscribed[userID] {
		return entity.NewNotFoundError("Subscription not found.")
	}
	delete(m.Subscribed, userID)
	return nil
}

func (m *MockContentUseCase) IsSubscribed(ctx context.Context, userID string) (bool, error) {
	return m.Subscribed[userID], m.FailWith
}

func (m *MockContentUseCase) Count(ctx context.Context) (int64, error) {
	return int64(len(m.Subscribed)), m.FailWith
}

func (m *MockContentUseCase) SendContactMessage(ctx context.Context, msg usecasecontract.ContactMessage) error {
	m.LastContact = msg
	return m.FailWith
}

func (m *MockContentUseCase) SubmitVolunteerApplication(ctx context.Context, app usecasecontract.VolunteerApplication) error {
	m.LastApplication = app
	return m.FailWith
}

func (m *MockContentUseCase) Chat(ctx context.Context, conversationID, message string) (string, string, error) {
	if m.FailWith != nil {
		return "", "", m.FailWith
	}
	if conversationID == "" {
		conversationID = "conv-1"
	}
	return m.Reply, conversationID, nil
}

func (m *MockContentUseCase) AddAdmin(ctx context.Context, name, email, password string) (*entity.Account, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return &entity.Account{ID: "admin-2", Name: name, Email: email, Role: entity.RoleAdmin}, nil
}

func (m *MockContentUseCase) ListUsers(ctx context.Context) ([]*entity.Account, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return []*entity.Account{{ID: "u1", Email: "a@example.com", Role: entity.RoleUser}}, nil
}

func (m *MockContentUseCase) DeleteUser(ctx context.Context, userID string) error {
	m.LastDeletedID = userID
	return m.FailWith
}

func (m *MockContentUseCase) ListPersonnel(ctx context.Context) ([]*entity.Account, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return []*entity.Account{{ID: "a1", Email: "boss@example.com", Role: entity.RoleAdmin}}, nil
}

func (m *MockContentUseCase) GetAdmin(ctx context.Context, adminID string) (*entity.Account, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return &entity.Account{ID: adminID, Name: "Boss", Role: entity.RoleAdmin}, nil
}

func (m *MockContentUseCase) GetStats(ctx context.Context) (*entity.ContentStats, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	s := m.Stats
	return &s, nil
}

func (m *MockContentUseCase) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error {
	return m.FailWith
}
