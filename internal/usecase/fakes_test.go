package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

type stubConfig struct {
	otpTTL time.Duration
}

func (stubConfig) GetAppBaseURL() string             { return "http://localhost:8080" }
func (stubConfig) GetUserSessionTTL() time.Duration  { return 7 * 24 * time.Hour }
func (stubConfig) GetAdminSessionTTL() time.Duration { return 24 * time.Hour }
func (stubConfig) GetResetSessionTTL() time.Duration { return 10 * time.Minute }
func (c stubConfig) GetOTPTTL() time.Duration {
	if c.otpTTL == 0 {
		return 10 * time.Minute
	}
	return c.otpTTL
}
func (stubConfig) GetDefaultPhotoURL() string      { return "https://cdn.example.com/default.png" }
func (stubConfig) GetOrgNotificationEmail() string { return "org@example.com" }
func (stubConfig) GetChatHistoryLimit() int        { return 4 }

var _ usecasecontract.IConfigProvider = stubConfig{}

type seqUUID struct {
	mu sync.Mutex
	n  int
}

func (g *seqUUID) NewUUID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// memAccountRepo mirrors the conditional update semantics of the Mongo repository.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account
	failWith error
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: map[string]*entity.Account{}}
}

func (r *memAccountRepo) byEmail(email string) *entity.Account {
	for _, a := range r.accounts {
		if a.Email == email {
			return a
		}
	}
	return nil
}

func clone(a *entity.Account) *entity.Account {
	c := *a
	if a.ResetOTPExpiry != nil {
		t := *a.ResetOTPExpiry
		c.ResetOTPExpiry = &t
	}
	return &c
}

func (r *memAccountRepo) CreateAccount(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if r.byEmail(account.Email) != nil {
		return entity.ErrDuplicate
	}
	r.accounts[account.ID] = clone(account)
	return nil
}

func (r *memAccountRepo) GetAccountByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return clone(a), nil
}

func (r *memAccountRepo) GetAccountByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	a := r.byEmail(email)
	if a == nil {
		return nil, entity.ErrNotFound
	}
	return clone(a), nil
}

func (r *memAccountRepo) GetAccountByExternalID(_ context.Context, externalID string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ExternalID == externalID {
			return clone(a), nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memAccountRepo) ListAccounts(_ context.Context) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]*entity.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, clone(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAccountRepo) CountAccounts(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.accounts)), nil
}

func (r *memAccountRepo) UpdateProfile(_ context.Context, id string, name, photoURL *string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if name != nil {
		a.Name = *name
	}
	if photoURL != nil {
		a.PhotoURL = *photoURL
	}
	return clone(a), nil
}

func (r *memAccountRepo) UpdatePassword(_ context.Context, id, oldHash, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.PasswordHash != oldHash {
		return entity.ErrNotFound
	}
	a.PasswordHash = newHash
	return nil
}

func (r *memAccountRepo) DeleteAccount(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memAccountRepo) SetResetOTP(_ context.Context, email, otpHash string, expiry time.Time) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.byEmail(email)
	if a == nil {
		return nil, entity.ErrNotFound
	}
	a.ResetOTPHash = otpHash
	a.ResetOTPExpiry = &expiry
	return clone(a), nil
}

func (r *memAccountRepo) GetAccountWithActiveOTP(_ context.Context, email string, now time.Time) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.byEmail(email)
	if a == nil || a.ResetOTPHash == "" || a.ResetOTPExpiry == nil || !a.ResetOTPExpiry.After(now) {
		return nil, entity.ErrNotFound
	}
	return clone(a), nil
}

func (r *memAccountRepo) ClearResetOTP(_ context.Context, id, otpHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.ResetOTPHash != otpHash {
		return entity.ErrNotFound
	}
	a.ResetOTPHash = ""
	a.ResetOTPExpiry = nil
	return nil
}

func (r *memAccountRepo) UpsertFederated(_ context.Context, externalID, email string, linkByEmail bool, profile entity.FederatedProfile, defaults *entity.Account) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var target *entity.Account
	for _, a := range r.accounts {
		if a.ExternalID == externalID {
			target = a
			break
		}
	}
	if target == nil {
		if a := r.byEmail(email); a != nil {
			if !linkByEmail {
				return nil, entity.ErrDuplicate
			}
			target = a
		}
	}
	if target == nil {
		target = clone(defaults)
		target.Email = email
		r.accounts[target.ID] = target
	}
	target.ExternalID = externalID
	if profile.Name != "" {
		target.Name = profile.Name
	}
	if profile.PhotoURL != "" {
		target.PhotoURL = profile.PhotoURL
	}
	return clone(target), nil
}

func (r *memAccountRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []entity.EmailMessage
	err  error
}

func (m *fakeMailer) SendEmail(_ context.Context, msg entity.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []entity.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.EmailMessage(nil), m.sent...)
}

// fixedOTP hands out a known code so tests can complete the reset flow.
type fixedOTP struct {
	code string
}

func (f fixedOTP) GenerateRandomToken(int) (string, error) { return "token", nil }
func (f fixedOTP) GenerateOTP() (string, error)            { return f.code, nil }

type fakeFederated struct {
	claims map[string]*entity.FederatedClaims
}

func (f *fakeFederated) Verify(_ context.Context, raw string) (*entity.FederatedClaims, error) {
	c, ok := f.claims[raw]
	if !ok {
		return nil, entity.ErrInvalidToken
	}
	return c, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	n       int
	objects map[string]entity.Upload
	deleted []string
	failOn  string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]entity.Upload{}}
}

func (s *fakeStorage) Upload(_ context.Context, folder string, file entity.Upload) (*entity.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && file.Filename == s.failOn {
		return nil, errors.New("storage unavailable")
	}
	s.n++
	key := fmt.Sprintf("%s/%d-%s", folder, s.n, file.Filename)
	s.objects[key] = file
	return &entity.StoredObject{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) stored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type memNewsRepo struct {
	mu    sync.Mutex
	posts map[string]*entity.NewsPost
	lists int
}

func newMemNewsRepo() *memNewsRepo { return &memNewsRepo{posts: map[string]*entity.NewsPost{}} }

func (r *memNewsRepo) CreatePost(_ context.Context, post *entity.NewsPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *post
	r.posts[post.ID] = &p
	return nil
}

func (r *memNewsRepo) GetPostByID(_ context.Context, id string) (*entity.NewsPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *memNewsRepo) ListPosts(_ context.Context) ([]*entity.NewsPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	out := make([]*entity.NewsPost, 0, len(r.posts))
	for _, p := range r.posts {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *memNewsRepo) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memNewsRepo) CountPosts(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.posts)), nil
}

func (r *memNewsRepo) CountPostsCreatedSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if !p.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type memGalleryRepo struct {
	mu     sync.Mutex
	images map[string]*entity.GalleryImage
	err    error
}

func newMemGalleryRepo() *memGalleryRepo {
	return &memGalleryRepo{images: map[string]*entity.GalleryImage{}}
}

func (r *memGalleryRepo) CreateImages(_ context.Context, images []*entity.GalleryImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, img := range images {
		c := *img
		r.images[img.ID] = &c
	}
	return nil
}

func (r *memGalleryRepo) GetImageByID(_ context.Context, id string) (*entity.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	c := *img
	return &c, nil
}

func (r *memGalleryRepo) ListImages(_ context.Context) ([]*entity.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.GalleryImage, 0, len(r.images))
	for _, img := range r.images {
		c := *img
		out = append(out, &c)
	}
	return out, nil
}

func (r *memGalleryRepo) DeleteImage(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.images[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.images, id)
	return nil
}

func (r *memGalleryRepo) CountImages(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.images)), nil
}

type memSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*entity.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: map[string]*entity.Subscription{}}
}

func (r *memSubscriptionRepo) CreateSubscription(_ context.Context, sub *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.UserID]; ok {
		return entity.ErrDuplicate
	}
	r.subs[sub.UserID] = sub
	return nil
}

func (r *memSubscriptionRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[userID]; !ok {
		return entity.ErrNotFound
	}
	delete(r.subs, userID)
	return nil
}

func (r *memSubscriptionRepo) ExistsForUser(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[userID]
	return ok, nil
}

func (r *memSubscriptionRepo) CountSubscriptions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.subs)), nil
}

// memContentCache counts hits so tests can tell when the repository was bypassed.
type memContentCache struct {
	mu      sync.Mutex
	news    []*entity.NewsPost
	gallery []*entity.GalleryImage
	hasNews bool
	hasGal  bool
	err     error
}

func (c *memContentCache) GetNewsList(context.Context) ([]*entity.NewsPost, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	return c.news, c.hasNews, nil
}

func (c *memContentCache) SetNewsList(_ context.Context, posts []*entity.NewsPost) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.news, c.hasNews = posts, true
	return nil
}

func (c *memContentCache) InvalidateNews(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.news, c.hasNews = nil, false
	return nil
}

func (c *memContentCache) GetGalleryList(context.Context) ([]*entity.GalleryImage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	return c.gallery, c.hasGal, nil
}

func (c *memContentCache) SetGalleryList(_ context.Context, images []*entity.GalleryImage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gallery, c.hasGal = images, true
	return nil
}

func (c *memContentCache) InvalidateGallery(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gallery, c.hasGal = nil, false
	return nil
}

type memChatRepo struct {
	mu    sync.Mutex
	convs map[string]*entity.Conversation
}

func newMemChatRepo() *memChatRepo { return &memChatRepo{convs: map[string]*entity.Conversation{}} }

func (r *memChatRepo) GetConversation(_ context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *c
	cp.Messages = append([]entity.ChatMessage(nil), c.Messages...)
	return &cp, nil
}

func (r *memChatRepo) AppendMessages(_ context.Context, id string, messages []entity.ChatMessage, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		c = &entity.Conversation{ID: id}
		r.convs[id] = c
	}
	c.Messages = append(c.Messages, messages...)
	if limit > 0 && len(c.Messages) > limit {
		c.Messages = c.Messages[len(c.Messages)-limit:]
	}
	return nil
}

type fakeAI struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (f *fakeAI) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
