package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	jwtinfra "github.com/mpikenya/mpi-backend/internal/infrastructure/jwt"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/logger"
	passwordservice "github.com/mpikenya/mpi-backend/internal/infrastructure/password_service"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/validator"
	"github.com/mpikenya/mpi-backend/internal/usecase"
)

const testOTP = "123456"

type authEnv struct {
	users     *memAccountRepo
	admins    *memAccountRepo
	mgr       *jwtinfra.JWTManager
	tokens    *jwtinfra.JWTServiceAdapter
	hasher    *passwordservice.Hasher
	mailer    *fakeMailer
	federated *fakeFederated
	auth      *usecase.AuthUseCase
	reset     *usecase.PasswordResetUseCase
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	cfg := stubConfig{}
	log := logger.NewDiscardLogger()
	env := &authEnv{
		users:     newMemAccountRepo(),
		admins:    newMemAccountRepo(),
		mgr:       jwtinfra.NewJWTManager("session-secret", ""),
		hasher:    passwordservice.NewHasher(bcrypt.MinCost, 4),
		mailer:    &fakeMailer{},
		federated: &fakeFederated{claims: map[string]*entity.FederatedClaims{}},
	}
	env.tokens = jwtinfra.NewJWTService(env.mgr, cfg)
	v := validator.NewValidator()
	uuids := &seqUUID{}
	env.auth = usecase.NewAuthUseCase(env.users, env.admins, env.hasher, env.tokens, env.federated, log, cfg, v, uuids)
	env.reset = usecase.NewPasswordResetUseCase(env.users, env.hasher, env.tokens, env.mailer, fixedOTP{code: testOTP}, log, cfg, v)
	env.reset.SetDispatch(func(f func()) { f() })
	return env
}

func TestRegister_IssuesUserSession(t *testing.T) {
	env := newAuthEnv(t)

	account, token, err := env.auth.Register(context.Background(), "Jane", "  Jane@Example.com ", "p1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", account.Email)
	assert.Equal(t, entity.RoleUser, account.Role)
	assert.Equal(t, "https://cdn.example.com/default.png", account.PhotoURL)
	assert.NotEqual(t, "p1", account.PasswordHash)

	claims, err := env.tokens.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, entity.RoleUser, claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	_, _, err := env.auth.Register(ctx, "Jane", "jane@example.com", "p1")
	require.NoError(t, err)
	_, _, err = env.auth.Register(ctx, "Other", "JANE@example.com", "p2")
	require.Error(t, err)
	assert.Equal(t, entity.KindDuplicate, entity.KindOf(err))
	assert.Equal(t, 1, env.users.count())
}

func TestRegister_ConcurrentSameEmailCreatesOne(t *testing.T) {
	env := newAuthEnv(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := env.auth.Register(context.Background(), "Jane", "jane@example.com", "p1"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, env.users.count())
}

func TestRegister_ValidationErrors(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	cases := []struct {
		name, email, password string
	}{
		{"", "jane@example.com", "p1"},
		{"Jane", "not-an-email", "p1"},
		{"Jane", "jane@example.com", ""},
	}
	for _, tc := range cases {
		_, _, err := env.auth.Register(ctx, tc.name, tc.email, tc.password)
		require.Error(t, err)
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))
	}
	assert.Equal(t, 0, env.users.count())
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	_, _, err := env.auth.Register(ctx, "Jane", "jane@example.com", "p1")
	require.NoError(t, err)

	_, _, wrongPassword := env.auth.Login(ctx, "jane@example.com", "nope")
	_, _, unknownEmail := env.auth.Login(ctx, "ghost@example.com", "nope")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, entity.KindValidation, entity.KindOf(wrongPassword))
	assert.Equal(t, entity.KindValidation, entity.KindOf(unknownEmail))
}

func TestLogin_PasswordlessAccountRejected(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	_, _, err := env.auth.LinkOrCreate(ctx, "google|1", "fed@example.com", entity.FederatedProfile{})
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, "fed@example.com", "anything")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials.", err.Error())
}

func TestLogin_MissingCredentials(t *testing.T) {
	env := newAuthEnv(t)

	_, _, err := env.auth.Login(context.Background(), "", "p1")
	require.Error(t, err)
	assert.Equal(t, entity.KindValidation, entity.KindOf(err))
}

func TestAdminLogin_OnlyAdminsCollection(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	_, _, err := env.auth.Register(ctx, "Jane", "jane@example.com", "p1")
	require.NoError(t, err)

	_, err = env.auth.AdminLogin(ctx, "jane@example.com", "p1")
	require.Error(t, err)
	assert.Equal(t, entity.KindUnauthenticated, entity.KindOf(err))

	hash, err := env.hasher.HashPassword(ctx, "Adm1n!pass")
	require.NoError(t, err)
	require.NoError(t, env.admins.CreateAccount(ctx, &entity.Account{ID: "a1", Email: "boss@example.com", PasswordHash: hash, Role: entity.RoleAdmin}))

	token, err := env.auth.AdminLogin(ctx, "boss@example.com", "Adm1n!pass")
	require.NoError(t, err)
	claims, err := env.tokens.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, "a1", claims.AccountID)
}

func TestLinkOrCreate_LinksExistingLocalAccount(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	local, _, err := env.auth.Register(ctx, "Jane", "jane@example.com", "p1")
	require.NoError(t, err)

	linked, token, err := env.auth.LinkOrCreate(ctx, "google|42", "jane@example.com", entity.FederatedProfile{PhotoURL: "https://img/p.png"})
	require.NoError(t, err)
	assert.Equal(t, local.ID, linked.ID)
	assert.Equal(t, "https://img/p.png", linked.PhotoURL)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, env.users.count())

	// the local password still works after linking
	_, _, err = env.auth.Login(ctx, "jane@example.com", "p1")
	assert.NoError(t, err)
}

func TestLinkOrCreate_ConcurrentCallsYieldOneAccount(t *testing.T) {
	env := newAuthEnv(t)

	const n = 16
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			account, _, err := env.auth.LinkOrCreate(context.Background(), "google|7", "race@example.com", entity.FederatedProfile{Name: "Racer"})
			if assert.NoError(t, err) {
				ids[i] = account.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, env.users.count())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestLinkOrCreate_RelinksEmailToNewIdentity(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	first, _, err := env.auth.LinkOrCreate(ctx, "google|1", "jane@example.com", entity.FederatedProfile{})
	require.NoError(t, err)

	second, _, err := env.auth.LinkOrCreate(ctx, "clerk|9", "jane@example.com", entity.FederatedProfile{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "clerk|9", second.ExternalID)
	assert.Equal(t, 1, env.users.count())
}

func TestLinkOrCreate_RequiresEmail(t *testing.T) {
	env := newAuthEnv(t)

	_, _, err := env.auth.LinkOrCreate(context.Background(), "google|1", "", entity.FederatedProfile{})
	require.Error(t, err)
	assert.Equal(t, entity.KindValidation, entity.KindOf(err))
}

func TestFederatedLogin(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	env.federated.claims["good"] = &entity.FederatedClaims{Subject: "idp|9", Email: "fed@example.com", Name: "Fed", ExpiresAt: time.Now().Add(time.Hour)}

	t.Run("bad token", func(t *testing.T) {
		_, _, err := env.auth.FederatedLogin(ctx, "bad", "fed@example.com", entity.FederatedProfile{})
		require.Error(t, err)
		assert.Equal(t, entity.KindUnauthenticated, entity.KindOf(err))
	})

	t.Run("email mismatch", func(t *testing.T) {
		_, _, err := env.auth.FederatedLogin(ctx, "good", "other@example.com", entity.FederatedProfile{})
		require.Error(t, err)
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))
	})

	t.Run("creates account from token claims", func(t *testing.T) {
		account, token, err := env.auth.FederatedLogin(ctx, "good", "", entity.FederatedProfile{})
		require.NoError(t, err)
		assert.Equal(t, "fed@example.com", account.Email)
		assert.Equal(t, "Fed", account.Name)
		assert.NotEmpty(t, token)
	})

	t.Run("authenticates linked identity", func(t *testing.T) {
		claims, err := env.auth.AuthenticateFederated(ctx, "good")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleUser, claims.Role)
		assert.NotEmpty(t, claims.AccountID)
	})
}

func TestFederatedLogin_UnverifiedEmailCannotClaimAccount(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	victim, _, err := env.auth.Register(ctx, "Victim", "victim@example.com", "p1")
	require.NoError(t, err)
	env.federated.claims["no-email"] = &entity.FederatedClaims{Subject: "idp|attacker", ExpiresAt: time.Now().Add(time.Hour)}

	account, token, err := env.auth.FederatedLogin(ctx, "no-email", "victim@example.com", entity.FederatedProfile{})
	require.Error(t, err)
	assert.Equal(t, entity.KindConflict, entity.KindOf(err))
	assert.Nil(t, account)
	assert.Empty(t, token)

	stored, err := env.users.GetAccountByEmail(ctx, "victim@example.com")
	require.NoError(t, err)
	assert.Equal(t, victim.ID, stored.ID)
	assert.Empty(t, stored.ExternalID)

	_, err = env.auth.AuthenticateFederated(ctx, "no-email")
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
}

func TestFederatedLogin_UnverifiedEmailCreatesFreshAccount(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	env.federated.claims["no-email"] = &entity.FederatedClaims{Subject: "idp|new", ExpiresAt: time.Now().Add(time.Hour)}

	account, token, err := env.auth.FederatedLogin(ctx, "no-email", "new@example.com", entity.FederatedProfile{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", account.Email)
	assert.Equal(t, "idp|new", account.ExternalID)
	assert.NotEmpty(t, token)

	t.Run("email is required without a token claim", func(t *testing.T) {
		_, _, err := env.auth.FederatedLogin(ctx, "no-email", "", entity.FederatedProfile{})
		require.Error(t, err)
		assert.Equal(t, entity.KindValidation, entity.KindOf(err))
	})
}

func TestFederatedLogin_VerifiedEmailLinksExistingAccount(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	local, _, err := env.auth.Register(ctx, "Jane", "jane@example.com", "p1")
	require.NoError(t, err)
	env.federated.claims["verified"] = &entity.FederatedClaims{Subject: "idp|jane", Email: "jane@example.com", ExpiresAt: time.Now().Add(time.Hour)}

	account, _, err := env.auth.FederatedLogin(ctx, "verified", "", entity.FederatedProfile{})
	require.NoError(t, err)
	assert.Equal(t, local.ID, account.ID)
	assert.Equal(t, "idp|jane", account.ExternalID)
}

func TestAuthenticateFederated_UnlinkedIdentity(t *testing.T) {
	env := newAuthEnv(t)
	env.federated.claims["stranger"] = &entity.FederatedClaims{Subject: "idp|unknown", Email: "s@example.com"}

	_, err := env.auth.AuthenticateFederated(context.Background(), "stranger")
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
}

func TestAuthenticateFederated_NoVerifierConfigured(t *testing.T) {
	cfg := stubConfig{}
	auth := usecase.NewAuthUseCase(newMemAccountRepo(), newMemAccountRepo(), passwordservice.NewHasher(bcrypt.MinCost, 1),
		jwtinfra.NewJWTService(jwtinfra.NewJWTManager("s", ""), cfg), nil, logger.NewDiscardLogger(), cfg, validator.NewValidator(), &seqUUID{})

	_, err := auth.AuthenticateFederated(context.Background(), "anything")
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
}
