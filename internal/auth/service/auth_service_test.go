package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/learnhub/learnhub/internal/auth/domain"
	"github.com/learnhub/learnhub/internal/auth/dto"
	"github.com/learnhub/learnhub/internal/auth/provider"
	"github.com/learnhub/learnhub/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockAccountRepository is an in-memory AccountRepository
type mockAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // keyed by email
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *mockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[account.Email]; exists {
		return domain.ErrEmailAlreadyRegistered
	}
	cp := *account
	m.accounts[account.Email] = &cp
	return nil
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[email]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *mockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.accounts[email]
	return ok, nil
}

func (m *mockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.Email] = &cp
	return nil
}

// mockVerifier returns a fixed identity or error
type mockVerifier struct {
	identity *provider.Identity
	err      error
}

func (m *mockVerifier) Verify(ctx context.Context, idToken string) (*provider.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.identity, nil
}

func setupTestService(verifier provider.TokenVerifier) (AuthService, *mockAccountRepository, *token.Codec) {
	repo := newMockAccountRepository()
	codec := token.NewCodec("test-secret", "test")
	svc := NewAuthService(repo, verifier, codec, &AuthServiceConfig{
		AccessTokenTTL: time.Hour,
		BcryptCost:     bcrypt.MinCost,
	})
	return svc, repo, codec
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, codec := setupTestService(nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, []string{domain.RoleStudent}, reg.Account.Roles)

	claims, err := codec.Verify(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.Account.ID, login.Account.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupTestService(nil)
	ctx := context.Background()

	req := &dto.RegisterRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
}

func TestRegister_ProfessorRole(t *testing.T) {
	svc, _, _ := setupTestService(nil)

	reg, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Prof",
		Email:    "prof@example.com",
		Password: "correct-horse",
		Role:     "professor",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleProfessor}, reg.Account.Roles)
}

func TestLogin_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	svc, _, _ := setupTestService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, errWrongPassword := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	_, errUnknownEmail := svc.Login(ctx, &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "anything",
	})

	assert.ErrorIs(t, errWrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, domain.ErrInvalidCredentials)
}

func TestRefresh_ValidToken(t *testing.T) {
	svc, _, _ := setupTestService(nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, reg.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.Equal(t, "alice@example.com", refreshed.Account.Email)
}

func TestRefresh_ExpiredTokenRejected(t *testing.T) {
	svc, _, codec := setupTestService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	expired, err := codec.Issue("alice@example.com", []string{domain.RoleStudent}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefresh_GarbageTokenRejected(t *testing.T) {
	svc, _, _ := setupTestService(nil)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoginWithGoogle_FirstLoginCreatesAccount(t *testing.T) {
	verifier := &mockVerifier{identity: &provider.Identity{
		Email:         "bob@example.com",
		FullName:      "Bob",
		EmailVerified: true,
	}}
	svc, repo, _ := setupTestService(verifier)
	ctx := context.Background()

	resp, err := svc.LoginWithGoogle(ctx, &dto.GoogleLoginRequest{IDToken: "provider-token"})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", resp.Account.Email)
	assert.Equal(t, []string{domain.RoleStudent}, resp.Account.Roles)

	stored, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)

	// A delegated account holds an unguessable hash; password login
	// must not work for it
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "bob@example.com", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginWithGoogle_SecondLoginReusesAccount(t *testing.T) {
	verifier := &mockVerifier{identity: &provider.Identity{
		Email:    "bob@example.com",
		FullName: "Bob",
	}}
	svc, _, _ := setupTestService(verifier)
	ctx := context.Background()

	first, err := svc.LoginWithGoogle(ctx, &dto.GoogleLoginRequest{IDToken: "t1"})
	require.NoError(t, err)
	second, err := svc.LoginWithGoogle(ctx, &dto.GoogleLoginRequest{IDToken: "t2"})
	require.NoError(t, err)

	assert.Equal(t, first.Account.ID, second.Account.ID)
}

func TestLoginWithGoogle_CreateRaceFallsBackToLookup(t *testing.T) {
	verifier := &mockVerifier{identity: &provider.Identity{
		Email:    "carol@example.com",
		FullName: "Carol",
	}}
	svc, repo, _ := setupTestService(verifier)
	ctx := context.Background()

	// Simulate a concurrent first login that won the insert race
	require.NoError(t, repo.Create(ctx, &domain.Account{
		ID:        "existing-id",
		FullName:  "Carol",
		Email:     "carol@example.com",
		Roles:     []string{domain.RoleStudent},
		CreatedAt: time.Now(),
	}))

	resp, err := svc.LoginWithGoogle(ctx, &dto.GoogleLoginRequest{IDToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, "existing-id", resp.Account.ID)
}

func TestLoginWithGoogle_ProviderRejection(t *testing.T) {
	verifier := &mockVerifier{err: domain.ErrInvalidProviderToken}
	svc, repo, _ := setupTestService(verifier)

	_, err := svc.LoginWithGoogle(context.Background(), &dto.GoogleLoginRequest{IDToken: "bad"})
	assert.ErrorIs(t, err, domain.ErrInvalidProviderToken)

	stored, err2 := repo.GetByEmail(context.Background(), "")
	require.NoError(t, err2)
	assert.Nil(t, stored)
}

func TestGetAccount(t *testing.T) {
	svc, _, _ := setupTestService(nil)
	ctx := context.Background()

	_, err := svc.GetAccount(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = svc.Register(ctx, &dto.RegisterRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	account, err := svc.GetAccount(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", account.FullName)
}
