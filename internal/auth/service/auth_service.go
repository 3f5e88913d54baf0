package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/learnhub/internal/auth/domain"
	"github.com/learnhub/learnhub/internal/auth/dto"
	"github.com/learnhub/learnhub/internal/auth/provider"
	"github.com/learnhub/learnhub/internal/auth/repository"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"github.com/learnhub/learnhub/pkg/token"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	AccessTokenTTL time.Duration
	BcryptCost     int
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register creates a new account and issues a token
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login authenticates an account by email and password
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// LoginWithGoogle authenticates via a provider-issued ID token,
	// creating the account on first login
	LoginWithGoogle(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.AuthResponse, error)
	// Refresh exchanges a still-valid token for a fresh one
	Refresh(ctx context.Context, tokenString string) (*dto.AuthResponse, error)
	// GetAccount retrieves an account by email
	GetAccount(ctx context.Context, email string) (*domain.Account, error)
}

// authService implements AuthService
type authService struct {
	accountRepo repository.AccountRepository
	verifier    provider.TokenVerifier
	codec       *token.Codec
	config      *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accountRepo repository.AccountRepository,
	verifier provider.TokenVerifier,
	codec *token.Codec,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = time.Hour
	}
	return &authService{
		accountRepo: accountRepo,
		verifier:    verifier,
		codec:       codec,
		config:      config,
	}
}

// Register creates a new account and issues a token
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	exists, err := s.accountRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "email already registered")
		return nil, domain.ErrEmailAlreadyRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	role := strings.ToUpper(req.Role)
	if role == "" {
		role = domain.RoleStudent
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.New().String(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Roles:        []string{role},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index on email remains the final arbiter; a race
	// between the existence check and this insert still maps to the
	// conflict error
	if err := s.accountRepo.Create(ctx, account); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("account_id", account.ID))
	return s.respondWithToken(span, account)
}

// Login authenticates an account by email and password. Unknown email
// and wrong password produce the same error so callers cannot probe
// for registered addresses.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	account, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}

	span.SetAttributes(attribute.String("account_id", account.ID))
	return s.respondWithToken(span, account)
}

// LoginWithGoogle authenticates via a provider-issued ID token
func (s *authService) LoginWithGoogle(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login_google")
	defer span.End()

	ident, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("email", ident.Email))

	account, err := s.accountRepo.GetByEmail(ctx, ident.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if account == nil {
		account, err = s.createDelegatedAccount(ctx, ident)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	span.SetAttributes(attribute.String("account_id", account.ID))
	return s.respondWithToken(span, account)
}

// createDelegatedAccount creates an account for a first-time delegated
// login. Two concurrent first logins race on the email index; the
// loser retries as a lookup.
func (s *authService) createDelegatedAccount(ctx context.Context, ident *provider.Identity) (*domain.Account, error) {
	// Delegated accounts never authenticate by password; store an
	// unguessable hash so password login for them always fails
	randomSecret := make([]byte, 32)
	if _, err := rand.Read(randomSecret); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.URLEncoding.EncodeToString(randomSecret)), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.New().String(),
		FullName:     ident.FullName,
		Email:        ident.Email,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleStudent},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.accountRepo.Create(ctx, account)
	if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
		existing, lookupErr := s.accountRepo.GetByEmail(ctx, ident.Email)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if existing == nil {
			return nil, domain.ErrAccountNotFound
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Refresh exchanges a still-valid token for a fresh one. Expired
// tokens are rejected; the caller must authenticate again.
func (s *authService) Refresh(ctx context.Context, tokenString string) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.refresh")
	defer span.End()

	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, token.ErrTokenExpired) {
			span.SetStatus(codes.Error, "token expired")
			return nil, ErrTokenExpired
		}
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}

	span.SetAttributes(attribute.String("email", claims.Subject))

	account, err := s.accountRepo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, domain.ErrAccountNotFound
	}

	span.SetAttributes(attribute.String("account_id", account.ID))
	return s.respondWithToken(span, account)
}

// GetAccount retrieves an account by email
func (s *authService) GetAccount(ctx context.Context, email string) (*domain.Account, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.get_account")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, domain.ErrAccountNotFound
	}

	span.SetStatus(codes.Ok, "")
	return account, nil
}

func (s *authService) respondWithToken(span trace.Span, account *domain.Account) (*dto.AuthResponse, error) {
	tokenString, err := s.codec.Issue(account.Email, account.Roles, s.config.AccessTokenTTL)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.AuthResponse{
		Token:     tokenString,
		ExpiresIn: int64(s.config.AccessTokenTTL.Seconds()),
		Account:   toAccountResponse(account),
	}, nil
}

func toAccountResponse(account *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        account.ID,
		FullName:  account.FullName,
		Email:     account.Email,
		Roles:     account.Roles,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}
}
