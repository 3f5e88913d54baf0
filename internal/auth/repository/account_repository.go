package repository

import (
	"context"

	"github.com/learnhub/learnhub/internal/auth/domain"
)

// AccountRepository defines persistence operations for accounts
type AccountRepository interface {
	// Create inserts a new account. Returns
	// domain.ErrEmailAlreadyRegistered when the email is taken.
	Create(ctx context.Context, account *domain.Account) error
	// GetByID retrieves an account by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByEmail retrieves an account by email, nil when absent
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// ExistsByEmail checks if an account exists with the given email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update persists changes to an account
	Update(ctx context.Context, account *domain.Account) error
}
