package domain

import "time"

// Role names carried in tokens and on trusted headers
const (
	RoleStudent   = "STUDENT"
	RoleProfessor = "PROFESSOR"
	RoleAdmin     = "ADMIN"
)

// Account represents a registered platform user
type Account struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the account carries the given role
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
