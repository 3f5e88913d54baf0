package dto

import "strings"

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// ValidatePassword checks password strength
func (r *RegisterRequest) ValidatePassword() (bool, string) {
	if len(r.Password) < 8 {
		return false, "password must be at least 8 characters"
	}
	return true, ""
}

// ValidateRole checks that the requested role is self-assignable
func (r *RegisterRequest) ValidateRole() (bool, string) {
	switch strings.ToUpper(r.Role) {
	case "", "STUDENT", "PROFESSOR":
		return true, ""
	}
	return false, "role must be STUDENT or PROFESSOR"
}

// LoginRequest is the payload for password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest is the payload for delegated login
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// RefreshRequest is the payload for token refresh
type RefreshRequest struct {
	Token string `json:"token" binding:"required"`
}

// AccountResponse is the public view of an account
type AccountResponse struct {
	ID        string   `json:"id"`
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
}

// AuthResponse carries a freshly issued token and its account
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int64           `json:"expires_in"`
	Account   AccountResponse `json:"account"`
}
