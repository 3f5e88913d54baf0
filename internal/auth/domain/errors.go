package domain

import "errors"

var (
	// ErrEmailAlreadyRegistered is returned when registering an email
	// that already has an account
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials is returned for unknown email or wrong
	// password, without distinguishing the two
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is returned when an account does not exist
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidProviderToken is returned when a delegated login token
	// fails provider verification
	ErrInvalidProviderToken = errors.New("invalid provider token")
	// ErrProviderUnavailable is returned when the identity provider
	// cannot be reached
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

func IsConflictError(err error) bool {
	return errors.Is(err, ErrEmailAlreadyRegistered)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidProviderToken)
}
