package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/learnhub/learnhub/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleVerifier_ValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "good-token", r.URL.Query().Get("id_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email":"alice@example.com","email_verified":"true","name":"Alice","aud":"client-123"}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifier(GoogleVerifierConfig{TokenInfoURL: srv.URL})

	ident, err := v.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", ident.Email)
	assert.Equal(t, "Alice", ident.FullName)
	assert.True(t, ident.EmailVerified)
}

func TestGoogleVerifier_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_token"}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifier(GoogleVerifierConfig{TokenInfoURL: srv.URL})

	_, err := v.Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, domain.ErrInvalidProviderToken)
}

func TestGoogleVerifier_AudienceMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"alice@example.com","email_verified":"true","name":"Alice","aud":"someone-else"}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifier(GoogleVerifierConfig{
		TokenInfoURL: srv.URL,
		Audience:     "client-123",
	})

	_, err := v.Verify(context.Background(), "good-token")
	assert.ErrorIs(t, err, domain.ErrInvalidProviderToken)
}

func TestGoogleVerifier_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	v := NewGoogleVerifier(GoogleVerifierConfig{
		TokenInfoURL: srv.URL,
		Timeout:      50 * time.Millisecond,
	})

	_, err := v.Verify(context.Background(), "any-token")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestGoogleVerifier_MissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"aud":"client-123"}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifier(GoogleVerifierConfig{TokenInfoURL: srv.URL})

	_, err := v.Verify(context.Background(), "token-without-email")
	assert.ErrorIs(t, err, domain.ErrInvalidProviderToken)
}
