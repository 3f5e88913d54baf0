package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("test-secret-key", "learnhub")

	signed, err := codec.Issue("ana@x.com", []string{"student"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", claims.Subject)
	assert.Equal(t, []string{"student"}, claims.Roles)
}

func TestCodec_MultipleRoles(t *testing.T) {
	codec := NewCodec("test-secret-key", "learnhub")

	signed, err := codec.Issue("admin@x.com", []string{"admin", "professor"}, time.Hour)
	require.NoError(t, err)

	claims, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"admin", "professor"}, claims.Roles)
}

func TestCodec_Expired(t *testing.T) {
	codec := NewCodec("test-secret-key", "learnhub")

	signed, err := codec.Issue("ana@x.com", []string{"student"}, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.True(t, errors.Is(err, ErrTokenExpired), "want ErrTokenExpired, got %v", err)
}

func TestCodec_WrongSecret(t *testing.T) {
	issued, err := NewCodec("secret-a", "learnhub").Issue("ana@x.com", []string{"student"}, time.Hour)
	require.NoError(t, err)

	_, err = NewCodec("secret-b", "learnhub").Verify(issued)
	assert.True(t, errors.Is(err, ErrInvalidToken), "want ErrInvalidToken, got %v", err)
}

func TestCodec_WrongIssuer(t *testing.T) {
	// Same secret, different deployment: the issuer claim must not verify
	issued, err := NewCodec("shared-secret", "some-other-deployment").Issue("ana@x.com", []string{"student"}, time.Hour)
	require.NoError(t, err)

	_, err = NewCodec("shared-secret", "learnhub").Verify(issued)
	assert.True(t, errors.Is(err, ErrInvalidToken), "want ErrInvalidToken, got %v", err)
}

func TestCodec_RejectsUnsignedAlg(t *testing.T) {
	codec := NewCodec("test-secret-key", "learnhub")

	// alg "none" with an empty signature
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJhbmFAeC5jb20iLCJpc3MiOiJsZWFybmh1YiJ9."
	_, err := codec.Verify(unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken), "want ErrInvalidToken, got %v", err)
}

func TestCodec_Malformed(t *testing.T) {
	codec := NewCodec("test-secret-key", "learnhub")

	for _, tok := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := codec.Verify(tok)
		assert.True(t, errors.Is(err, ErrInvalidToken), "token %q: want ErrInvalidToken, got %v", tok, err)
	}
}

func TestCodec_MissingSubject(t *testing.T) {
	codec := NewCodec("test-secret-key", "learnhub")

	signed, err := codec.Issue("", []string{"student"}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
