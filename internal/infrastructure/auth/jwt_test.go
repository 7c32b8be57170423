package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerIssueAndVerify(t *testing.T) {
	m, err := NewManager("secret", "studioflow", time.Hour)
	require.NoError(t, err)

	token, err := m.Issue("u-1", "ana@example.com")
	require.NoError(t, err)

	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestManagerRejectsExpiredToken(t *testing.T) {
	m, err := NewManager("secret", "studioflow", time.Minute)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := m.Issue("u-1", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestManagerRejectsForeignSecretAndIssuer(t *testing.T) {
	issuer, _ := NewManager("secret", "studioflow", time.Hour)
	token, err := issuer.Issue("u-1", "")
	require.NoError(t, err)

	other, _ := NewManager("another-secret", "studioflow", time.Hour)
	_, err = other.Verify(context.Background(), token)
	assert.Error(t, err)

	wrongIssuer, _ := NewManager("secret", "someone-else", time.Hour)
	_, err = wrongIssuer.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", "studioflow", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
