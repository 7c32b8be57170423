package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/infrastructure/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssue(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "studioflow")
	t.Setenv("STORE_DRIVER", "memory")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"token", "issue", "dir-1", "--email", "dir@studio.test"})
	require.NoError(t, root.Execute())

	m, err := auth.NewManager("cli-secret", "studioflow", time.Hour)
	require.NoError(t, err)
	claims, err := m.Verify(t.Context(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "dir-1", claims.UID)
	assert.Equal(t, "dir@studio.test", claims.Email)
}

func TestTokenIssueRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "memory")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"token", "issue", "dir-1"})
	assert.ErrorIs(t, root.Execute(), auth.ErrMissingSecret)
}

func TestNewSeedUser(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	u, err := newSeedUser(" dir-1 ", "dir@studio.test", "Director", "director", now)
	require.NoError(t, err)
	assert.Equal(t, "dir-1", u.UID)
	assert.Equal(t, entities.RoleDirector, u.Role)
	assert.Equal(t, entities.UserStatusActive, u.Status)
	assert.Equal(t, now, u.CreatedAt)

	_, err = newSeedUser("dir-1", "", "Director", "director", now)
	assert.Error(t, err)

	_, err = newSeedUser("dir-1", "dir@studio.test", "Director", "overlord", now)
	assert.Error(t, err)
}

func TestSweepRejectsBadInstant(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"sweep", "overdue", "--at", "yesterday"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--at")
}
