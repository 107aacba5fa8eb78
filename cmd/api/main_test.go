package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenirmoveis/assistant/pkg/tokens"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "cmd-secret")

	out, err := execute(t, "token", "--subject", "crm-worker", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(strings.TrimSpace(out), []byte("cmd-secret"))
	require.NoError(t, err)
	assert.Equal(t, "crm-worker", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCmd_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := execute(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "cmd-secret")
	_, err = execute(t, "token", "--ttl", "-1h")
	require.Error(t, err)

	_, err = execute(t, "token", "--subject", "")
	require.Error(t, err)
}

func TestMigrateCmd_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "assistant.db")+"?_pragma=foreign_keys(1)")

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated sqlite database")
}

func TestMigrateCmd_MissingDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
