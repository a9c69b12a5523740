package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanincidents/internal/shared/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("URBANINCIDENTS_DATABASE_DRIVER", "sqlite")
	t.Setenv("URBANINCIDENTS_DATABASE_PATH", filepath.Join(dir, "cli.db"))
	t.Setenv("URBANINCIDENTS_LOGGER_LEVEL", "error")
	t.Setenv("URBANINCIDENTS_ADMIN_BCRYPT_COST", "4")
	t.Setenv("URBANINCIDENTS_PASSWORD", "")

	_, err := execute(t, "migrate", "up")
	require.NoError(t, err)

	out, err := execute(t, "type", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Street furniture damage")

	_, err = execute(t, "user", "register",
		"--email", "ana@example.com", "--name", "Ana", "--surname", "García",
		"--birth-date", "1990-05-17", "--address", "Calle Mayor 1",
		"--phone", "612345678", "--new-password", "s3cret")
	require.NoError(t, err)

	photo := filepath.Join(dir, "bin.jpg")
	require.NoError(t, os.WriteFile(photo, []byte{0xff, 0xd8, 0xff, 0xe0}, 0o600))

	out, err = execute(t, "incident", "report", "--as", "ana@example.com", "--password", "s3cret",
		"--type", "Dirt", "--description", "Overflowing bin", "--location", "Plaza Mayor",
		"--lat=40.416775", "--lng=-3.703790", "--department", "Cleaning", "--photo", photo)
	require.NoError(t, err)
	assert.Contains(t, out, `"state": "PENDING"`)
	assert.Contains(t, out, `"has_photo": true`)

	_, err = execute(t, "incident", "set-state", "1", "RESOLVED", "--as", "ana@example.com", "--password", "s3cret")
	assert.True(t, errors.IsNotAuthorizedError(err))
	assert.Equal(t, 3, exitCode(err))

	out, err = execute(t, "incident", "set-state", "1", "UNDER_REVIEW", "--as", "admin@admin.es", "--password", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": 1`)

	out, err = execute(t, "incident", "show", "1", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "state: UNDER_REVIEW")

	saved := filepath.Join(dir, "out.jpg")
	out, err = execute(t, "incident", "photo", "1", "--out", saved)
	require.NoError(t, err)
	assert.Contains(t, out, `"content_type": "image/jpeg"`)
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, data)

	_, err = execute(t, "type", "delete", "Dirt", "--as", "admin@admin.es", "--password", "admin")
	assert.True(t, errors.IsInUseError(err))
	assert.Equal(t, 5, exitCode(err))

	_, err = execute(t, "type", "list", "--output", "xml")
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(t, "incident", "show", "99")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(errors.NewValidationError("bad")))
	assert.Equal(t, 3, exitCode(errors.NewInvalidCredentialsError()))
	assert.Equal(t, 6, exitCode(errors.NewConcurrencyExhaustedError("busy")))
	assert.Equal(t, 1, exitCode(assert.AnError))
}
