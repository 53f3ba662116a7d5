package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swipefolio/landing-api/internal/log"
)

func TestValidateAutoMigrateAllowed(t *testing.T) {
	for _, env := range []string{"", "dev", "development", "local", "test", "testing", "DEV", "  Local  "} {
		assert.NoError(t, ValidateAutoMigrateAllowed(env), "env %q", env)
	}

	for _, env := range []string{"prod", "production", "staging", " Production ", "qa"} {
		assert.Error(t, ValidateAutoMigrateAllowed(env), "env %q", env)
	}
}

func TestInitializeEnvFile_LocalOverridesShared(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WAITLIST_TEST_A=shared\nWAITLIST_TEST_B=shared\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("WAITLIST_TEST_A=local\n"), 0o600))
	t.Chdir(dir)

	t.Setenv("SKIP_DOTENV", "")
	t.Setenv("WAITLIST_TEST_A", "")
	t.Setenv("WAITLIST_TEST_B", "")
	os.Unsetenv("WAITLIST_TEST_A")
	os.Unsetenv("WAITLIST_TEST_B")

	InitializeEnvFile(log.NewLoggerWithJSONOutput())

	assert.Equal(t, "local", os.Getenv("WAITLIST_TEST_A"))
	assert.Equal(t, "shared", os.Getenv("WAITLIST_TEST_B"))
}

func TestInitializeEnvFile_Skip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WAITLIST_TEST_SKIP=loaded\n"), 0o600))
	t.Chdir(dir)

	t.Setenv("SKIP_DOTENV", "true")
	t.Setenv("WAITLIST_TEST_SKIP", "")
	os.Unsetenv("WAITLIST_TEST_SKIP")

	InitializeEnvFile(log.NewLoggerWithJSONOutput())

	_, set := os.LookupEnv("WAITLIST_TEST_SKIP")
	assert.False(t, set)
}
