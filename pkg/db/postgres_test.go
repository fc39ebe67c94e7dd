package db

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers to avoid linter errors for unchecked os.Setenv/Unsetenv
func testSetenv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("Failed to set env var %s: %v", key, err)
	}
}

func testUnsetenv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Failed to unset env var %s: %v", key, err)
	}
}

func TestNewConfigFromEnv_AllDefaults(t *testing.T) {
	// Clear all environment variables
	envVars := []string{
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_SSLMODE", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
		"DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
	}
	for _, key := range envVars {
		testUnsetenv(t, key)
	}

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "level_up_dashboard", cfg.Database)
	assert.Equal(t, "postgres", cfg.User)
	assert.Equal(t, "", cfg.Password)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 300*time.Second, cfg.ConnMaxLifetime)
	assert.Equal(t, 300*time.Second, cfg.ConnMaxIdleTime)
}

func TestNewConfigFromEnv_CustomValues(t *testing.T) {
	testSetenv(t, "DB_HOST", "db.example.com")
	testSetenv(t, "DB_PORT", "5433")
	testSetenv(t, "DB_NAME", "test_db")
	testSetenv(t, "DB_USER", "testuser")
	testSetenv(t, "DB_PASSWORD", "testpass")
	testSetenv(t, "DB_SSLMODE", "require")
	testSetenv(t, "DB_MAX_OPEN_CONNS", "50")
	testSetenv(t, "DB_MAX_IDLE_CONNS", "10")
	testSetenv(t, "DB_CONN_MAX_LIFETIME", "600s")
	testSetenv(t, "DB_CONN_MAX_IDLE_TIME", "120s")

	defer func() {
		testUnsetenv(t, "DB_HOST")
		testUnsetenv(t, "DB_PORT")
		testUnsetenv(t, "DB_NAME")
		testUnsetenv(t, "DB_USER")
		testUnsetenv(t, "DB_PASSWORD")
		testUnsetenv(t, "DB_SSLMODE")
		testUnsetenv(t, "DB_MAX_OPEN_CONNS")
		testUnsetenv(t, "DB_MAX_IDLE_CONNS")
		testUnsetenv(t, "DB_CONN_MAX_LIFETIME")
		testUnsetenv(t, "DB_CONN_MAX_IDLE_TIME")
	}()

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "db.example.com", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "test_db", cfg.Database)
	assert.Equal(t, "testuser", cfg.User)
	assert.Equal(t, "testpass", cfg.Password)
	assert.Equal(t, "require", cfg.SSLMode)
	assert.Equal(t, 50, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 600*time.Second, cfg.ConnMaxLifetime)
	assert.Equal(t, 120*time.Second, cfg.ConnMaxIdleTime)
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Host:     "localhost",
		Port:     5432,
		Database: "level_up_dashboard",
		User:     "postgres",
		Password: "secret",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()

	for _, part := range []string{
		"host=localhost", "port=5432", "dbname=level_up_dashboard",
		"user=postgres", "password=secret", "sslmode=disable",
	} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN missing %q: %s", part, dsn)
		}
	}
}
