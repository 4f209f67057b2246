package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Data:     DataConfig{BasePath: "/some/path", Driver: DriverBadger},
		Taxonomy: TaxonomyConfig{CollationLocale: "en"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"INFO", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_StoreDriver(t *testing.T) {
	for _, driver := range []string{DriverBadger, DriverSQLite} {
		cfg := validConfig()
		cfg.Data.Driver = driver
		assert.NoError(t, cfg.Validate(), driver)
	}

	cfg := validConfig()
	cfg.Data.Driver = "postgres"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store driver")
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_CollationLocale(t *testing.T) {
	cfg := validConfig()
	cfg.Taxonomy.CollationLocale = "de-DE"
	assert.NoError(t, cfg.Validate())

	cfg.Taxonomy.CollationLocale = "not a locale!"
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	cfg, err := load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, DriverBadger, cfg.Data.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "en", cfg.Taxonomy.CollationLocale)
	assert.True(t, cfg.Taxonomy.SeedDefaults)
	assert.False(t, cfg.SuggestionsEnabled())
}

func TestLoad_SeedDefaultsDisabled(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("SEED_DEFAULT_TAGS", "false")

	cfg, err := load([]string{"-env-file", ""})
	require.NoError(t, err)
	assert.False(t, cfg.Taxonomy.SeedDefaults)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORE_DRIVER", "sqlite")

	cfg, err := load([]string{"-port", "9100", "-env-file", ""})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Data.Driver)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("ACCESS_TOKEN_DURATION", "forever")

	_, err := load([]string{"-env-file", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_DURATION")
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nGEMINI_API_KEY=\"from-file\"\nCOLLATION_LOCALE=sv\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("DATA_PATH", dir)
	// Registered so t.Setenv restores them after loadEnvFile sets them.
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("COLLATION_LOCALE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := load([]string{"-env-file", envPath})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Suggest.APIKey)
	assert.True(t, cfg.SuggestionsEnabled())
	assert.Equal(t, "sv", cfg.CollationTag().String())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOEQUALS\n"), 0o600))

	err := loadEnvFile(envPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/games", "/default")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "games"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)
}
