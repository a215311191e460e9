package internal

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.StatsSourceURL != defaultStatsSourceURL {
		t.Errorf("expected default StatsSourceURL, got %s", cfg.StatsSourceURL)
	}
	if cfg.DataSource != DataSourceHTTP {
		t.Errorf("expected default DataSource 'http', got %s", cfg.DataSource)
	}
	if cfg.DDragonVersion != "14.12.1" {
		t.Errorf("expected default DDragonVersion '14.12.1', got %s", cfg.DDragonVersion)
	}
	if cfg.PageSize != 15 {
		t.Errorf("expected default PageSize 15, got %d", cfg.PageSize)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("expected default FetchTimeout 10s, got %v", cfg.FetchTimeout)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("expected default RedisDB 0, got %d", cfg.RedisDB)
	}
	if cfg.AppPort != "8000" {
		t.Errorf("expected default AppPort '8000', got %s", cfg.AppPort)
	}
	if cfg.CacheEnabled {
		t.Error("expected CacheEnabled to be false by default")
	}
	if cfg.RateLimitEnabled {
		t.Error("expected RateLimitEnabled to be false by default")
	}
	if cfg.ProfilingEnabled {
		t.Error("expected ProfilingEnabled to be false by default")
	}
	if cfg.StaticDir != "static" {
		t.Errorf("expected default StaticDir 'static', got %s", cfg.StaticDir)
	}
}

func TestLoadConfig_CustomValues(t *testing.T) {
	cleanupEnv()
	os.Setenv("STATS_SOURCE_URL", "http://stats.local/")
	os.Setenv("FETCH_TIMEOUT", "3s")
	os.Setenv("PAGE_SIZE", "25")
	os.Setenv("DDRAGON_VERSION", "15.1.1")
	os.Setenv("REDIS_HOST", "redis-host")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("REDIS_DB", "5")
	os.Setenv("NATS_URL", "nats://custom:4223")
	os.Setenv("APP_PORT", "8080")
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("CACHE_ENABLED", "true")
	os.Setenv("CACHE_TTL", "5m")
	defer cleanupEnv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.StatsSourceURL != "http://stats.local/" {
		t.Errorf("expected StatsSourceURL 'http://stats.local/', got %s", cfg.StatsSourceURL)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("expected FetchTimeout 3s, got %v", cfg.FetchTimeout)
	}
	if cfg.PageSize != 25 {
		t.Errorf("expected PageSize 25, got %d", cfg.PageSize)
	}
	if cfg.DDragonVersion != "15.1.1" {
		t.Errorf("expected DDragonVersion '15.1.1', got %s", cfg.DDragonVersion)
	}
	if cfg.RedisAddr() != "redis-host:6380" {
		t.Errorf("expected RedisAddr 'redis-host:6380', got %s", cfg.RedisAddr())
	}
	if cfg.RedisDB != 5 {
		t.Errorf("expected RedisDB 5, got %d", cfg.RedisDB)
	}
	if cfg.NATSUrl != "nats://custom:4223" {
		t.Errorf("expected NATSUrl 'nats://custom:4223', got %s", cfg.NATSUrl)
	}
	if cfg.AppEnv != "production" {
		t.Errorf("expected AppEnv 'production', got %s", cfg.AppEnv)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel 'debug', got %s", cfg.LogLevel)
	}
	if !cfg.CacheEnabled {
		t.Error("expected CacheEnabled to be true")
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected CacheTTL 5m, got %v", cfg.CacheTTL)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"REDIS_DB", "invalid", `invalid REDIS_DB value: strconv.Atoi: parsing "invalid": invalid syntax`},
		{"PAGE_SIZE", "lots", `invalid PAGE_SIZE value: strconv.Atoi: parsing "lots": invalid syntax`},
		{"PAGE_SIZE", "0", "PAGE_SIZE must be positive"},
		{"FETCH_TIMEOUT", "soon", `invalid FETCH_TIMEOUT value: time: invalid duration "soon"`},
		{"CACHE_TTL", "10", `invalid CACHE_TTL value: time: missing unit in duration "10"`},
		{"DATA_SOURCE", "ftp", `unknown DATA_SOURCE "ftp"`},
	}

	for _, tt := range tests {
		cleanupEnv()
		os.Setenv(tt.key, tt.value)

		_, err := LoadConfig()
		if err == nil {
			t.Errorf("%s=%s: expected error", tt.key, tt.value)
			continue
		}
		if err.Error() != tt.expected {
			t.Errorf("%s=%s: unexpected error message: %v", tt.key, tt.value, err)
		}
	}
	cleanupEnv()
}

func TestLoadConfig_PostgresSourceRequiresCredentials(t *testing.T) {
	cleanupEnv()
	os.Setenv("DATA_SOURCE", "postgres")
	defer cleanupEnv()

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected error for missing postgres config")
	}
	if err.Error() != "POSTGRES_USER is required when DATA_SOURCE is postgres" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestGetEnvDefault(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if result := getEnvDefault("TEST_VAR", "default"); result != "test-value" {
		t.Errorf("expected 'test-value', got %s", result)
	}
	if result := getEnvDefault("NON_EXISTING_VAR", "default"); result != "default" {
		t.Errorf("expected 'default', got %s", result)
	}
}

func TestGetBoolEnvDefault(t *testing.T) {
	tests := []struct {
		envValue   string
		defaultVal bool
		expected   bool
	}{
		{"true", false, true},
		{"false", true, false},
		{"", true, true},
		{"", false, false},
		{"invalid", true, true},
		{"invalid", false, false},
	}

	for _, tt := range tests {
		if tt.envValue != "" {
			os.Setenv("TEST_BOOL_VAR", tt.envValue)
		} else {
			os.Unsetenv("TEST_BOOL_VAR")
		}

		result := getBoolEnvDefault("TEST_BOOL_VAR", tt.defaultVal)
		if result != tt.expected {
			t.Errorf("getBoolEnvDefault(%s, %v): expected %v, got %v",
				tt.envValue, tt.defaultVal, tt.expected, result)
		}
	}

	os.Unsetenv("TEST_BOOL_VAR")
}

func TestConfig_Validate_PostgresComplete(t *testing.T) {
	cfg := &Config{
		DataSource:   DataSourcePostgres,
		PostgresUser: "user",
		PostgresDB:   "db",
		PageSize:     15,
	}

	if err := cfg.validate(); err != nil {
		t.Errorf("expected no error with complete postgres config, got %v", err)
	}
}

func cleanupEnv() {
	envVars := []string{
		"STATS_SOURCE_URL", "DATA_SOURCE", "FETCH_TIMEOUT", "PAGE_SIZE",
		"DDRAGON_BASE_URL", "DDRAGON_VERSION",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSL_MODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"NATS_URL", "NATS_CLIENT_ID", "RATE_LIMIT_REDIS_PREFIX", "RATE_LIMIT_ENABLED",
		"APP_PORT", "APP_ENV", "LOG_LEVEL", "CACHE_ENABLED", "CACHE_TTL",
		"ENABLE_PROFILING", "STATIC_DIR",
	}

	for _, env := range envVars {
		os.Unsetenv(env)
	}
}
