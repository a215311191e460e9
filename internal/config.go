package internal

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DataSourceHTTP     = "http"
	DataSourcePostgres = "postgres"

	defaultStatsSourceURL = "https://desirable-avrit-coderlyst-b6824b0d.koyeb.app/"
	defaultDDragonBaseURL = "https://ddragon.leagueoflegends.com"
	// Pinned by hand. Bump it when the upstream data source moves to a new patch.
	defaultDDragonVersion = "14.12.1"
	defaultPageSize       = 15
)

type Config struct {
	StatsSourceURL string
	DataSource     string
	FetchTimeout   time.Duration
	PageSize       int

	DDragonBaseURL string
	DDragonVersion string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	NATSUrl      string
	NATSClientID string

	RateLimitRedisPrefix string
	RateLimitEnabled     bool

	AppPort  string
	AppEnv   string
	LogLevel string

	CacheEnabled bool
	CacheTTL     time.Duration

	ProfilingEnabled bool
	StaticDir        string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := &Config{
		StatsSourceURL: getEnvDefault("STATS_SOURCE_URL", defaultStatsSourceURL),
		DataSource:     getEnvDefault("DATA_SOURCE", DataSourceHTTP),

		DDragonBaseURL: getEnvDefault("DDRAGON_BASE_URL", defaultDDragonBaseURL),
		DDragonVersion: getEnvDefault("DDRAGON_VERSION", defaultDDragonVersion),

		PostgresHost:     getEnvDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvDefault("POSTGRES_PORT", "5432"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresSSLMode:  getEnvDefault("POSTGRES_SSL_MODE", "disable"),

		RedisHost:     getEnvDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		NATSUrl:      os.Getenv("NATS_URL"),
		NATSClientID: getEnvDefault("NATS_CLIENT_ID", "soloq-ranking"),

		RateLimitRedisPrefix: getEnvDefault("RATE_LIMIT_REDIS_PREFIX", "soloq:ratelimit"),
		RateLimitEnabled:     getBoolEnvDefault("RATE_LIMIT_ENABLED", false),

		AppPort:  getEnvDefault("APP_PORT", "8000"),
		AppEnv:   getEnvDefault("APP_ENV", "development"),
		LogLevel: getEnvDefault("LOG_LEVEL", "info"),

		CacheEnabled: getBoolEnvDefault("CACHE_ENABLED", false),

		ProfilingEnabled: getBoolEnvDefault("ENABLE_PROFILING", false),
		StaticDir:        getEnvDefault("STATIC_DIR", "static"),
	}

	var err error
	if cfg.RedisDB, err = getIntEnvDefault("REDIS_DB", 0); err != nil {
		return nil, errors.Wrap(err, "invalid REDIS_DB value")
	}
	if cfg.PageSize, err = getIntEnvDefault("PAGE_SIZE", defaultPageSize); err != nil {
		return nil, errors.Wrap(err, "invalid PAGE_SIZE value")
	}
	if cfg.FetchTimeout, err = getDurationEnvDefault("FETCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, errors.Wrap(err, "invalid FETCH_TIMEOUT value")
	}
	if cfg.CacheTTL, err = getDurationEnvDefault("CACHE_TTL", 30*time.Minute); err != nil {
		return nil, errors.Wrap(err, "invalid CACHE_TTL value")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case DataSourceHTTP:
		if c.StatsSourceURL == "" {
			return errors.New("STATS_SOURCE_URL is required")
		}
	case DataSourcePostgres:
		if c.PostgresUser == "" {
			return errors.New("POSTGRES_USER is required when DATA_SOURCE is postgres")
		}
		if c.PostgresDB == "" {
			return errors.New("POSTGRES_DB is required when DATA_SOURCE is postgres")
		}
	default:
		return errors.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}
	if c.PageSize <= 0 {
		return errors.New("PAGE_SIZE must be positive")
	}
	return nil
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnvDefault(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getIntEnvDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getDurationEnvDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
