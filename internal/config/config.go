package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/platform/resilience"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	StoreDriver             string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	DBMaxIdleConns          int

	CORSAllowedOrigins []string
	InternalJobToken   string

	APIFootballBaseURL       string
	APIFootballHost          string
	APIFootballKey           string
	APIFootballTimeout       time.Duration
	APIFootballMaxRetries    int
	APIFootballRetryStep     time.Duration
	APIFootballRatePerMinute int
	APIFootballCircuit       resilience.CircuitBreakerConfig

	IngestDefaultSeason int
	IngestPacingDelay   time.Duration
	IngestRunTimeout    time.Duration
	IngestWorkers       int

	SchedulerEnabled      bool
	ScheduleLeaguesAt     string
	ScheduleFixturesAt    string
	ScheduleLiveInterval  time.Duration
	SchedulerLockRedisURL string
	SchedulerLockTTL      time.Duration

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "sports-data-service"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:               getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:               parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:                  strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:       strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		APIFootballBaseURL:     strings.TrimSpace(getEnv("API_FOOTBALL_BASE_URL", "https://v3.football.api-sports.io")),
		APIFootballHost:        strings.TrimSpace(getEnv("API_FOOTBALL_HOST", "v3.football.api-sports.io")),
		APIFootballKey:         strings.TrimSpace(getEnv("API_FOOTBALL_KEY", "")),
		ScheduleLeaguesAt:      strings.TrimSpace(getEnv("SCHEDULE_LEAGUES_AT", "01:00")),
		ScheduleFixturesAt:     strings.TrimSpace(getEnv("SCHEDULE_FIXTURES_AT", "02:00")),
		SchedulerLockRedisURL:  strings.TrimSpace(getEnv("SCHEDULER_LOCK_REDIS_URL", "")),
		PyroscopeServerAddress: strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),

		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}

	if cfg.ReadTimeout, err = time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	if cfg.WriteTimeout, err = time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if err := loadStore(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadAPIFootball(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadIngestion(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadScheduler(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStore(cfg *Config) error {
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreDriverPostgres)))
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	disablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = disablePreparedBinary

	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	if cfg.DBMaxIdleConns, err = getEnvAsInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return fmt.Errorf("parse DB_MAX_IDLE_CONNS: %w", err)
	}
	if cfg.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be >= 0")
	}

	return nil
}

func loadAPIFootball(cfg *Config) error {
	var err error
	if cfg.APIFootballTimeout, err = time.ParseDuration(getEnv("API_FOOTBALL_TIMEOUT", "20s")); err != nil {
		return fmt.Errorf("parse API_FOOTBALL_TIMEOUT: %w", err)
	}
	if cfg.APIFootballTimeout <= 0 {
		return fmt.Errorf("API_FOOTBALL_TIMEOUT must be > 0")
	}
	if cfg.APIFootballMaxRetries, err = getEnvAsInt("API_FOOTBALL_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse API_FOOTBALL_MAX_RETRIES: %w", err)
	}
	if cfg.APIFootballMaxRetries < 0 {
		return fmt.Errorf("API_FOOTBALL_MAX_RETRIES must be >= 0")
	}
	if cfg.APIFootballRetryStep, err = time.ParseDuration(getEnv("API_FOOTBALL_RETRY_STEP", "500ms")); err != nil {
		return fmt.Errorf("parse API_FOOTBALL_RETRY_STEP: %w", err)
	}
	if cfg.APIFootballRetryStep < 0 {
		return fmt.Errorf("API_FOOTBALL_RETRY_STEP must be >= 0")
	}
	if cfg.APIFootballRatePerMinute, err = getEnvAsInt("API_FOOTBALL_RATE_PER_MINUTE", 30); err != nil {
		return fmt.Errorf("parse API_FOOTBALL_RATE_PER_MINUTE: %w", err)
	}
	if cfg.APIFootballRatePerMinute < 0 {
		return fmt.Errorf("API_FOOTBALL_RATE_PER_MINUTE must be >= 0")
	}

	circuit := &cfg.APIFootballCircuit
	if circuit.Enabled, err = strconv.ParseBool(getEnv("API_FOOTBALL_CIRCUIT_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse API_FOOTBALL_CIRCUIT_ENABLED: %w", err)
	}
	if circuit.FailureThreshold, err = getEnvAsInt("API_FOOTBALL_CIRCUIT_FAILURE_THRESHOLD", 5); err != nil {
		return fmt.Errorf("parse API_FOOTBALL_CIRCUIT_FAILURE_THRESHOLD: %w", err)
	}
	if circuit.OpenTimeout, err = time.ParseDuration(getEnv("API_FOOTBALL_CIRCUIT_OPEN_TIMEOUT", "30s")); err != nil {
		return fmt.Errorf("parse API_FOOTBALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuit.HalfOpenMaxReq, err = getEnvAsInt("API_FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return fmt.Errorf("parse API_FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	return circuit.Validate("API_FOOTBALL_CIRCUIT")
}

func loadIngestion(cfg *Config) error {
	var err error
	if cfg.IngestDefaultSeason, err = getEnvAsInt("INGEST_DEFAULT_SEASON", 0); err != nil {
		return fmt.Errorf("parse INGEST_DEFAULT_SEASON: %w", err)
	}
	if cfg.IngestDefaultSeason < 0 {
		return fmt.Errorf("INGEST_DEFAULT_SEASON must be >= 0")
	}
	if cfg.IngestPacingDelay, err = time.ParseDuration(getEnv("INGEST_PACING_DELAY", "1s")); err != nil {
		return fmt.Errorf("parse INGEST_PACING_DELAY: %w", err)
	}
	if cfg.IngestPacingDelay < 0 {
		return fmt.Errorf("INGEST_PACING_DELAY must be >= 0")
	}
	if cfg.IngestRunTimeout, err = time.ParseDuration(getEnv("INGEST_RUN_TIMEOUT", "10m")); err != nil {
		return fmt.Errorf("parse INGEST_RUN_TIMEOUT: %w", err)
	}
	if cfg.IngestRunTimeout <= 0 {
		return fmt.Errorf("INGEST_RUN_TIMEOUT must be > 0")
	}
	if cfg.IngestWorkers, err = getEnvAsInt("INGEST_WORKERS", 4); err != nil {
		return fmt.Errorf("parse INGEST_WORKERS: %w", err)
	}
	if cfg.IngestWorkers <= 0 {
		return fmt.Errorf("INGEST_WORKERS must be > 0")
	}

	return nil
}

func loadScheduler(cfg *Config) error {
	var err error
	if cfg.SchedulerEnabled, err = strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse SCHEDULER_ENABLED: %w", err)
	}
	for key, value := range map[string]string{
		"SCHEDULE_LEAGUES_AT":  cfg.ScheduleLeaguesAt,
		"SCHEDULE_FIXTURES_AT": cfg.ScheduleFixturesAt,
	} {
		if !validClock(value) {
			return fmt.Errorf("invalid %s %q: expected HH:MM", key, value)
		}
	}
	if cfg.ScheduleLiveInterval, err = time.ParseDuration(getEnv("SCHEDULE_LIVE_INTERVAL", "5m")); err != nil {
		return fmt.Errorf("parse SCHEDULE_LIVE_INTERVAL: %w", err)
	}
	if cfg.ScheduleLiveInterval <= 0 {
		return fmt.Errorf("SCHEDULE_LIVE_INTERVAL must be > 0")
	}
	if cfg.SchedulerLockTTL, err = time.ParseDuration(getEnv("SCHEDULER_LOCK_TTL", "10m")); err != nil {
		return fmt.Errorf("parse SCHEDULER_LOCK_TTL: %w", err)
	}
	if cfg.SchedulerLockTTL <= 0 {
		return fmt.Errorf("SCHEDULER_LOCK_TTL must be > 0")
	}

	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if cfg.PyroscopeUploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// validClock accepts 24h wall clock values such as "01:00" or "23:59".
func validClock(v string) bool {
	hh, mm, ok := strings.Cut(v, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return false
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return false
	}
	return true
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
