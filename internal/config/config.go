package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string

	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	CacheTTL                time.Duration

	DraftDefaultRounds   int
	DraftUpcomingWindow  int
	DraftDriverCap       int
	DraftConstructorCap  int
	DraftAutoAdvanceBots bool

	AnubisBaseURL               string
	AnubisIntrospectPath        string
	AnubisAdminKey              string
	AnubisTimeout               time.Duration
	AnubisCacheTTL              time.Duration
	AnubisCircuitEnabled        bool
	AnubisCircuitFailureCount   int
	AnubisCircuitOpenTimeout    time.Duration
	AnubisCircuitHalfOpenMaxReq int
	AdminUserIDs                []string
	InternalJobToken            string

	ErgastBaseURL               string
	ErgastTimeout               time.Duration
	ErgastMaxRetries            int
	ErgastPageSize              int
	ErgastCircuitEnabled        bool
	ErgastCircuitFailureCount   int
	ErgastCircuitOpenTimeout    time.Duration
	ErgastCircuitHalfOpenMaxReq int
	SeasonYear                  int
	SeasonSyncInterval          time.Duration
	SeasonSyncWorkers           int

	NATSEnabled       bool
	NATSURL           string
	NATSStream        string
	NATSSubjectPrefix string

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	MetricsEnabled             bool
}

func Load() (Config, error) {
	var cfg Config
	var err error

	if cfg.AppEnv, err = parseAppEnv(getEnv("APP_ENV", EnvDev)); err != nil {
		return Config{}, err
	}
	cfg.ServiceName = strings.TrimSpace(getEnv("APP_SERVICE_NAME", "f1-fantasy-api"))
	cfg.ServiceVersion = strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev"))
	cfg.HTTPAddr = strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080"))
	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadDraft(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadAuth(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadIngestion(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadMessaging(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStorage(cfg *Config) error {
	var err error

	defaultDriver := StoragePostgres
	if cfg.AppEnv == EnvDev {
		defaultDriver = StorageMemory
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", defaultDriver)))
	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if cfg.StorageDriver == StoragePostgres && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", false); err != nil {
		return err
	}
	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "5m"); err != nil {
		return err
	}
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must be >= 0")
	}
	return nil
}

func loadDraft(cfg *Config) error {
	var err error

	if cfg.DraftDefaultRounds, err = getEnvAsPositiveInt("DRAFT_DEFAULT_ROUNDS", 4); err != nil {
		return err
	}
	if cfg.DraftUpcomingWindow, err = getEnvAsPositiveInt("DRAFT_UPCOMING_WINDOW", 6); err != nil {
		return err
	}
	if cfg.DraftDriverCap, err = getEnvAsPositiveInt("DRAFT_DRIVER_CAP", 3); err != nil {
		return err
	}
	if cfg.DraftConstructorCap, err = getEnvAsPositiveInt("DRAFT_CONSTRUCTOR_CAP", 1); err != nil {
		return err
	}
	if cfg.DraftAutoAdvanceBots, err = getEnvAsBool("DRAFT_AUTO_ADVANCE_BOTS", true); err != nil {
		return err
	}
	return nil
}

func loadAuth(cfg *Config) error {
	var err error

	cfg.AnubisBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("ANUBIS_BASE_URL", "http://localhost:8081")), "/")
	cfg.AnubisIntrospectPath = strings.TrimSpace(getEnv("ANUBIS_INTROSPECT_PATH", "/v1/auth/introspect"))
	if !strings.HasPrefix(cfg.AnubisIntrospectPath, "/") {
		cfg.AnubisIntrospectPath = "/" + cfg.AnubisIntrospectPath
	}
	cfg.AnubisAdminKey = strings.TrimSpace(getEnv("ANUBIS_ADMIN_KEY", ""))
	if cfg.AnubisTimeout, err = getEnvAsPositiveDuration("ANUBIS_TIMEOUT", "3s"); err != nil {
		return err
	}
	if cfg.AnubisCacheTTL, err = getEnvAsDuration("ANUBIS_CACHE_TTL", "30s"); err != nil {
		return err
	}
	if cfg.AnubisCircuitEnabled, err = getEnvAsBool("ANUBIS_CIRCUIT_ENABLED", true); err != nil {
		return err
	}
	if cfg.AnubisCircuitFailureCount, err = getEnvAsPositiveInt("ANUBIS_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return err
	}
	if cfg.AnubisCircuitOpenTimeout, err = getEnvAsPositiveDuration("ANUBIS_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return err
	}
	if cfg.AnubisCircuitHalfOpenMaxReq, err = getEnvAsPositiveInt("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return err
	}

	cfg.AdminUserIDs = splitCSV(getEnv("ADMIN_USER_IDS", ""))
	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	return nil
}

func loadIngestion(cfg *Config) error {
	var err error

	cfg.ErgastBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("ERGAST_BASE_URL", "https://api.jolpi.ca/ergast/f1")), "/")
	if cfg.ErgastTimeout, err = getEnvAsPositiveDuration("ERGAST_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.ErgastMaxRetries, err = getEnvAsInt("ERGAST_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse ERGAST_MAX_RETRIES: %w", err)
	}
	if cfg.ErgastMaxRetries < 0 {
		return fmt.Errorf("ERGAST_MAX_RETRIES must be >= 0")
	}
	if cfg.ErgastPageSize, err = getEnvAsPositiveInt("ERGAST_PAGE_SIZE", 100); err != nil {
		return err
	}
	if cfg.ErgastCircuitEnabled, err = getEnvAsBool("ERGAST_CIRCUIT_ENABLED", true); err != nil {
		return err
	}
	if cfg.ErgastCircuitFailureCount, err = getEnvAsPositiveInt("ERGAST_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return err
	}
	if cfg.ErgastCircuitOpenTimeout, err = getEnvAsPositiveDuration("ERGAST_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return err
	}
	if cfg.ErgastCircuitHalfOpenMaxReq, err = getEnvAsPositiveInt("ERGAST_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return err
	}

	if cfg.SeasonYear, err = getEnvAsInt("SEASON_YEAR", 0); err != nil {
		return fmt.Errorf("parse SEASON_YEAR: %w", err)
	}
	if cfg.SeasonYear != 0 && cfg.SeasonYear < 1950 {
		return fmt.Errorf("SEASON_YEAR must be >= 1950")
	}
	if cfg.SeasonSyncInterval, err = getEnvAsDuration("SEASON_SYNC_INTERVAL", "0s"); err != nil {
		return err
	}
	if cfg.SeasonSyncInterval < 0 {
		return fmt.Errorf("SEASON_SYNC_INTERVAL must be >= 0")
	}
	if cfg.SeasonSyncWorkers, err = getEnvAsPositiveInt("SEASON_SYNC_WORKERS", 3); err != nil {
		return err
	}
	return nil
}

func loadMessaging(cfg *Config) error {
	var err error

	if cfg.NATSEnabled, err = getEnvAsBool("NATS_ENABLED", false); err != nil {
		return err
	}
	cfg.NATSURL = strings.TrimSpace(getEnv("NATS_URL", "nats://127.0.0.1:4222"))
	cfg.NATSStream = strings.TrimSpace(getEnv("NATS_STREAM", "DRAFT_EVENTS"))
	cfg.NATSSubjectPrefix = strings.TrimSpace(getEnv("NATS_SUBJECT_PREFIX", "draft.events"))
	if cfg.NATSEnabled && cfg.NATSURL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", true); err != nil {
		return err
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", true); err != nil {
		return err
	}
	return nil
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

func getEnvAsPositiveInt(key string, fallback int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := getEnvAsDuration(key, fallback)
	if err != nil {
		return 0, err
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
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

// parseUptraceDSNFromOTLPHeaders reads uptrace-dsn=... out of the standard
// OTLP headers variable.
func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
