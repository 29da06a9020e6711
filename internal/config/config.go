package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	DartBaseURL                string
	DartLeaderboardURL         string
	DartLeagueID               string
	DartVenueScheduleURL       string
	DartTimeout                time.Duration
	DartMaxRetries             int
	DartRequestsPerMinute      int
	DartCircuitEnabled         bool
	DartCircuitFailureCount    int
	DartCircuitOpenTimeout     time.Duration
	DartCircuitHalfOpenMaxReq  int
	ScrapeMaxWorkers           int
	ScrapeSeasonWorkers        int
	ScrapeCron                 string
	ScrapeCronTimezone         string
	ScrapeRunTimeout           time.Duration
	InternalJobToken           string
	LogLevel                   logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	dartBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("DART_BASE_URL", "https://tv.dartconnect.com")), "/")
	dartLeagueID := strings.TrimSpace(getEnv("DART_LEAGUE_ID", ""))
	dartTimeout, err := time.ParseDuration(getEnv("DART_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DART_TIMEOUT: %w", err)
	}
	if dartTimeout <= 0 {
		return Config{}, fmt.Errorf("DART_TIMEOUT must be > 0")
	}
	dartMaxRetries, err := getEnvAsInt("DART_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse DART_MAX_RETRIES: %w", err)
	}
	if dartMaxRetries < 0 {
		return Config{}, fmt.Errorf("DART_MAX_RETRIES must be >= 0")
	}
	dartRequestsPerMinute, err := getEnvAsInt("DART_REQUESTS_PER_MINUTE", 240)
	if err != nil {
		return Config{}, fmt.Errorf("parse DART_REQUESTS_PER_MINUTE: %w", err)
	}
	if dartRequestsPerMinute < 0 {
		return Config{}, fmt.Errorf("DART_REQUESTS_PER_MINUTE must be >= 0")
	}
	dartCircuitEnabled, err := strconv.ParseBool(getEnv("DART_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DART_CIRCUIT_ENABLED: %w", err)
	}
	dartCircuitFailureCount, err := getEnvAsInt("DART_CIRCUIT_FAILURE_COUNT", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse DART_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if dartCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("DART_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	dartCircuitOpenTimeout, err := time.ParseDuration(getEnv("DART_CIRCUIT_OPEN_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DART_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if dartCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("DART_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	dartCircuitHalfOpenMaxReq, err := getEnvAsInt("DART_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse DART_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if dartCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("DART_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	scrapeMaxWorkers, err := getEnvAsInt("SCRAPE_MAX_WORKERS", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_MAX_WORKERS: %w", err)
	}
	if scrapeMaxWorkers < 1 {
		return Config{}, fmt.Errorf("SCRAPE_MAX_WORKERS must be >= 1")
	}
	scrapeSeasonWorkers, err := getEnvAsInt("SCRAPE_SEASON_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_SEASON_WORKERS: %w", err)
	}
	if scrapeSeasonWorkers < 1 {
		return Config{}, fmt.Errorf("SCRAPE_SEASON_WORKERS must be >= 1")
	}
	scrapeRunTimeout, err := time.ParseDuration(getEnv("SCRAPE_RUN_TIMEOUT", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_RUN_TIMEOUT: %w", err)
	}
	if scrapeRunTimeout <= 0 {
		return Config{}, fmt.Errorf("SCRAPE_RUN_TIMEOUT must be > 0")
	}
	scrapeCronTimezone := strings.TrimSpace(getEnv("SCRAPE_CRON_TIMEZONE", "UTC"))
	if _, err := time.LoadLocation(scrapeCronTimezone); err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_CRON_TIMEZONE: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "dart-league-stats"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		DartBaseURL:                dartBaseURL,
		DartLeaderboardURL:         strings.TrimSpace(getEnv("DART_LEADERBOARD_URL", dartBaseURL+"/api/leaderboard")),
		DartLeagueID:               dartLeagueID,
		DartVenueScheduleURL:       strings.TrimSpace(getEnv("DART_VENUE_SCHEDULE_URL", "")),
		DartTimeout:                dartTimeout,
		DartMaxRetries:             dartMaxRetries,
		DartRequestsPerMinute:      dartRequestsPerMinute,
		DartCircuitEnabled:         dartCircuitEnabled,
		DartCircuitFailureCount:    dartCircuitFailureCount,
		DartCircuitOpenTimeout:     dartCircuitOpenTimeout,
		DartCircuitHalfOpenMaxReq:  dartCircuitHalfOpenMaxReq,
		ScrapeMaxWorkers:           scrapeMaxWorkers,
		ScrapeSeasonWorkers:        scrapeSeasonWorkers,
		ScrapeCron:                 strings.TrimSpace(getEnv("SCRAPE_CRON", "")),
		ScrapeCronTimezone:         scrapeCronTimezone,
		ScrapeRunTimeout:           scrapeRunTimeout,
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if appEnv == EnvProd && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=prod")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

// ScrapeEnabled reports whether enough remote settings exist to run a scrape.
func (c Config) ScrapeEnabled() bool {
	return c.DartBaseURL != "" && c.DartLeagueID != ""
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
