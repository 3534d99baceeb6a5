package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	LogLevel string
	// LogFormat is "json" or "console".
	LogFormat string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	JWTSecret    string
	JWTIssuer    string
	AuthDisabled bool

	ForecastEngineURL      string
	ForecastConnectTimeout time.Duration
	ForecastReadTimeout    time.Duration

	WeatherAPIURL         string
	WeatherAPIKey         string
	WeatherConnectTimeout time.Duration
	WeatherReadTimeout    time.Duration

	BlobDriver    string
	BlobLocalPath string
	BlobBaseURL   string
	S3Bucket      string
	AWSRegion     string

	PriceImportAllowedDomains []string
	PriceImportMaxBytes       int
	PriceImportTimeout        time.Duration

	CORSOrigins []string
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function; unset or malformed
// values fall back to their defaults.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		if v, err := strconv.Atoi(get(k, "")); err == nil && v > 0 {
			return v
		}
		return def
	}
	getMillis := func(k string, def int) time.Duration {
		return time.Duration(getInt(k, def)) * time.Millisecond
	}
	getList := func(k string) []string {
		var out []string
		for _, s := range strings.Split(get(k, ""), ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	cfg := AppConfig{
		Port:      get("PORT", "8080"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "json"),

		DBDriver:    strings.ToLower(get("DB_DRIVER", "sqlite")),
		DBPath:      get("DB_PATH", "agri.db"),
		DatabaseURL: get("DATABASE_URL", ""),

		JWTSecret:    get("JWT_SECRET", ""),
		JWTIssuer:    get("JWT_ISSUER", "agri"),
		AuthDisabled: get("AUTH_DISABLED", "false") == "true",

		ForecastEngineURL:      get("FORECAST_ENGINE_URL", ""),
		ForecastConnectTimeout: getMillis("FORECAST_CONNECT_TIMEOUT_MS", 3000),
		ForecastReadTimeout:    getMillis("FORECAST_READ_TIMEOUT_MS", 30000),

		WeatherAPIURL:         get("WEATHER_API_URL", ""),
		WeatherAPIKey:         get("WEATHER_API_KEY", ""),
		WeatherConnectTimeout: getMillis("WEATHER_CONNECT_TIMEOUT_MS", 2000),
		WeatherReadTimeout:    getMillis("WEATHER_READ_TIMEOUT_MS", 5000),

		BlobDriver:    strings.ToLower(get("BLOB_DRIVER", "local")),
		BlobLocalPath: get("BLOB_LOCAL_PATH", "storage/blobs"),
		BlobBaseURL:   get("BLOB_BASE_URL", "/files"),
		S3Bucket:      get("S3_BUCKET", ""),
		AWSRegion:     get("AWS_REGION", "ap-southeast-1"),

		PriceImportAllowedDomains: lower(getList("PRICE_IMPORT_ALLOWED_DOMAINS")),
		PriceImportMaxBytes:       getInt("PRICE_IMPORT_MAX_BYTES", 1500000),
		PriceImportTimeout:        getMillis("PRICE_IMPORT_TIMEOUT_MS", 20000),

		CORSOrigins: getList("CORS_ORIGINS"),
	}
	log.Printf("[cfg] %s", cfg)
	return cfg
}

// String prints the effective config with secrets masked.
func (c AppConfig) String() string {
	masked := c
	masked.JWTSecret = mask(c.JWTSecret)
	masked.WeatherAPIKey = mask(c.WeatherAPIKey)
	masked.DatabaseURL = mask(c.DatabaseURL)
	type plain AppConfig
	return fmt.Sprintf("%+v", plain(masked))
}

func lower(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
