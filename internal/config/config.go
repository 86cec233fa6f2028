package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/joho/godotenv"
)

const DefaultDraftKey = "invoice-draft"

// Draft storage backends.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
	StorageLevelDB  = "leveldb"
	StorageRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// Locale overrides the process locale when set.
	Locale string

	LogLevel  string
	LogFormat string

	OtelEnabled       bool
	OTLPEndpoint      string
	OTLPProtocol      string
	OtelSamplingRatio float64

	DraftStorage string
	DraftKey     string
	DraftPath    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	storage := normalizeStorage(getenv("DRAFT_STORAGE", StorageSQLite))

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "invoicemaker"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Locale:      getenv("APP_LOCALE", ""),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getenv("LOG_FORMAT", "json")),

		// A local tool usually has no collector to talk to.
		OtelEnabled:       getenvBool("OTEL_ENABLED", false),
		OTLPEndpoint:      getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317")),
		OTLPProtocol:      strings.ToLower(getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
		OtelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),

		DraftStorage: storage,
		DraftKey:     NormalizeDraftKey(getenv("DRAFT_KEY", DefaultDraftKey)),
		DraftPath:    getenv("DRAFT_PATH", defaultDraftPath(storage)),

		DBType:            storage,
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "invoicemaker"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 5),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),
	}

	return cfg
}

// UsesSQL reports whether drafts live in a gorm-managed database.
func (c Config) UsesSQL() bool {
	switch c.DraftStorage {
	case StorageSQLite, StoragePostgres, StorageMySQL:
		return true
	default:
		return false
	}
}

func (c Config) IsDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// NormalizeDraftKey slugifies the storage key so that every backend accepts
// it unchanged. Empty keys become DefaultDraftKey.
func NormalizeDraftKey(raw string) string {
	key := slug.Make(strings.TrimSpace(raw))
	if key == "" {
		return DefaultDraftKey
	}
	return key
}

func normalizeStorage(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case StorageMemory, StorageSQLite, StoragePostgres, StorageMySQL, StorageLevelDB, StorageRedis:
		return value
	case "postgresql", "pg":
		return StoragePostgres
	default:
		return StorageSQLite
	}
}

func defaultDraftPath(storage string) string {
	switch storage {
	case StorageLevelDB:
		return "invoicemaker.ldb"
	default:
		return "invoicemaker.db"
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return parsed
}
