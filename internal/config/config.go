package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the settings service.
type Config struct {
	HTTPPort       string
	JWTSecret      []byte
	AdminTokenHash string // bcrypt hash of the admin access token
	EncryptionKey  string // base64 AES key for apiKey-at-rest, optional

	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Dev      DevConfig
	Audit    AuditConfig
}

// DatabaseConfig holds preference database connection settings. An empty URL
// means the structured preference capability is absent on this host.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds fallback key-value store connection settings. An empty
// address disables the fallback source.
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CacheConfig tunes the preference read-through cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DevConfig gates development-only behavior. Enabled is an explicit switch;
// it is never inferred from the absence of configuration.
type DevConfig struct {
	Enabled      bool
	MockProvider string // provider type hint for the mock catalog
}

// AuditConfig holds configuration for the S3 resolution-audit sink.
type AuditConfig struct {
	Enabled       bool
	S3Bucket      string
	S3Region      string
	S3Prefix      string
	InstanceName  string
	BufferSize    int
	FlushSize     int
	FlushInterval time.Duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return duration
}

// Load reads configuration from environment variables. Both backing stores
// are optional: the service resolves to the built-in provider when neither is
// reachable.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnvString("HTTP_PORT", "8080"),
		JWTSecret:      []byte(getEnvString("JWT_SECRET", "supersecretkey")),
		AdminTokenHash: getEnvString("ADMIN_TOKEN_HASH", ""),
		EncryptionKey:  getEnvString("SETTINGS_ENCRYPTION_KEY", ""),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", "localhost:6379"),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 5),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 1),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Cache: CacheConfig{
			Size: getEnvInt("PREFERENCE_CACHE_SIZE", 16),
			TTL:  getEnvDuration("PREFERENCE_CACHE_TTL", 5*time.Second),
		},
		Dev: DevConfig{
			Enabled:      getEnvBool("BROWSEROS_DEV_MODE", false),
			MockProvider: getEnvString("BROWSEROS_MOCK_PROVIDER", ""),
		},
		Audit: AuditConfig{
			Enabled:       getEnvBool("AUDIT_SINK_ENABLED", false),
			S3Bucket:      getEnvString("AUDIT_SINK_S3_BUCKET", ""),
			S3Region:      getEnvString("AUDIT_SINK_S3_REGION", "us-east-1"),
			S3Prefix:      getEnvString("AUDIT_SINK_S3_PREFIX", "audit/"),
			InstanceName:  getEnvString("INSTANCE_NAME", "settings-0"),
			BufferSize:    getEnvInt("AUDIT_SINK_BUFFER_SIZE", 1000),
			FlushSize:     getEnvInt("AUDIT_SINK_FLUSH_SIZE", 100),
			FlushInterval: getEnvDuration("AUDIT_SINK_FLUSH_INTERVAL", time.Minute),
		},
	}

	return cfg, nil
}
