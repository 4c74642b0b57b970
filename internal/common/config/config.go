package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Gateway       GatewayConfig
	Session       SessionConfig
	Logging       LoggingConfig
	Redis         RedisConfig
	Metrics       MetricsConfig
	Notifications NotificationConfig
}

type GatewayConfig struct {
	URL              string
	Token            string
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	MaxMessageSize   int64
	Reconnect        bool
	MaxAttempts      int
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	StableAfter      time.Duration
}

type SessionConfig struct {
	UserID string
}

type LoggingConfig struct {
	Level      string
	Format     string
	Output     string
	EnableFile bool
	FilePath   string
}

type RedisConfig struct {
	Host       string
	Port       int
	Password   string
	DB         int
	Enabled    bool
	KeyPrefix  string
	MentionTTL time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Port    int
}

type NotificationConfig struct {
	Enabled       bool
	Sound         bool
	Desktop       bool
	PerMinute     int
	Burst         int
	PreviewLength int
	// Desktop overrides the per-channel desktop budget when PerMinute is set.
	DesktopPerMinute int
	DesktopBurst     int
}

func Load() (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			URL:              getEnv("GATEWAY_URL", "ws://localhost:8080/ws"),
			Token:            getEnv("GATEWAY_TOKEN", ""),
			HandshakeTimeout: getEnvDuration("GATEWAY_HANDSHAKE_TIMEOUT", 10*time.Second),
			ReadTimeout:      getEnvDuration("GATEWAY_READ_TIMEOUT", 90*time.Second),
			PingInterval:     getEnvDuration("GATEWAY_PING_INTERVAL", 30*time.Second),
			MaxMessageSize:   int64(getEnvInt("GATEWAY_MAX_MESSAGE_SIZE", 1<<20)),
			Reconnect:        getEnvBool("GATEWAY_RECONNECT", true),
			MaxAttempts:      getEnvInt("GATEWAY_RECONNECT_ATTEMPTS", 10),
			InitialBackoff:   getEnvDuration("GATEWAY_RECONNECT_INITIAL", 500*time.Millisecond),
			MaxBackoff:       getEnvDuration("GATEWAY_RECONNECT_MAX", 30*time.Second),
			StableAfter:      getEnvDuration("GATEWAY_STABLE_AFTER", time.Minute),
		},
		Session: SessionConfig{
			UserID: getEnv("SESSION_USER_ID", ""),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "console"),
			Output:     getEnv("LOG_OUTPUT", "stderr"),
			EnableFile: getEnvBool("LOG_ENABLE_FILE", false),
			FilePath:   getEnv("LOG_FILE_PATH", "concord-client.log"),
		},
		Redis: RedisConfig{
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnvInt("REDIS_PORT", 6379),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			Enabled:    getEnvBool("REDIS_ENABLED", false),
			KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "concord-client"),
			MentionTTL: getEnvDuration("REDIS_MENTION_TTL", 7*24*time.Hour),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", false),
			Port:    getEnvInt("METRICS_PORT", 9102),
		},
		Notifications: NotificationConfig{
			Enabled:       getEnvBool("NOTIFY_ENABLED", true),
			Sound:         getEnvBool("NOTIFY_SOUND", true),
			Desktop:       getEnvBool("NOTIFY_DESKTOP", true),
			PerMinute:     getEnvInt("NOTIFY_PER_MINUTE", 30),
			Burst:         getEnvInt("NOTIFY_BURST", 5),
			PreviewLength: getEnvInt("NOTIFY_PREVIEW_LENGTH", 80),

			DesktopPerMinute: getEnvInt("NOTIFY_DESKTOP_PER_MINUTE", 0),
			DesktopBurst:     getEnvInt("NOTIFY_DESKTOP_BURST", 0),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}
