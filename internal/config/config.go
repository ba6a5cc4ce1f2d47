package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	DynamoDB  DynamoDBConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	JWT       JWTConfig
	OTP       OTPConfig
	Lockout   LockoutConfig
	RateLimit RateLimitConfig
	SMS       SMSConfig
	Media     MediaConfig
	Events    EventsConfig
	CORS      CORSConfig
	LogLevel  string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DynamoDBConfig struct {
	Endpoint  string
	Region    string
	TableName string
}

type RedisConfig struct {
	Endpoint string
	Password string
	DB       int
}

type PostgresConfig struct {
	DSN         string
	AutoMigrate bool
}

type JWTConfig struct {
	SecretKey     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// OTPConfig controls one-time code issuance. MessageTemplate must contain
// the {otp} placeholder.
type OTPConfig struct {
	Length          int
	Expiry          time.Duration
	Retention       time.Duration
	HashCost        int
	MessageTemplate string
}

// LockoutConfig bounds password logins: MaxAttempts failures inside Window
// lock the account until the oldest of them leaves the window.
type LockoutConfig struct {
	MaxAttempts int
	Window      time.Duration
	Retention   time.Duration
}

type RateLimitConfig struct {
	OTPRequests int
	OTPWindow   time.Duration
}

type SMSConfig struct {
	Provider   string
	AccountSID string
	AuthToken  string
	From       string
}

type MediaConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	MaxImageBytes int64
}

type EventsConfig struct {
	NATSURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		DynamoDB: DynamoDBConfig{
			Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
			Region:    getEnv("DYNAMODB_REGION", "ap-south-1"),
			TableName: getEnv("DYNAMODB_TABLE_NAME", "DsahebAuth"),
		},
		Redis: RedisConfig{
			Endpoint: getEnv("REDIS_ENDPOINT", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			DSN:         getEnv("DATABASE_URL", "host=localhost user=postgres dbname=dsaheb port=5432 sslmode=disable"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			SecretKey:     getEnv("JWT_SECRET_KEY", ""),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		OTP: OTPConfig{
			Length:          getEnvAsInt("OTP_LENGTH", 6),
			Expiry:          getEnvAsDuration("OTP_EXPIRY", 5*time.Minute),
			Retention:       getEnvAsDuration("OTP_RETENTION", 24*time.Hour),
			HashCost:        getEnvAsInt("OTP_HASH_COST", 10),
			MessageTemplate: getEnv("OTP_MESSAGE_TEMPLATE", "Your login OTP for Dsaheb is : {otp} is valid for 5 minutes. Team Dsaheb"),
		},
		Lockout: LockoutConfig{
			MaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			Window:      getEnvAsDuration("LOGIN_LOCKOUT_WINDOW", 30*time.Minute),
			Retention:   getEnvAsDuration("LOGIN_ATTEMPT_RETENTION", 30*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			OTPRequests: getEnvAsInt("OTP_RATE_LIMIT", 3),
			OTPWindow:   getEnvAsDuration("OTP_RATE_WINDOW", time.Minute),
		},
		SMS: SMSConfig{
			Provider:   getEnv("SMS_PROVIDER", "log"),
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			From:       getEnv("TWILIO_FROM_NUMBER", ""),
		},
		Media: MediaConfig{
			Bucket:        getEnv("MEDIA_BUCKET", "dsaheb-media"),
			Region:        getEnv("MEDIA_REGION", "ap-south-1"),
			Endpoint:      getEnv("MEDIA_ENDPOINT", ""),
			PublicBaseURL: getEnv("MEDIA_PUBLIC_BASE_URL", ""),
			MaxImageBytes: int64(getEnvAsInt("MEDIA_MAX_IMAGE_BYTES", 2*1024*1024)),
		},
		Events: EventsConfig{
			NATSURL: getEnv("NATS_URL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	if len(cfg.JWT.SecretKey) < 32 {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be at least 32 bytes (256 bits)")
	}

	if !strings.Contains(cfg.OTP.MessageTemplate, "{otp}") {
		return nil, fmt.Errorf("OTP_MESSAGE_TEMPLATE must contain the {otp} placeholder")
	}

	if cfg.OTP.Length <= 0 {
		return nil, fmt.Errorf("OTP_LENGTH must be positive")
	}

	if cfg.OTP.Expiry <= 0 {
		return nil, fmt.Errorf("OTP_EXPIRY must be positive")
	}

	if cfg.RateLimit.OTPRequests <= 0 || cfg.RateLimit.OTPWindow <= 0 {
		return nil, fmt.Errorf("OTP_RATE_LIMIT and OTP_RATE_WINDOW must be positive")
	}

	if cfg.Lockout.MaxAttempts <= 0 || cfg.Lockout.Window <= 0 {
		return nil, fmt.Errorf("LOGIN_MAX_ATTEMPTS and LOGIN_LOCKOUT_WINDOW must be positive")
	}

	if cfg.SMS.Provider == "twilio" && (cfg.SMS.AccountSID == "" || cfg.SMS.AuthToken == "" || cfg.SMS.From == "") {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required when SMS_PROVIDER=twilio")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
