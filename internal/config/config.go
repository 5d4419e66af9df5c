package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	RatePerSecond  float64
	RateBurst      int
}

type DBConfig struct {
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr       string
	MaxRetries int
}

type KafkaConfig struct {
	Broker       string
	GroupID      string
	PollInterval time.Duration
}

// LeaveConfig overrides the built-in quota table and drives casual accrual.
// A zero value in QuotaOverrides means "keep the default".
type LeaveConfig struct {
	QuotaOverrides      map[string]int
	CasualDaysPerMonth  int
	CasualAnnualCap     int
	CasualCacheTTL      time.Duration
	CasualCacheSchedule string
}

type Config struct {
	HTTP      HTTPConfig
	DB        DBConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Leave     LeaveConfig
	JWTSecret string
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTP: HTTPConfig{
			Port:           getEnvString("PORT", "3000"),
			ReadTimeout:    getEnvDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:   getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:    getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			RatePerSecond:  getEnvFloat("RATE_LIMIT_PER_SECOND", 5),
			RateBurst:      getEnvInt("RATE_LIMIT_BURST", 10),
		},
		DB: DBConfig{
			Host:       getEnvString("DB_HOST", "localhost"),
			User:       getEnvString("DB_USER", "postgres"),
			Password:   getEnvString("DB_PASSWORD", "postgres"),
			Name:       getEnvString("DB_NAME", "go_erp"),
			Port:       getEnvString("DB_PORT", "5432"),
			SSLMode:    getEnvString("DB_SSLMODE", "disable"),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		},
		Redis: RedisConfig{
			Addr:       getEnvString("REDIS_ADDR", "localhost:6379"),
			MaxRetries: getEnvInt("REDIS_MAX_RETRIES", 5),
		},
		Kafka: KafkaConfig{
			Broker:       os.Getenv("KAFKA_BROKER"),
			GroupID:      getEnvString("KAFKA_GROUP_ID", "go-erp-leave"),
			PollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		},
		Leave: LeaveConfig{
			QuotaOverrides: map[string]int{
				"Sick":      getEnvInt("LEAVE_QUOTA_SICK", 0),
				"Paid":      getEnvInt("LEAVE_QUOTA_PAID", 0),
				"Emergency": getEnvInt("LEAVE_QUOTA_EMERGENCY", 0),
				"Exam":      getEnvInt("LEAVE_QUOTA_EXAM", 0),
				"Other":     getEnvInt("LEAVE_QUOTA_OTHER", 0),
			},
			CasualDaysPerMonth:  getEnvInt("LEAVE_CASUAL_DAYS_PER_MONTH", 1),
			CasualAnnualCap:     getEnvInt("LEAVE_CASUAL_ANNUAL_CAP", 12),
			CasualCacheTTL:      getEnvDuration("LEAVE_CASUAL_CACHE_TTL", time.Hour),
			CasualCacheSchedule: getEnvString("LEAVE_CASUAL_CACHE_SCHEDULE", "0 0 1 * *"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	return cfg, nil
}

// RequireJWTSecret is checked by processes that authenticate requests.
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// RequireKafka is checked by the outbox worker and the consumer.
func (c Config) RequireKafka() error {
	if c.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
