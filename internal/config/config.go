package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	HTTPAddr      string
	MySQLDSN      string
	RedisAddr     string
	RedisPassword string

	JWTSecret     string
	TokenLifetime time.Duration
	BcryptCost    int

	AdminEmail    string
	AdminPassword string

	LowStockThreshold int
}

// Load reads the environment, after loading a .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:      getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/stockpoint?parseTime=true"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:     getEnv("JWT_SECRET", "stockpoint-dev-secret"),
		TokenLifetime: time.Hour * time.Duration(getEnvInt("TOKEN_HOUR_LIFESPAN", 24)),
		BcryptCost:    getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@stockpoint.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
