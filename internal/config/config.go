package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config collects everything main needs from the environment.
type Config struct {
	Port      string
	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	RedisAddr string
	JWTSecret string

	// Delivery progression windows: confirmed orders move to shipping
	// after ShipAfter and to completed after CompleteAfter.
	SchedulerTick time.Duration
	ShipAfter     time.Duration
	CompleteAfter time.Duration
}

func Load() Config {
	return Config{
		Port:          getenv("PORT", "8082"),
		DBHost:        getenv("DB_HOST", "127.0.0.1"),
		DBPort:        getenv("DB_PORT", "3306"),
		DBUser:        getenv("DB_USER", "root"),
		DBPass:        os.Getenv("DB_PASS"),
		DBName:        getenv("DB_NAME", "shop"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:     getenv("JWT_SECRET", "secret"),
		SchedulerTick: getenvDuration("SCHEDULER_TICK_SECONDS", time.Second),
		ShipAfter:     getenvDuration("SHIP_AFTER_SECONDS", 5*time.Second),
		CompleteAfter: getenvDuration("COMPLETE_AFTER_SECONDS", 15*time.Second),
	}
}

// DSN builds the MySQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
