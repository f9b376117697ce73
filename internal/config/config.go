package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	// MariaDB connection settings
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server settings
	ServerHost string
	ServerPort string
	Env        string

	// CORS settings
	AllowedOrigins []string

	// Realtime settings
	NotificationCap int
	ReconnectDelay  time.Duration
}

// Load loads configuration from environment variables
func Load() Config {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "3306"
	}

	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8000"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	// Visible notification cap; the menu shows at most this many entries.
	notificationCap := 5
	if v := os.Getenv("NOTIFICATION_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			notificationCap = n
		}
	}

	reconnectDelay := 3 * time.Second
	if v := os.Getenv("RECONNECT_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			reconnectDelay = time.Duration(ms) * time.Millisecond
		}
	}

	cfg := Config{
		DBHost:          dbHost,
		DBPort:          dbPort,
		DBUser:          dbUser,
		DBPassword:      dbPassword,
		DBName:          dbName,
		ServerHost:      serverHost,
		ServerPort:      serverPort,
		Env:             env,
		AllowedOrigins:  strings.Split(allowedOrigins, ","),
		NotificationCap: notificationCap,
		ReconnectDelay:  reconnectDelay,
	}

	for i := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(cfg.AllowedOrigins[i])
	}

	return cfg
}

// ServerAddr returns the host:port the realtime client dials.
func (c Config) ServerAddr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}
