package config

import "os"

// Config holds all configuration for the application.
type Config struct {
	Port          string
	BindAddr      string
	MongoURI      string
	DatabaseName  string
	AllowedOrigin string
	LogLevel      string
	LogFormat     string
}

// Load reads configuration from environment variables. MONGODB_URI is not
// required here: its absence only matters (and fails) when the database
// connection is first attempted.
func Load() *Config {
	return &Config{
		Port:          getEnvOrDefault("PORT", "5000"),
		BindAddr:      os.Getenv("BIND_ADDR"), // empty means all interfaces
		MongoURI:      os.Getenv("MONGODB_URI"),
		DatabaseName:  getEnvOrDefault("MONGODB_DB", "worktrack"),
		AllowedOrigin: getEnvOrDefault("ALLOWED_ORIGIN", "*"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
