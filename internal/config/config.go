package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	// Backend is the system-of-record REST API the engine reconciles against.
	BackendURL   string
	BackendToken string
	CORSOrigins  string
	// MemoryBackend swaps the REST collaborators for the in-memory fake.
	// Used for local development of the UI shell without a backend.
	MemoryBackend bool
	// LogDir, when non-empty, mirrors logs into timestamped files there.
	LogDir string
	// Debug enables verbose request logging
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   env,
		BackendURL:    getEnv("BACKEND_URL", "http://localhost:9000"),
		BackendToken:  getEnv("BACKEND_TOKEN", ""),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:3000"),
		MemoryBackend: getEnv("MEMORY_BACKEND", "false") == "true",
		LogDir:        getEnv("LOG_DIR", ""),
		Debug:         getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
