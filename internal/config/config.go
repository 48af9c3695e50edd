package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Configuration carries everything the server binary needs to wire itself.
// Values come from the environment, optionally seeded from a .env file.
type Configuration struct {
	ListenAddress  string
	DatabasePath   string
	CustodyAccount string
	LogFile        string
	ErrorFile      string
	LogLevel       string
	LogConsole     bool
	Ephemeral      bool
}

func Load() Configuration {
	// A missing .env file is fine, the environment may already be populated.
	_ = godotenv.Load()

	return Configuration{
		ListenAddress:  getEnv("LISTEN_ADDRESS", ":8080"),
		DatabasePath:   getEnv("DATABASE_PATH", "persistent.db"),
		CustodyAccount: getEnv("CUSTODY_ACCOUNT", "custody"),
		LogFile:        os.Getenv("LOG_FILE"),
		ErrorFile:      os.Getenv("ERROR_FILE"),
		LogLevel:       getEnv("LOG_LEVEL", "debug"),
		LogConsole:     getEnv("LOG_CONSOLE", "true") == "true",
		Ephemeral:      os.Getenv("EPHEMERAL_STORAGE") == "true",
	}
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
