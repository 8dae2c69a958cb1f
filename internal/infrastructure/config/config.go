package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	QuestionsPath string // category-keyed question document
	DBPath        string // sqlite attempt store
	HistoryDir    string // directory for the local history file

	// Questions sampled per category when a quiz request names no counts.
	SamplePerCategory int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:     mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:   mustGetDuration("SHUTDOWN_TIMEOUT"),
		QuestionsPath:     getenvDefault("QUESTIONS_PATH", "questions.json"),
		DBPath:            getenvDefault("DB_PATH", "samplex.db"),
		HistoryDir:        getenvDefault("HISTORY_DIR", "."),
		SamplePerCategory: getenvInt("SAMPLE_PER_CATEGORY", 3),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not an integer: %v", k, v, err)
	}
	return n
}
