package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	RandomSeed       int64
	WorkerCount      int
	QueueSize        int
	SnapshotInterval time.Duration
	ActiveSet        string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", "127.0.0.1:8080"),
		DBPath:           envOr("DB_PATH", DefaultDBPath()),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		RandomSeed:       int64(envIntOr("RANDOM_SEED", 0)),
		WorkerCount:      envIntOr("WORKER_COUNT", 2),
		QueueSize:        envIntOr("QUEUE_SIZE", 32),
		SnapshotInterval: envDurationOr("SNAPSHOT_INTERVAL", 24*time.Hour),
		ActiveSet:        envOr("ACTIVE_SET", "default"),
	}
}

// DefaultDBPath returns $XDG_DATA_HOME/klar/klar.db, falling back to
// ~/.local/share/klar/klar.db and finally to ./klar.db.
func DefaultDBPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "klar", "klar.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "klar", "klar.db")
	}
	return "klar.db"
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.WorkerCount)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("QUEUE_SIZE must be at least 1, got %d", c.QueueSize)
	}
	if c.SnapshotInterval < 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL cannot be negative, got %s", c.SnapshotInterval)
	}
	if c.SnapshotInterval > 0 && c.SnapshotInterval < time.Minute {
		return fmt.Errorf("SNAPSHOT_INTERVAL must be 0 or at least 1m, got %s", c.SnapshotInterval)
	}
	if strings.TrimSpace(c.ActiveSet) == "" {
		return fmt.Errorf("ACTIVE_SET cannot be empty")
	}
	return nil
}

// EnsureDBDir creates the parent directory of a file-backed DBPath.
func (c Config) EnsureDBDir() error {
	if c.DBPath == ":memory:" || strings.HasPrefix(c.DBPath, "file:") {
		return nil
	}
	dir := filepath.Dir(c.DBPath)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if v == "0" {
			return 0
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
