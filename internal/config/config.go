package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/statuswatch/statuswatch/internal/domain"
)

// DefaultCadence applies to monitor definitions that omit one.
const DefaultCadence = "*/5 * * * *"

type Config struct {
	Addr              string        // API bind address
	LogDir            string        // logs directory
	MonitorsFile      string        // YAML monitor definitions
	HTTPTimeout       time.Duration // per-probe timeout
	RetryAttempts     int           // probe attempts per check (1 = no retry)
	RetryBackoff      time.Duration // backoff between retries
	StartupCheckDelay time.Duration // delay before the initial check of every monitor
	PublicRPM         int           // API rate limit, requests per minute (0 = off)
	PublicBurst       int
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	monitorsFile := os.Getenv("MONITORS_FILE")
	if monitorsFile == "" {
		monitorsFile = "monitors.yaml"
	}

	return Config{
		Addr:              addr,
		LogDir:            logDir,
		MonitorsFile:      monitorsFile,
		HTTPTimeout:       envDurationMS("HTTP_TIMEOUT_MS", 10*time.Second),
		RetryAttempts:     envInt("RETRY_ATTEMPTS", 1),
		RetryBackoff:      envDurationMS("RETRY_BACKOFF_MS", 300*time.Millisecond),
		StartupCheckDelay: envDurationMS("STARTUP_CHECK_DELAY_MS", 2*time.Second),
		PublicRPM:         envInt("PUBLIC_RPM", 0),
		PublicBurst:       envInt("PUBLIC_BURST", 0),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envDurationMS(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

type monitorsFile struct {
	Monitors []domain.Monitor `yaml:"monitors"`
}

// LoadMonitors reads monitor definitions from a YAML file. Entries without
// an id or target make the whole file invalid; callers fall back to an
// empty set so the process still starts.
func LoadMonitors(path string) ([]domain.Monitor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f monitorsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]domain.Monitor, 0, len(f.Monitors))
	for i, m := range f.Monitors {
		if m.ID == "" || m.Target == "" {
			return nil, fmt.Errorf("%s: monitor %d: id and target are required", path, i)
		}
		if m.Name == "" {
			m.Name = string(m.ID)
		}
		if m.Cadence == "" {
			m.Cadence = DefaultCadence
		}
		out = append(out, m)
	}
	return out, nil
}
