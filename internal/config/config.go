package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// EnableJournal persists scoring events and the final result to the DB.
	EnableJournal bool

	AssetBasePath string

	CORSOrigins []string

	TeamNameBlack  string
	TeamNameYellow string

	// Sensor bridge.
	EnableSensors      bool
	Pico1Port          string
	Pico2Port          string
	DropThresholdMM    int
	VeryCloseMM        int
	DebounceMS         int
	CalibrationSamples int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":5000"
	}
	return Config{
		HTTPAddr:       addr,
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		EnableJournal:  envBool("ENABLE_JOURNAL", true),
		AssetBasePath:  envOr("ASSET_BASE_PATH", "./assets"),
		CORSOrigins:    csvOr("CORS_ORIGINS", "*"),
		TeamNameBlack:  envOr("TEAM_NAME_BLACK", "BLACK TEAM"),
		TeamNameYellow: envOr("TEAM_NAME_YELLOW", "YELLOW TEAM"),

		EnableSensors:      envBool("ENABLE_SENSORS", false),
		Pico1Port:          envOr("PICO1_PORT", "/tmp/pico1_serial"),
		Pico2Port:          envOr("PICO2_PORT", "/tmp/pico2_serial"),
		DropThresholdMM:    envInt("DROP_THRESHOLD_MM", 500),
		VeryCloseMM:        envInt("VERY_CLOSE_MM", 300),
		DebounceMS:         envInt("DEBOUNCE_MS", 1000),
		CalibrationSamples: envInt("CALIBRATION_SAMPLES", 10),
	}
}

func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
