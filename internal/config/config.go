package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StrategyLocal = "local"
	StrategyRange = "range"
)

// Config carries the environment-level defaults. Flags always win over
// these values.
type Config struct {
	Strategy   string
	Quality    string
	ScratchDir string
	Pacing     bool
	HistoryDB  string
	YTDLPBin   string
	FFmpegBin  string
}

// Load reads defaults from the environment, letting a local .env file
// feed it first. A missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Strategy:   getenvDefault("CLIPBATCH_STRATEGY", StrategyRange),
		Quality:    getenvDefault("CLIPBATCH_QUALITY", "best"),
		ScratchDir: os.Getenv("CLIPBATCH_SCRATCH_DIR"),
		Pacing:     getenvBool("CLIPBATCH_PACING", true),
		HistoryDB:  os.Getenv("CLIPBATCH_HISTORY_DB"),
		YTDLPBin:   os.Getenv("CLIPBATCH_YTDLP"),
		FFmpegBin:  os.Getenv("CLIPBATCH_FFMPEG"),
	}
}

func (c Config) Validate() error {
	if !IsKnownStrategy(c.Strategy) {
		return fmt.Errorf("invalid strategy %q (expected %s or %s)", c.Strategy, StrategyLocal, StrategyRange)
	}
	return nil
}

func IsKnownStrategy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case StrategyLocal, StrategyRange:
		return true
	default:
		return false
	}
}

func getenvDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
