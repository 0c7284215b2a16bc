package config

import (
	"os"
	"time"
)

type Config struct {
	BaseURL   string
	StatePath string
	OutputDir string
	DBPath    string
	Addr      string

	// NavTimeout bounds one page navigation; SettleWait is the extra pause
	// after load so SPA listings finish rendering.
	NavTimeout time.Duration
	SettleWait time.Duration
}

func Default() Config {
	return Config{
		BaseURL:    envOr("MYREPLAYS_BASE_URL", "https://ver.meureplay.online/"),
		StatePath:  envOr("MYREPLAYS_STATE", "storage_state.json"),
		OutputDir:  envOr("MYREPLAYS_OUTPUT_DIR", "replays"),
		DBPath:     envOr("MYREPLAYS_DB_PATH", "myreplays.db"),
		Addr:       envOr("MYREPLAYS_ADDR", "127.0.0.1:8080"),
		NavTimeout: 45 * time.Second,
		SettleWait: 4 * time.Second,
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
