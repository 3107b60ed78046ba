package internal

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the panel configuration, loaded from environment variables.
type Config struct {
	App    AppConfig
	Status StatusConfig
}

// AppConfig covers the HTTP server and the two persistence surfaces.
type AppConfig struct {
	Addr    string // listen address for the panel API
	DataDir string // sync API documents
	DBPath  string // panel-local kv database
}

// StatusConfig covers the status bridge.
type StatusConfig struct {
	BotDataDirs []string // candidate dirs holding qrcode.json, tried in order
	Interval    time.Duration
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is honored when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Addr:    getEnv("PANEL_ADDR", ":8080"),
			DataDir: getEnv("PANEL_DATA_DIR", filepath.Join(".", "data")),
			DBPath:  getEnv("PANEL_DB_PATH", ""),
		},
		Status: StatusConfig{
			BotDataDirs: getEnvList("PANEL_BOT_DIRS", defaultBotDirs()),
			Interval:    time.Duration(getEnvInt("PANEL_STATUS_INTERVAL", 3)) * time.Second,
		},
	}

	if cfg.App.DBPath == "" {
		cfg.App.DBPath = filepath.Join(cfg.App.DataDir, "panel.db")
	}

	return cfg
}

// defaultBotDirs mirrors the locations the bot may write its status to,
// depending on whether panel and bot share a checkout.
func defaultBotDirs() []string {
	return []string{
		filepath.Join("..", "bot", "data"),
		filepath.Join(".", "bot", "data"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
