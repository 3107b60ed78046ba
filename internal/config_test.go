package internal

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PANEL_ADDR", "PANEL_DATA_DIR", "PANEL_DB_PATH", "PANEL_BOT_DIRS", "PANEL_STATUS_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.App.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.App.Addr)
	}
	if cfg.App.DataDir != filepath.Join(".", "data") {
		t.Errorf("DataDir = %q, want ./data", cfg.App.DataDir)
	}
	if cfg.App.DBPath != filepath.Join(cfg.App.DataDir, "panel.db") {
		t.Errorf("DBPath = %q, want it under the data dir", cfg.App.DBPath)
	}
	if cfg.Status.Interval != 3*time.Second {
		t.Errorf("Interval = %v, want 3s", cfg.Status.Interval)
	}
	if len(cfg.Status.BotDataDirs) != 2 {
		t.Errorf("BotDataDirs = %v, want the two default candidates", cfg.Status.BotDataDirs)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PANEL_ADDR", ":9999")
	t.Setenv("PANEL_DATA_DIR", "/tmp/panel-data")
	t.Setenv("PANEL_DB_PATH", "/tmp/panel.db")
	t.Setenv("PANEL_BOT_DIRS", "/srv/bot/data, /var/lib/bot")
	t.Setenv("PANEL_STATUS_INTERVAL", "10")

	cfg := LoadConfig()

	if cfg.App.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.App.Addr)
	}
	if cfg.App.DBPath != "/tmp/panel.db" {
		t.Errorf("DBPath = %q, want /tmp/panel.db", cfg.App.DBPath)
	}
	if cfg.Status.Interval != 10*time.Second {
		t.Errorf("Interval = %v, want 10s", cfg.Status.Interval)
	}
	want := []string{"/srv/bot/data", "/var/lib/bot"}
	if len(cfg.Status.BotDataDirs) != 2 || cfg.Status.BotDataDirs[0] != want[0] || cfg.Status.BotDataDirs[1] != want[1] {
		t.Errorf("BotDataDirs = %v, want %v", cfg.Status.BotDataDirs, want)
	}
}

func TestLoadConfig_BadIntervalFallsBack(t *testing.T) {
	t.Setenv("PANEL_STATUS_INTERVAL", "soon")

	cfg := LoadConfig()
	if cfg.Status.Interval != 3*time.Second {
		t.Errorf("Interval = %v, want the 3s default", cfg.Status.Interval)
	}
}
