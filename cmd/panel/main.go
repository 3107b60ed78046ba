package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/erickmachine/odinbot-panel/internal"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := internal.LoadConfig()

	if err := os.MkdirAll(cfg.App.DataDir, 0755); err != nil {
		slog.Error("create data dir", "dir", cfg.App.DataDir, "err", err)
		os.Exit(1)
	}

	// A broken local medium degrades the panel to an ephemeral store
	// instead of refusing to start.
	var kv internal.KV
	kv, err := internal.OpenKV(cfg.App.DBPath)
	if err != nil {
		slog.Warn("panel db unavailable, running ephemeral", "path", cfg.App.DBPath, "err", err)
		kv = internal.NullKV{}
	}
	defer kv.Close()

	store := internal.NewStore(kv)

	bridge := internal.NewBridge(cfg.Status.BotDataDirs...)
	watcher := internal.NewWatcher(bridge, cfg.Status.Interval)

	dispatcher := internal.NewDispatcher(store)
	dispatcher.SetOnDue(func(m internal.ScheduledMessage) {
		// Delivery belongs to the bot; the panel only surfaces intent.
		slog.Info("delivery due", "id", m.ID, "group", m.GroupName, "time", m.Time)
	})

	mux := http.NewServeMux()
	mux.Handle("/api/data", internal.NewSyncAPI(cfg.App.DataDir))
	mux.Handle("/api/qrcode", bridge.Handler())

	srv := &http.Server{
		Addr:    cfg.App.Addr,
		Handler: mux,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher.Start(ctx)
	defer watcher.Stop()

	dispatcher.Start()
	defer dispatcher.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Info("shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "err", err)
		}
	}()

	slog.Info("panel started",
		"addr", cfg.App.Addr,
		"data", filepath.Clean(cfg.App.DataDir),
		"settings", store.Settings().BotName,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
