package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/spacedesk/internal/app"
	"github.com/rpggio/spacedesk/internal/config"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/redisstore"
	"github.com/rpggio/spacedesk/internal/sqlite"
)

// runtime owns everything a command opens and must close.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	app     *app.App
	closers []func() error
}

// setup loads configuration, opens the stores and wires the app. Logs go to stdout
// only when logsToStdout is set; stdio and one-shot commands keep stdout for output.
func setup(ctx context.Context, logsToStdout bool, override func(*config.Config)) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if override != nil {
		override(&cfg)
	}

	rt := &runtime{cfg: cfg}

	logWriter := io.Writer(os.Stderr)
	if logsToStdout {
		logWriter = os.Stdout
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			rt.closers = append(rt.closers, file.Close)
			logWriter = fileWriter
		}
	}
	rt.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		rt.Close()
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, db.Close)
	if err := db.RunMigrations(); err != nil {
		rt.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var seqRepo sequence.Repository
	if cfg.Sequence.Backend == config.BackendRedis {
		client, err := redisstore.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, client.Close)
		seqRepo = redisstore.NewSequenceRepository(client, cfg.Redis.Prefix)
		rt.logger.Info("sequence counters in redis", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	}

	rt.app = app.New(db, app.Options{
		SequenceRepo: seqRepo,
		Sequence:     sequence.Config{MaxAttempts: cfg.Sequence.MaxAttempts, Backoff: cfg.Sequence.Backoff},
		Statistics:   stats.Config{MaxAttempts: cfg.Statistics.MaxAttempts, Backoff: cfg.Statistics.Backoff},
		Logger:       rt.logger,
	})
	return rt, nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	if err := errors.Join(errs...); err != nil && rt.logger != nil {
		rt.logger.Warn("close failed", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
