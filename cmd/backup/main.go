// Command backup exports and restores the persisted session state as a
// gzip-compressed JSON snapshot file.
//
//	backup -mode export -database-url ... -session-id default -file state.json.gz
//	backup -mode import -database-url ... -session-id default -file state.json.gz
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"

	"github.com/xelkar/shopcart/internal/storage"
)

func main() {
	var (
		mode        string
		databaseURL string
		sessionID   string
		file        string
	)

	flag.StringVar(&mode, "mode", "export", "export or import")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&sessionID, "session-id", "default", "session id to back up")
	flag.StringVar(&file, "file", "state.json.gz", "snapshot file path")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, mode, databaseURL, sessionID, file); err != nil {
		slog.Error("backup failed", slog.String("mode", mode), slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("backup completed", slog.String("mode", mode), slog.String("file", file))
}

func run(ctx context.Context, mode, databaseURL, sessionID, file string) error {
	pool, err := storage.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := storage.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	gateway := storage.NewGateway(storage.NewPostgres(pool, sessionID))

	switch mode {
	case "export":
		return exportSnapshot(ctx, gateway, file)
	case "import":
		return importSnapshot(ctx, gateway, file)
	default:
		return errors.Errorf("unknown mode %q", mode)
	}
}

func exportSnapshot(ctx context.Context, gateway *storage.Gateway, file string) error {
	snap, err := gateway.Export(ctx)
	if err != nil {
		return errors.Wrap(err, "export state")
	}

	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "create snapshot file")
	}
	defer f.Close()

	zw := pgzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "flush snapshot")
	}
	return f.Close()
}

func importSnapshot(ctx context.Context, gateway *storage.Gateway, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "open snapshot file")
	}
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrap(err, "read snapshot")
	}
	defer zr.Close()

	var snap storage.Snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return errors.Wrap(err, "decode snapshot")
	}

	if err := gateway.Import(ctx, &snap); err != nil {
		return errors.Wrap(err, "import state")
	}
	return nil
}
