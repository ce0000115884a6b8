// Package main provides the NodeFlow HTTP server.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodeflow/nodeflow/internal/adapters/repository/memory"
	"github.com/nodeflow/nodeflow/internal/adapters/repository/postgres"
	"github.com/nodeflow/nodeflow/internal/adapters/repository/sqlite"
	"github.com/nodeflow/nodeflow/internal/core/snapshot"
	"github.com/nodeflow/nodeflow/internal/infrastructure/config"
	"github.com/nodeflow/nodeflow/pkg/nodeflow"
	"github.com/nodeflow/nodeflow/pkg/prebuilt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	store, err := openSnapshotStore(cfg)
	if err != nil {
		log.Fatalf("snapshot store error: %v", err)
	}

	rt := nodeflow.NewRuntime()
	prebuilt.Register(rt)

	srv := newServer(rt, store, cfg.Server.RequestTimeout)

	log.Printf("Starting NodeFlow server on %s (snapshot backend: %s)",
		cfg.Server.Addr, cfg.Snapshot.Backend)
	if err := http.ListenAndServe(cfg.Server.Addr, srv.routes()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openSnapshotStore selects and initializes the configured snapshot backend.
func openSnapshotStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case config.BackendMemory:
		return memory.NewSnapshotStore(memory.Config{
			DefaultTTL:  cfg.Snapshot.TTL,
			MaxMemoryMB: cfg.Snapshot.MaxMemoryMB,
		}), nil

	case config.BackendSQLite:
		db, err := sql.Open("sqlite", cfg.Snapshot.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		store := sqlite.NewSnapshotStore(db, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.CreateTables(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, cfg.Snapshot.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		store := postgres.NewSnapshotStore(pool, nil)
		if err := store.CreateTables(ctx); err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}
