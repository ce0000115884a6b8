package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/internal/core/snapshot"
	"github.com/nodeflow/nodeflow/internal/infrastructure/metrics"
	"github.com/nodeflow/nodeflow/pkg/serialization"
)

// SnapshotStore implements snapshot.Store for PostgreSQL
type SnapshotStore struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// NewSnapshotStore creates a new PostgreSQL snapshot store
func NewSnapshotStore(pool *pgxpool.Pool, serializer *serialization.Serializer) *SnapshotStore {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &SnapshotStore{
		pool:       pool,
		serializer: serializer,
		tableName:  "graph_snapshots",
	}
}

// Save stores a graph snapshot in PostgreSQL
func (s *SnapshotStore) Save(ctx context.Context, g *graph.Graph) error {
	if g == nil {
		return snapshot.ErrNilGraph
	}
	if g.ID == "" {
		return snapshot.ErrInvalidGraphID
	}

	data, err := serialization.Snapshot(s.serializer, g)
	if err != nil {
		return fmt.Errorf("failed to serialize graph: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, category, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			snapshot = EXCLUDED.snapshot,
			updated_at = EXCLUDED.updated_at
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query, g.ID, g.Name, string(g.Category), data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	metrics.AddSnapshotBytes(int64(len(data)))
	return nil
}

// Load retrieves a graph by ID and relinks its in-memory references
func (s *SnapshotStore) Load(ctx context.Context, graphID string) (*graph.Graph, error) {
	if graphID == "" {
		return nil, snapshot.ErrInvalidGraphID
	}

	query := fmt.Sprintf("SELECT snapshot FROM %s WHERE id = $1", s.tableName)

	var data []byte
	err := s.pool.QueryRow(ctx, query, graphID).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, snapshot.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	g, err := serialization.Restore(s.serializer, data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize graph: %w", err)
	}
	return g, nil
}

// List retrieves snapshot metadata based on filter criteria
func (s *SnapshotStore) List(ctx context.Context, filter snapshot.Filter) ([]snapshot.Info, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query, args := s.buildListQuery(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []snapshot.Info
	for rows.Next() {
		var info snapshot.Info
		var category string

		if err := rows.Scan(&info.GraphID, &info.Name, &category, &info.Size, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		info.Category = graph.GraphCategory(category)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a snapshot by graph ID
func (s *SnapshotStore) Delete(ctx context.Context, graphID string) error {
	if graphID == "" {
		return snapshot.ErrInvalidGraphID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	result, err := s.pool.Exec(ctx, query, graphID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return snapshot.ErrSnapshotNotFound
	}
	return nil
}

// CreateTables creates the necessary database tables
func (s *SnapshotStore) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(50) NOT NULL,
			snapshot BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_%s_category ON %s (category);
		CREATE INDEX IF NOT EXISTS idx_%s_updated_at ON %s (updated_at);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// buildListQuery constructs the SQL query for listing snapshots
func (s *SnapshotStore) buildListQuery(filter snapshot.Filter) (string, []interface{}) {
	query := fmt.Sprintf(
		"SELECT id, name, category, LENGTH(snapshot), updated_at FROM %s WHERE 1=1", s.tableName)
	args := make([]interface{}, 0)
	argCount := 0

	if filter.Category != "" {
		argCount++
		query += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, string(filter.Category))
	}
	if filter.Since != nil {
		argCount++
		query += fmt.Sprintf(" AND updated_at > $%d", argCount)
		args = append(args, *filter.Since)
	}
	if filter.Before != nil {
		argCount++
		query += fmt.Sprintf(" AND updated_at < $%d", argCount)
		args = append(args, *filter.Before)
	}

	query += " ORDER BY updated_at DESC, id ASC"

	if filter.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}
	return query, args
}

// Close releases the underlying connection pool
func (s *SnapshotStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
