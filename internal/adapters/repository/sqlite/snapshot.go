package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/internal/core/snapshot"
	"github.com/nodeflow/nodeflow/internal/infrastructure/metrics"
	"github.com/nodeflow/nodeflow/pkg/serialization"
	_ "modernc.org/sqlite"
)

// SnapshotStore implements snapshot.Store for SQLite
type SnapshotStore struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// NewSnapshotStore creates a new SQLite snapshot store
func NewSnapshotStore(db *sql.DB, serializer *serialization.Serializer) *SnapshotStore {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &SnapshotStore{
		db:         db,
		serializer: serializer,
		tableName:  "graph_snapshots",
	}
}

// WithTableName allows overriding the default table name with validation.
// Only alphanumeric and underscore are permitted to prevent SQL injection via identifiers.
func (s *SnapshotStore) WithTableName(name string) *SnapshotStore {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// Save stores a graph snapshot in SQLite
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
		INSERT OR REPLACE INTO %s (id, name, category, snapshot, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		g.ID, g.Name, string(g.Category), data, time.Now().Unix())
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

	query := fmt.Sprintf("SELECT snapshot FROM %s WHERE id = ?", s.tableName)

	var data []byte
	err := s.db.QueryRowContext(ctx, query, graphID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
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

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []snapshot.Info
	for rows.Next() {
		var info snapshot.Info
		var category string
		var updatedAt int64

		if err := rows.Scan(&info.GraphID, &info.Name, &category, &info.Size, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		info.Category = graph.GraphCategory(category)
		info.UpdatedAt = time.Unix(updatedAt, 0)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a snapshot by graph ID
func (s *SnapshotStore) Delete(ctx context.Context, graphID string) error {
	if graphID == "" {
		return snapshot.ErrInvalidGraphID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	result, err := s.db.ExecContext(ctx, query, graphID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return snapshot.ErrSnapshotNotFound
	}
	return nil
}

// CreateTables creates the necessary database tables
func (s *SnapshotStore) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			snapshot BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%s_category ON %s (category);
		CREATE INDEX IF NOT EXISTS idx_%s_updated_at ON %s (updated_at);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// buildListQuery constructs the SQL query for listing snapshots
func (s *SnapshotStore) buildListQuery(filter snapshot.Filter) (string, []interface{}) {
	query := fmt.Sprintf(
		"SELECT id, name, category, LENGTH(snapshot), updated_at FROM %s WHERE 1=1", s.tableName)
	args := make([]interface{}, 0)

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.Since != nil {
		query += " AND updated_at > ?"
		args = append(args, filter.Since.Unix())
	}
	if filter.Before != nil {
		query += " AND updated_at < ?"
		args = append(args, filter.Before.Unix())
	}

	query += " ORDER BY updated_at DESC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}
	return query, args
}

// Close closes the database connection
func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
