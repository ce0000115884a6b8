package postgres

import (
	"context"
	"testing"

	"github.com/nodeflow/nodeflow/internal/core/snapshot"
	"github.com/nodeflow/nodeflow/pkg/serialization"
	"github.com/stretchr/testify/assert"
)

func TestPostgresSnapshotStore(t *testing.T) {
	t.Skip("Integration test requires PostgreSQL database")

	// This test would require an actual PostgreSQL instance.
	// For CI/CD, this should be run with docker-compose or testcontainers.
}

func TestPostgresSnapshotStore_ArgumentGuards(t *testing.T) {
	ctx := context.Background()

	// Guards fire before the pool is touched
	store := &SnapshotStore{
		pool:       nil,
		serializer: serialization.DefaultSerializer(),
		tableName:  "graph_snapshots",
	}

	assert.ErrorIs(t, store.Save(ctx, nil), snapshot.ErrNilGraph)

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, snapshot.ErrInvalidGraphID)

	assert.ErrorIs(t, store.Delete(ctx, ""), snapshot.ErrInvalidGraphID)

	_, err = store.List(ctx, snapshot.Filter{Limit: -1})
	assert.ErrorIs(t, err, snapshot.ErrInvalidLimit)
}

func TestPostgresSnapshotStore_BuildListQuery(t *testing.T) {
	store := NewSnapshotStore(nil, nil)

	query, args := store.buildListQuery(snapshot.Filter{Category: "data_flow", Limit: 5, Offset: 10})
	assert.Contains(t, query, "category = $1")
	assert.Contains(t, query, "LIMIT $2")
	assert.Contains(t, query, "OFFSET $3")
	assert.Equal(t, []interface{}{"data_flow", 5, 10}, args)
}
