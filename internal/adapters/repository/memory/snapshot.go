// Package memory provides an in-memory graph snapshot store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/internal/core/snapshot"
	"github.com/nodeflow/nodeflow/internal/infrastructure/metrics"
	"github.com/nodeflow/nodeflow/pkg/serialization"
)

// SnapshotStore implements snapshot.Store with thread-safe in-memory storage
// PRINCIPLES:
// - KISS: Simple map of serialized snapshots with proper concurrency
// - SRP: Single responsibility for in-memory snapshot storage
// - DIP: Implements snapshot.Store interface
type SnapshotStore struct {
	mu      sync.Mutex
	entries map[string]*storeEntry

	defaultTTL   time.Duration
	maxBytes     int64
	currentBytes int64

	serializer *serialization.Serializer

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	closeOnce     sync.Once
}

// Config holds configuration for SnapshotStore
type Config struct {
	DefaultTTL      time.Duration             // TTL for stored snapshots
	MaxMemoryMB     int64                     // Maximum memory usage in MB
	CleanupInterval time.Duration             // Sweep interval for expired snapshots
	Serializer      *serialization.Serializer // Custom serializer (optional)
}

// storeEntry holds one serialized snapshot with bookkeeping metadata
type storeEntry struct {
	info       snapshot.Info
	data       []byte
	expiresAt  time.Time
	accessedAt time.Time
}

// NewSnapshotStore creates a new in-memory snapshot store
func NewSnapshotStore(config Config) *SnapshotStore {
	if config.DefaultTTL == 0 {
		config.DefaultTTL = 24 * time.Hour
	}
	if config.MaxMemoryMB == 0 {
		config.MaxMemoryMB = 256
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.Serializer == nil {
		config.Serializer = serialization.DefaultSerializer()
	}

	store := &SnapshotStore{
		entries:     make(map[string]*storeEntry),
		defaultTTL:  config.DefaultTTL,
		maxBytes:    config.MaxMemoryMB * 1024 * 1024,
		serializer:  config.Serializer,
		stopCleanup: make(chan struct{}),
	}
	store.startCleanup(config.CleanupInterval)
	return store
}

// Save serializes and stores a graph snapshot, evicting least-recently-used
// snapshots when the memory cap would be exceeded.
func (s *SnapshotStore) Save(_ context.Context, g *graph.Graph) error {
	if g == nil {
		return snapshot.ErrNilGraph
	}
	if g.ID == "" {
		return snapshot.ErrInvalidGraphID
	}

	data, err := serialization.Snapshot(s.serializer, g)
	if err != nil {
		return fmt.Errorf("snapshot serialization failed: %w", err)
	}

	size := int64(len(data))
	if size > s.maxBytes {
		return fmt.Errorf("snapshot of %d bytes exceeds memory limit of %d bytes", size, s.maxBytes)
	}

	now := time.Now()
	entry := &storeEntry{
		info: snapshot.Info{
			GraphID:   g.ID,
			Name:      g.Name,
			Category:  g.Category,
			Size:      size,
			UpdatedAt: now,
		},
		data:       data,
		expiresAt:  now.Add(s.defaultTTL),
		accessedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[g.ID]; ok {
		s.currentBytes -= prev.info.Size
	}
	for s.currentBytes+size > s.maxBytes {
		if !s.evictOldestLocked() {
			break
		}
	}
	s.entries[g.ID] = entry
	s.currentBytes += size
	metrics.AddSnapshotBytes(size)
	return nil
}

// Load retrieves and deserializes a stored snapshot. Expired snapshots are
// treated as missing.
func (s *SnapshotStore) Load(_ context.Context, graphID string) (*graph.Graph, error) {
	if graphID == "" {
		return nil, snapshot.ErrInvalidGraphID
	}

	s.mu.Lock()
	entry, ok := s.entries[graphID]
	if ok && time.Now().After(entry.expiresAt) {
		s.removeLocked(graphID)
		ok = false
	}
	if !ok {
		s.mu.Unlock()
		return nil, snapshot.ErrSnapshotNotFound
	}
	entry.accessedAt = time.Now()
	data := entry.data
	s.mu.Unlock()

	g, err := serialization.Restore(s.serializer, data)
	if err != nil {
		return nil, fmt.Errorf("snapshot deserialization failed: %w", err)
	}
	return g, nil
}

// List returns metadata for stored snapshots matching the filter, newest first.
func (s *SnapshotStore) List(_ context.Context, filter snapshot.Filter) ([]snapshot.Info, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	now := time.Now()
	infos := make([]snapshot.Info, 0, len(s.entries))
	for _, entry := range s.entries {
		if now.After(entry.expiresAt) {
			continue
		}
		infos = append(infos, entry.info)
	}
	s.mu.Unlock()

	filtered := infos[:0]
	for _, info := range infos {
		if filter.Category != "" && info.Category != filter.Category {
			continue
		}
		if filter.Since != nil && !info.UpdatedAt.After(*filter.Since) {
			continue
		}
		if filter.Before != nil && !info.UpdatedAt.Before(*filter.Before) {
			continue
		}
		filtered = append(filtered, info)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].UpdatedAt.Equal(filtered[j].UpdatedAt) {
			return filtered[i].GraphID < filtered[j].GraphID
		}
		return filtered[i].UpdatedAt.After(filtered[j].UpdatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(filtered) {
			return nil, nil
		}
		filtered = filtered[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(filtered) {
		filtered = filtered[:filter.Limit]
	}
	return filtered, nil
}

// Delete removes a stored snapshot by graph ID.
func (s *SnapshotStore) Delete(_ context.Context, graphID string) error {
	if graphID == "" {
		return snapshot.ErrInvalidGraphID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[graphID]; !ok {
		return snapshot.ErrSnapshotNotFound
	}
	s.removeLocked(graphID)
	return nil
}

// Close stops the background cleanup goroutine.
func (s *SnapshotStore) Close() error {
	s.closeOnce.Do(func() {
		if s.cleanupTicker != nil {
			s.cleanupTicker.Stop()
		}
		close(s.stopCleanup)
	})
	return nil
}

func (s *SnapshotStore) startCleanup(interval time.Duration) {
	s.cleanupTicker = time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-s.cleanupTicker.C:
				s.sweepExpired()
			case <-s.stopCleanup:
				return
			}
		}
	}()
}

func (s *SnapshotStore) sweepExpired() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			s.removeLocked(id)
		}
	}
}

// evictOldestLocked drops the least-recently-accessed snapshot.
// Caller must hold s.mu.
func (s *SnapshotStore) evictOldestLocked() bool {
	var oldestID string
	var oldest time.Time
	for id, entry := range s.entries {
		if oldestID == "" || entry.accessedAt.Before(oldest) {
			oldestID = id
			oldest = entry.accessedAt
		}
	}
	if oldestID == "" {
		return false
	}
	s.removeLocked(oldestID)
	return true
}

// removeLocked deletes an entry and adjusts the byte count.
// Caller must hold s.mu.
func (s *SnapshotStore) removeLocked(id string) {
	if entry, ok := s.entries[id]; ok {
		s.currentBytes -= entry.info.Size
		delete(s.entries, id)
	}
}
