// Package backup writes and reads JSON snapshots of the whole store.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"farmbook/internal/store"
)

// Manager handles snapshot files in a fixed directory.
type Manager struct {
	store store.Store
	dir   string
}

func NewManager(s store.Store, dir string) *Manager {
	return &Manager{store: s, dir: dir}
}

// Write dumps the current store state to a timestamped JSON file and returns
// its path.
func (m *Manager) Write(ctx context.Context) (string, error) {
	snap, err := m.store.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot store: %w", err)
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := "farmbook-" + time.Now().UTC().Format("20060102-150405") + ".json"
	path := filepath.Join(m.dir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}

	slog.InfoContext(ctx, "Backup written",
		"path", path,
		"transactions", len(snap.Transactions),
		"crops", len(snap.Crops),
		"equipment", len(snap.Equipment))
	return path, nil
}

// Restore replaces the store contents with the snapshot in the given file.
func (m *Manager) Restore(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}
	snap, err := Decode(data)
	if err != nil {
		return err
	}
	if err := m.store.Restore(ctx, snap); err != nil {
		return fmt.Errorf("restore store: %w", err)
	}
	slog.InfoContext(ctx, "Backup restored", "path", path)
	return nil
}

// Decode parses snapshot JSON.
func Decode(data []byte) (store.Snapshot, error) {
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Encode renders a snapshot as indented JSON.
func Encode(snap store.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
