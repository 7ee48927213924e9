// Package repository persists the published snapshot document.
package repository

import (
	"context"

	"github.com/okian/leaguetable/internal/domain/model"
)

// Store provides read/write access to the published snapshot.
type Store interface {
	// Save replaces the stored snapshot as a whole and publishes it as latest.
	Save(ctx context.Context, snap *model.Snapshot) error

	// Load reads the stored snapshot back, validates it and publishes it as latest.
	// Returns ErrNotFound if nothing was saved yet, ErrCorrupt if it cannot be parsed.
	Load(ctx context.Context) (*model.Snapshot, error)

	// Latest returns the last published snapshot without touching storage.
	// Returns ErrNotFound before the first Save or Load.
	Latest(ctx context.Context) (*model.Snapshot, error)
}
