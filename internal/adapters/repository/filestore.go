package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/pkg/metrics"
)

const defaultFileMode os.FileMode = 0o644

// FileStore keeps the snapshot in one JSON file. Writes go to a temp file in
// the same directory and are renamed over the target, so readers never see
// a partial document.
type FileStore struct {
	path   string
	mode   os.FileMode
	indent bool
	now    func() time.Time

	mu        sync.RWMutex
	latest    *model.Snapshot
	onPublish []func(*model.Snapshot)
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path: path,
		mode: defaultFileMode,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string { return s.path }

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, snap *model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	data, err := s.encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.writeAtomic(data); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	s.publish(snap)
	return nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s.publish(snap)
	return snap, nil
}

// Latest implements Store.
func (s *FileStore) Latest(_ context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, ErrNotFound
	}
	return s.latest, nil
}

// Age reports how old the latest snapshot is.
func (s *FileStore) Age() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return 0, false
	}
	return s.now().Sub(s.latest.GeneratedAt), true
}

// Decode parses and validates a snapshot document.
func Decode(data []byte) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &snap, nil
}

// Encode writes the snapshot document in compact form.
func Encode(snap *model.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func (s *FileStore) encode(snap *model.Snapshot) ([]byte, error) {
	if s.indent {
		return json.MarshalIndent(snap, "", "  ")
	}
	return Encode(snap)
}

func (s *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func (s *FileStore) publish(snap *model.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	hooks := s.onPublish
	s.mu.Unlock()

	metrics.UpdateSnapshot(len(snap.Managers), snap.CurrentGW, snap.GeneratedAt)
	for _, fn := range hooks {
		fn(snap)
	}
}
