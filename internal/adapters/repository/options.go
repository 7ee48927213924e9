package repository

import (
	"os"
	"time"

	"github.com/okian/leaguetable/internal/domain/model"
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permissions of the written snapshot file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithIndent writes the document indented instead of compact.
func WithIndent(indent bool) Option {
	return func(s *FileStore) {
		s.indent = indent
	}
}

// WithOnPublish registers a callback run after every snapshot publish.
func WithOnPublish(fn func(*model.Snapshot)) Option {
	return func(s *FileStore) {
		if fn != nil {
			s.onPublish = append(s.onPublish, fn)
		}
	}
}

// WithNow sets the clock used for age reporting.
func WithNow(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}
