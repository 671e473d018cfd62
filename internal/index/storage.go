package index

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested record doesn't exist.
	ErrNotFound = errors.New("not found")
)

// Entry is a cached classpath entry (directory or archive).
type Entry struct {
	ID        int64
	Path      string
	Kind      string // "dir" or "archive"
	ModTime   time.Time
	SizeBytes int64
	ScannedAt time.Time
}

// Namespace is one cached namespace form found under an entry.
type Namespace struct {
	ID       int64
	EntryID  int64
	Name     string
	DeclKind string // "ns" or "in-ns"
	FilePath string
	Doc      string
}

// Storage persists scan results so large classpath entries are not
// rescanned when unchanged.
type Storage interface {
	UpsertEntry(ctx context.Context, entry *Entry) error
	GetEntry(ctx context.Context, path string) (*Entry, error)
	DeleteEntry(ctx context.Context, path string) error
	ListEntries(ctx context.Context) ([]*Entry, error)

	// ReplaceNamespaces atomically swaps the cached namespaces of an entry.
	ReplaceNamespaces(ctx context.Context, entryID int64, namespaces []Namespace) error
	ListNamespaces(ctx context.Context, prefix string) ([]*Namespace, error)
	ListEntryNamespaces(ctx context.Context, entryID int64) ([]*Namespace, error)

	Close() error
}
