package index

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStorage implements Storage on a single SQLite database file.
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// WAL for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage opens (creating if needed) the cache database at dbPath
// and applies pending migrations.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// UpsertEntry inserts or refreshes a classpath entry record.
func (s *SQLiteStorage) UpsertEntry(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO entries (path, kind, mod_time, size_bytes, scanned_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind = excluded.kind,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			scanned_at = excluded.scanned_at
	`
	if entry.ScannedAt.IsZero() {
		entry.ScannedAt = time.Now()
	}
	if _, err := s.db.ExecContext(ctx, query,
		entry.Path, entry.Kind, entry.ModTime, entry.SizeBytes, entry.ScannedAt); err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT id FROM entries WHERE path = ?`, entry.Path)
	if err := row.Scan(&entry.ID); err != nil {
		return fmt.Errorf("failed to read entry id: %w", err)
	}
	return nil
}

// GetEntry returns the cached entry for path, or ErrNotFound.
func (s *SQLiteStorage) GetEntry(ctx context.Context, path string) (*Entry, error) {
	query := `SELECT id, path, kind, mod_time, size_bytes, scanned_at FROM entries WHERE path = ?`
	entry := &Entry{}
	row := s.db.QueryRowContext(ctx, query, path)
	err := row.Scan(&entry.ID, &entry.Path, &entry.Kind, &entry.ModTime, &entry.SizeBytes, &entry.ScannedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes an entry and, via cascade, its namespaces.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// ListEntries returns all cached entries ordered by path.
func (s *SQLiteStorage) ListEntries(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, kind, mod_time, size_bytes, scanned_at FROM entries ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(&entry.ID, &entry.Path, &entry.Kind, &entry.ModTime,
			&entry.SizeBytes, &entry.ScannedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ReplaceNamespaces swaps the cached namespaces of an entry in one
// transaction.
func (s *SQLiteStorage) ReplaceNamespaces(ctx context.Context, entryID int64, namespaces []Namespace) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM namespaces WHERE entry_id = ?`, entryID); err != nil {
		return fmt.Errorf("failed to clear namespaces: %w", err)
	}
	for _, ns := range namespaces {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO namespaces (entry_id, name, decl_kind, file_path, doc) VALUES (?, ?, ?, ?, ?)`,
			entryID, ns.Name, ns.DeclKind, ns.FilePath, ns.Doc); err != nil {
			return fmt.Errorf("failed to insert namespace %s: %w", ns.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit namespaces: %w", err)
	}
	return nil
}

// ListNamespaces returns cached namespaces, optionally filtered by name
// prefix, ordered by entry then insertion order.
func (s *SQLiteStorage) ListNamespaces(ctx context.Context, prefix string) ([]*Namespace, error) {
	query := `
		SELECT n.id, n.entry_id, n.name, n.decl_kind, n.file_path, n.doc
		FROM namespaces n
		JOIN entries e ON e.id = n.entry_id
		WHERE n.name LIKE ? ESCAPE '\'
		ORDER BY e.path, n.id
	`
	rows, err := s.db.QueryContext(ctx, query, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanNamespaces(rows)
}

// ListEntryNamespaces returns the cached namespaces of one entry in
// insertion order.
func (s *SQLiteStorage) ListEntryNamespaces(ctx context.Context, entryID int64) ([]*Namespace, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entry_id, name, decl_kind, file_path, doc FROM namespaces WHERE entry_id = ? ORDER BY id`,
		entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry namespaces: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanNamespaces(rows)
}

func scanNamespaces(rows *sql.Rows) ([]*Namespace, error) {
	var namespaces []*Namespace
	for rows.Next() {
		ns := &Namespace{}
		if err := rows.Scan(&ns.ID, &ns.EntryID, &ns.Name, &ns.DeclKind, &ns.FilePath, &ns.Doc); err != nil {
			return nil, err
		}
		namespaces = append(namespaces, ns)
	}
	return namespaces, rows.Err()
}

// likePrefix escapes LIKE metacharacters in prefix and appends the
// wildcard.
func likePrefix(prefix string) string {
	escaped := make([]byte, 0, len(prefix))
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c == '%' || c == '_' || c == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, c)
	}
	return string(escaped) + "%"
}
