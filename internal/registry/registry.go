// Package registry provides SQLite-backed persistence for compiled
// record schemas: canonical descriptor text keyed by a time-sortable
// revision id and deduplicated by content hash.
package registry

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sszkit/sszkit/internal/record"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// Revision is one registered schema revision.
type Revision struct {
	RevisionID string `json:"revision_id"`
	Name       string `json:"name"`
	Canonical  string `json:"canonical"`
	SchemaHash string `json:"schema_hash"`
	CreatedAt  string `json:"created_at"`
}

// Registry stores schema revisions in SQLite. WAL mode allows
// concurrent reads during writes; a single writer connection avoids
// SQLITE_BUSY contention.
type Registry struct {
	db *sql.DB
}

// Open creates or opens the registry database at path. Pragmas and
// migrations apply automatically; the function is idempotent.
func Open(path string) (*Registry, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to registry: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Registry{db: db}, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	var version int
	err := db.QueryRow("SELECT version FROM registry_meta LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec("INSERT INTO registry_meta (version) VALUES (?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case version > currentSchemaVersion:
		return fmt.Errorf("registry schema version %d is newer than supported %d", version, currentSchemaVersion)
	}
	return nil
}

// Register persists the compiled type's canonical descriptor. Returns
// the stored revision and whether a new row was created; a revision
// with the same name and content hash is returned as-is.
func (r *Registry) Register(ctx context.Context, t *record.Type) (Revision, bool, error) {
	rev := Revision{
		Name:       t.Name(),
		Canonical:  t.Canonical(),
		SchemaHash: t.SchemaHash(),
	}

	existing, err := r.getByNameHash(ctx, rev.Name, rev.SchemaHash)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return Revision{}, false, err
	}

	rev.RevisionID = uuid.Must(uuid.NewV7()).String()
	rev.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO schema_revisions (revision_id, name, canonical, schema_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rev.RevisionID, rev.Name, rev.Canonical, rev.SchemaHash, rev.CreatedAt)
	if err != nil {
		return Revision{}, false, fmt.Errorf("failed to register schema %q: %w", rev.Name, err)
	}
	return rev, true, nil
}

func (r *Registry) getByNameHash(ctx context.Context, name, hash string) (Revision, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT revision_id, name, canonical, schema_hash, created_at
		 FROM schema_revisions WHERE name = ? AND schema_hash = ?`,
		name, hash)
	return scanRevision(row)
}

// GetLatest returns the most recent revision registered under name.
func (r *Registry) GetLatest(ctx context.Context, name string) (Revision, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT revision_id, name, canonical, schema_hash, created_at
		 FROM schema_revisions WHERE name = ?
		 ORDER BY revision_id DESC LIMIT 1`,
		name)
	rev, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return Revision{}, fmt.Errorf("no schema registered under name %q", name)
	}
	return rev, err
}

// GetByHash returns the revision with the given content hash.
func (r *Registry) GetByHash(ctx context.Context, hash string) (Revision, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT revision_id, name, canonical, schema_hash, created_at
		 FROM schema_revisions WHERE schema_hash = ? LIMIT 1`,
		hash)
	rev, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return Revision{}, fmt.Errorf("no schema registered with hash %s", hash)
	}
	return rev, err
}

// List returns every revision in registration order. UUIDv7 revision
// ids sort by creation time, so ordering by id is deterministic and
// chronological.
func (r *Registry) List(ctx context.Context) ([]Revision, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT revision_id, name, canonical, schema_hash, created_at
		 FROM schema_revisions ORDER BY revision_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schema revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(&rev.RevisionID, &rev.Name, &rev.Canonical, &rev.SchemaHash, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schema revision: %w", err)
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(row rowScanner) (Revision, error) {
	var rev Revision
	err := row.Scan(&rev.RevisionID, &rev.Name, &rev.Canonical, &rev.SchemaHash, &rev.CreatedAt)
	return rev, err
}
