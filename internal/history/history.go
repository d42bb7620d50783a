package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded publish.
type Entry struct {
	ID        string
	Document  string
	Target    string
	Entry     string
	Bytes     int
	SHA256    string
	CreatedAt time.Time
}

// Ledger records publishes in a SQLite database.
// Uses WAL mode so the CLI can list entries while a publish is written.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the ledger at path. It is safe to open the same
// database more than once.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}

	return &Ledger{db: db, now: time.Now}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record stores e. ID and CreatedAt are assigned when empty; the stored
// entry is returned.
func (l *Ledger) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = l.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO publishes (id, document, target, entry, bytes, sha256, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Document, e.Target, e.Entry, e.Bytes, e.SHA256, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record publish: %w", err)
	}
	return e, nil
}

// Filter narrows List.
type Filter struct {
	// Document limits results to one document path.
	Document string

	// Limit caps the number of entries. Zero means no limit.
	Limit int
}

// List returns entries newest first.
func (l *Ledger) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `SELECT id, document, target, entry, bytes, sha256, created_at FROM publishes`
	var args []any
	if f.Document != "" {
		query += ` WHERE document = ?`
		args = append(args, f.Document)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publishes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Document, &e.Target, &e.Entry, &e.Bytes, &e.SHA256, &created); err != nil {
			return nil, fmt.Errorf("scan publish: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list publishes: %w", err)
	}
	return entries, nil
}

// Last returns the newest entry for document and target.
func (l *Ledger) Last(ctx context.Context, document, target string) (Entry, bool, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, document, target, entry, bytes, sha256, created_at FROM publishes
		WHERE document = ? AND target = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, document, target)

	var e Entry
	var created int64
	err := row.Scan(&e.ID, &e.Document, &e.Target, &e.Entry, &e.Bytes, &e.SHA256, &created)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("last publish: %w", err)
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	return e, true, nil
}
