package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sovgrid/internal/schema"
)

const schemaVersion = 1

// SQLite implements Store over a local sqlite database. Field names are
// validated against the column schema before they reach SQL text.
type SQLite struct {
	db  *sql.DB
	sch *schema.Schema
}

// Open opens (or creates) the database at path and ensures the locations
// table matches the column schema.
func Open(path string, sch *schema.Schema) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	s := &SQLite{db: db, sch: sch}
	if err := s.bootstrap(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

// DB exposes the raw handle for tests.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) bootstrap() error {
	var cols strings.Builder
	for _, c := range s.sch.Columns() {
		cols.WriteString(",\n\t")
		cols.WriteString(c.Key)
		if c.Type == schema.TypeNumber || c.Type == schema.TypeCurrency {
			cols.WriteString(" REAL")
		} else {
			cols.WriteString(" TEXT")
		}
	}
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS locations (
	id         TEXT PRIMARY KEY,
	org_id     TEXT NOT NULL,
	client_id  TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))%s
);

CREATE INDEX IF NOT EXISTS idx_locations_org_client ON locations(org_id, client_id);
`, cols.String())
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var ver int
	err := s.db.QueryRow("SELECT version FROM schema_meta LIMIT 1").Scan(&ver)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("insert schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("check schema version: %w", err)
	}
	return nil
}

// fieldColumn validates a field key against the schema before it is spliced
// into SQL text.
func (s *SQLite) fieldColumn(field string) (string, error) {
	if s.sch.Index(field) < 0 {
		return "", fmt.Errorf("unknown field %q", field)
	}
	return field, nil
}

// List implements Store.
func (s *SQLite) List(ctx context.Context, orgID, clientID string) ([]Record, error) {
	keys := make([]string, 0, s.sch.Len())
	for _, c := range s.sch.Columns() {
		keys = append(keys, c.Key)
	}
	q := fmt.Sprintf(
		"SELECT id, org_id, client_id, %s FROM locations WHERE org_id = ? AND client_id = ? ORDER BY created_at, id",
		strings.Join(keys, ", "))
	rows, err := s.db.QueryContext(ctx, q, orgID, clientID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec := Record{Fields: make(map[string]any, len(keys))}
		dest := make([]any, 0, len(keys)+3)
		dest = append(dest, &rec.ID, &rec.OrgID, &rec.ClientID)
		holders := make([]any, len(keys))
		for i, key := range keys {
			col, _ := s.sch.Col(s.sch.Index(key))
			if col.Type == schema.TypeNumber || col.Type == schema.TypeCurrency {
				holders[i] = new(sql.NullFloat64)
			} else {
				holders[i] = new(sql.NullString)
			}
			dest = append(dest, holders[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		for i, key := range keys {
			switch h := holders[i].(type) {
			case *sql.NullFloat64:
				if h.Valid {
					rec.Fields[key] = h.Float64
				}
			case *sql.NullString:
				if h.Valid && h.String != "" {
					rec.Fields[key] = h.String
				}
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Update implements Store. The statement is scoped by id and org id; an
// update that matches no row reports an error rather than silently writing
// nothing.
func (s *SQLite) Update(ctx context.Context, id, orgID, field string, value any) error {
	col, err := s.fieldColumn(field)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE locations SET %s = ? WHERE id = ? AND org_id = ?", col),
		value, id, orgID)
	if err != nil {
		return fmt.Errorf("update %s: %w", field, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", field, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s: no such record in org", field)
	}
	return nil
}

// InsertOne implements Store.
func (s *SQLite) InsertOne(ctx context.Context, orgID, clientID string, fields map[string]any) (Record, error) {
	recs, err := s.InsertMany(ctx, orgID, clientID, []map[string]any{fields})
	if err != nil {
		return Record{}, err
	}
	return recs[0], nil
}

// InsertMany implements Store. The whole batch commits in one transaction.
func (s *SQLite) InsertMany(ctx context.Context, orgID, clientID string, payloads []map[string]any) ([]Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]Record, 0, len(payloads))
	for _, payload := range payloads {
		cols := []string{"id", "org_id", "client_id"}
		args := []any{uuid.NewString(), orgID, clientID}
		for _, c := range s.sch.Columns() {
			v, ok := payload[c.Key]
			if !ok || v == nil {
				continue
			}
			cols = append(cols, c.Key)
			args = append(args, v)
		}
		for key := range payload {
			if s.sch.Index(key) < 0 {
				return nil, fmt.Errorf("insert: unknown field %q", key)
			}
		}
		q := fmt.Sprintf("INSERT INTO locations (%s) VALUES (%s)",
			strings.Join(cols, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return nil, fmt.Errorf("insert location: %w", err)
		}
		rec := Record{ID: args[0].(string), OrgID: orgID, ClientID: clientID, Fields: make(map[string]any, len(payload))}
		for k, v := range payload {
			if v != nil {
				rec.Fields[k] = v
			}
		}
		out = append(out, rec)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return out, nil
}

// DeleteMany implements Store.
func (s *SQLite) DeleteMany(ctx context.Context, ids []string, orgID string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, orgID)
	q := fmt.Sprintf("DELETE FROM locations WHERE id IN (%s) AND org_id = ?",
		strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", "))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete locations: %w", err)
	}
	return nil
}
