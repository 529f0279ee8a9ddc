package keystore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"

	"github.com/naveenspark/fintrack/pkg/domain"

	_ "modernc.org/sqlite"
)

const entriesTable = "session_entries"

// ssq is the statement builder with question-mark placeholders.
var ssq = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// SQLStore keeps one row per entry in session_entries, keyed by scope.
type SQLStore struct {
	db    *sql.DB
	scope string
}

// NewSQLStore wraps an open database whose schema is already migrated.
func NewSQLStore(db *sql.DB, scope string) *SQLStore {
	return &SQLStore{db: db, scope: scope}
}

// OpenSQLite opens (creating when needed) the SQLite database at path and
// migrates it.
func OpenSQLite(ctx context.Context, path, scope string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewSQLStore(db, scope), nil
}

// Load reads the scope's entries. Missing rows are zero values.
func (s *SQLStore) Load(ctx context.Context) (Record, error) {
	query, args, err := ssq.Select("key", "value").
		From(entriesTable).
		Where(sq.Eq{"scope": s.scope}).
		ToSql()
	if err != nil {
		return Record{}, fmt.Errorf("keystore.SQLStore.Load: build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Record{}, fmt.Errorf("keystore.SQLStore.Load: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var rec Record
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Record{}, fmt.Errorf("keystore.SQLStore.Load: scan: %w", err)
		}
		switch key {
		case KeyToken:
			rec.Token = value
		case KeyUser:
			var u domain.User
			if err := json.Unmarshal([]byte(value), &u); err != nil {
				return Record{}, fmt.Errorf("keystore.SQLStore.Load: decode user: %w: %w", ErrCorrupt, err)
			}
			rec.User = &u
		}
	}
	if err := rows.Err(); err != nil {
		return Record{}, fmt.Errorf("keystore.SQLStore.Load: %w", err)
	}
	return rec, nil
}

// Save replaces both entries in one transaction.
func (s *SQLStore) Save(ctx context.Context, rec Record) error {
	del, delArgs, err := s.deleteQuery()
	if err != nil {
		return fmt.Errorf("keystore.SQLStore.Save: %w", err)
	}

	ins := ssq.Insert(entriesTable).Columns("scope", "key", "value")
	rows := 0
	if rec.Token != "" {
		ins = ins.Values(s.scope, KeyToken, rec.Token)
		rows++
	}
	if rec.User != nil {
		data, err := json.Marshal(rec.User)
		if err != nil {
			return fmt.Errorf("keystore.SQLStore.Save: encode user: %w", err)
		}
		ins = ins.Values(s.scope, KeyUser, string(data))
		rows++
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("keystore.SQLStore.Save: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("keystore.SQLStore.Save: clear: %w", err)
	}
	if rows > 0 {
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("keystore.SQLStore.Save: build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("keystore.SQLStore.Save: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("keystore.SQLStore.Save: commit: %w", err)
	}
	return nil
}

// Clear deletes both entries of the scope.
func (s *SQLStore) Clear(ctx context.Context) error {
	query, args, err := s.deleteQuery()
	if err != nil {
		return fmt.Errorf("keystore.SQLStore.Clear: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("keystore.SQLStore.Clear: %w", err)
	}
	return nil
}

func (s *SQLStore) deleteQuery() (string, []any, error) {
	query, args, err := ssq.Delete(entriesTable).
		Where(sq.Eq{"scope": s.scope}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build delete: %w", err)
	}
	return query, args, nil
}

// Backend returns "sqlite".
func (s *SQLStore) Backend() string { return "sqlite" }

// Close closes the database.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
