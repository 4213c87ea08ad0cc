package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/zeu5/pacman-rl/policies"
)

// SQLiteStore keeps policies as rows of a single table.
type SQLiteStore struct {
	conn *sqlx.DB
}

var _ Store = &SQLiteStore{}

// PolicyInfo describes a stored policy without decoding it.
type PolicyInfo struct {
	Name      string `db:"name" json:"name"`
	Version   int    `db:"version" json:"version"`
	Entries   int    `db:"entries" json:"entries"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

type policyRow struct {
	PolicyInfo
	Data []byte `db:"data"`
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS policies (
		name TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		entries INTEGER NOT NULL,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, name string, table *policies.QTable) error {
	data, err := Marshal(table)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO policies (name, version, entries, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			entries = excluded.entries,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		name, Version, table.Len(), data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save policy %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string, table *policies.QTable) error {
	var row policyRow
	err := s.conn.GetContext(ctx, &row,
		"SELECT name, version, entries, data, updated_at FROM policies WHERE name = ?", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("load policy %s: %w", name, err)
	}
	if row.Version != Version {
		return fmt.Errorf("%w: row version %d", ErrIncompatible, row.Version)
	}
	return Unmarshal(row.Data, table)
}

// List returns the stored policies, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]PolicyInfo, error) {
	infos := make([]PolicyInfo, 0)
	err := s.conn.SelectContext(ctx, &infos,
		"SELECT name, version, entries, updated_at FROM policies ORDER BY updated_at DESC, name")
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return infos, nil
}
