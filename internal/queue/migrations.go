package queue

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// migrate brings the schema up to date. Embedded scripts run in lexical
// order, each at most once; applied versions are remembered in the
// schema_migrations table. Everything happens in a single transaction.
func (s *Store) migrate(ctx context.Context) error {
	scripts, err := fs.Glob(schemaFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list schema scripts: %w", err)
	}
	sort.Strings(scripts)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, script := range scripts {
		version := strings.TrimSuffix(path.Base(script), ".sql")
		applied, err := schemaVersionApplied(ctx, tx, version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		body, err := schemaFS.ReadFile(script)
		if err != nil {
			return fmt.Errorf("read schema script %s: %w", script, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("run schema script %s: %w", script, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("record schema version %s: %w", version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema changes: %w", err)
	}
	return nil
}

func schemaVersionApplied(ctx context.Context, tx *sql.Tx, version string) (bool, error) {
	var n int
	row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("check schema version %s: %w", version, err)
	}
	return n > 0, nil
}
