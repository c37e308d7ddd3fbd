// Package migrations embeds the SQL schema files and applies them in order,
// recording each applied version in schema_migrations.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

//go:embed *.sql
var files embed.FS

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Status describes one migration version and whether it has been applied.
type Status struct {
	Version   string
	Applied   bool
	AppliedAt time.Time
}

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// Versions returns the sorted migration versions found in the embedded files.
func Versions() ([]string, error) {
	names, err := fs.Glob(files, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	versions := make([]string, 0, len(names))
	for _, name := range names {
		versions = append(versions, strings.TrimSuffix(name, ".up.sql"))
	}
	sort.Strings(versions)

	return versions, nil
}

// Run applies pending migrations (Up) or reverts applied ones (Down). steps
// limits how many versions are processed; zero means all. It returns the
// versions it processed, in execution order.
func Run(ctx context.Context, db *sql.DB, direction Direction, steps int) ([]string, error) {
	if direction != Up && direction != Down {
		return nil, fmt.Errorf("direction must be %q or %q", Up, Down)
	}

	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	statuses, err := Statuses(ctx, db)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, st := range statuses {
		if direction == Up && !st.Applied {
			pending = append(pending, st.Version)
		}
		if direction == Down && st.Applied {
			pending = append(pending, st.Version)
		}
	}

	if direction == Down {
		for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
			pending[i], pending[j] = pending[j], pending[i]
		}
	}

	if steps > 0 && steps < len(pending) {
		pending = pending[:steps]
	}

	for _, version := range pending {
		if err := apply(ctx, db, version, direction); err != nil {
			return nil, err
		}
	}

	return pending, nil
}

func Statuses(ctx context.Context, db *sql.DB) ([]Status, error) {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	versions, err := Versions()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var version string
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[version] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	statuses := make([]Status, 0, len(versions))
	for _, version := range versions {
		at, ok := applied[version]
		statuses = append(statuses, Status{Version: version, Applied: ok, AppliedAt: at})
	}

	return statuses, nil
}

func apply(ctx context.Context, db *sql.DB, version string, direction Direction) error {
	filename := fmt.Sprintf("%s.%s.sql", version, direction)
	content, err := files.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read migration file %s: %w", filename, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", filename, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("execute migration %s: %w", filename, err)
	}

	if direction == Up {
		_, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version)
	}
	if err != nil {
		return fmt.Errorf("record migration %s: %w", filename, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", filename, err)
	}

	return nil
}
