package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
)

//go:embed *.sql
var migrationsFS embed.FS

var (
	// ErrReadMigrations возвращается, если не удалось прочитать встроенные миграции
	ErrReadMigrations = errors.New("migrations: failed to read migrations")

	// ErrApplyMigration возвращается, если миграция не применилась
	ErrApplyMigration = errors.New("migrations: failed to apply migration")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Files возвращает имена файлов миграций в порядке применения (001_..., 002_...)
func Files() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadMigrations, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names, nil
}

// Run применяет ещё не применённые миграции.
// Каждый файл выполняется в отдельной транзакции вместе с записью в schema_migrations.
func Run(ctx context.Context, db *sql.DB, log Logger) error {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return fmt.Errorf("%w: create schema_migrations: %v", ErrApplyMigration, err)
	}

	files, err := Files()
	if err != nil {
		return err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, name := range files {
		if applied[name] {
			continue
		}

		body, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrReadMigrations, name, err)
		}

		if err := apply(ctx, db, name, string(body)); err != nil {
			return err
		}
		log.Info("Migration applied: %s", name)
	}

	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	query, args, err := psqlbuilder.Select("version").From("schema_migrations").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", ErrApplyMigration, err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select versions: %v", ErrApplyMigration, err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%w: scan version: %v", ErrApplyMigration, err)
		}
		applied[v] = true
	}

	return applied, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, name, body string) error {
	insert, args, err := psqlbuilder.Insert("schema_migrations").
		Columns("version").
		Values(name).
		Suffix("ON CONFLICT (version) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s: build insert: %v", ErrApplyMigration, name, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: begin: %v", ErrApplyMigration, name, err)
	}

	if _, err := tx.ExecContext(ctx, body); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s: %v", ErrApplyMigration, name, err)
	}
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s: record version: %v", ErrApplyMigration, name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s: commit: %v", ErrApplyMigration, name, err)
	}

	return nil
}
