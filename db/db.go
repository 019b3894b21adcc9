package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mattn/go-sqlite3"
)

//go:embed migration/*.sql
var migrationFS embed.FS

// DB is the connection to the sqlite database shared by the stores.
type DB struct {
	db  *sql.DB
	dsn string
}

// NewDB creates a new instance of a DB.
func NewDB(dsn string) *DB {
	return &DB{dsn: dsn}
}

// Open opens the connection to the database and runs pending migrations.
func (d *DB) Open() error {
	// Ensure a DSN is set before attempting to open the database.
	if d.dsn == "" {
		return fmt.Errorf("dsn required")
	}

	// Make the parent directory unless using an in-memory db.
	if d.dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(d.dsn), 0700); err != nil {
			return err
		}
	}

	var err error
	if d.db, err = sql.Open("sqlite3", d.dsn); err != nil {
		return err
	}

	// One connection: pragmas below apply to it, and an in-memory database
	// lives only as long as its connection.
	d.db.SetMaxOpenConns(1)
	d.db.SetMaxIdleConns(1)
	d.db.SetConnMaxLifetime(0)

	if _, err := d.db.Exec(`PRAGMA journal_mode = wal;`); err != nil {
		return fmt.Errorf("enable wal: %w", err)
	}

	// SQLite does not check foreign key constraints by default.
	if _, err := d.db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return fmt.Errorf("foreign keys pragma: %w", err)
	}

	if _, err := d.db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		return fmt.Errorf("busy timeout pragma: %w", err)
	}

	if err := d.migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

// Close closes the connection to the data store.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// migrate sets up migration tracking and executes pending migration files.
//
// Migration files are embedded from the migration folder and are executed in
// lexicographical order. Once a migration is run, its name is stored in the
// 'migrations' table so it is not re-executed.
func (d *DB) migrate() error {
	if _, err := d.db.Exec(`CREATE TABLE IF NOT EXISTS migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("cannot create migrations table: %w", err)
	}

	names, err := fs.Glob(migrationFS, "migration/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		if err := d.migrateFile(name); err != nil {
			return fmt.Errorf("migration error: name=%q err=%w", name, err)
		}
	}
	return nil
}

// migrateFile runs a single migration file within a transaction. On success,
// the migration file name is saved to the "migrations" table.
func (d *DB) migrateFile(name string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM migrations WHERE name = ?`, name).Scan(&n); err != nil {
		return err
	} else if n != 0 {
		return nil // already run migration, skip
	}

	buf, err := migrationFS.ReadFile(name)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(buf)); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT INTO migrations (name) VALUES (?)`, name); err != nil {
		return err
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
