package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/saturnines/contrib-harvest/pkg/errors"
	"github.com/saturnines/contrib-harvest/pkg/github"
)

const sqliteDriverName = "sqlite"

// SQLiteSink appends the table to a SQLite database, one transaction per Write.
type SQLiteSink struct {
	db    *sql.DB
	table string
	runID string
}

// OpenSQLiteSink opens (or creates) the database at path and makes sure table
// exists. table must already be a validated identifier.
func OpenSQLiteSink(path, table, runID string) (*SQLiteSink, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, errors.Newf(errors.ErrConfiguration, "sqlite path must not be empty")
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.WrapError(err, errors.ErrExport, fmt.Sprintf("create sqlite directory %q", dir))
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrExport, fmt.Sprintf("open sqlite %q", cleanPath))
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.ErrExport, fmt.Sprintf("ping sqlite %q", cleanPath))
	}
	if err := migrate(db, table); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteSink{db: db, table: table, runID: runID}, nil
}

func migrate(db *sql.DB, table string) error {
	_, err := db.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id TEXT NOT NULL,
  date TEXT NOT NULL,
  contribution_count INTEGER NOT NULL,
  "user" TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_user_date ON %[1]s("user", date);
`, table))
	if err != nil {
		return errors.WrapError(err, errors.ErrExport, "migrate sqlite schema")
	}
	return nil
}

// Write inserts every row in order inside a single transaction.
func (s *SQLiteSink) Write(ctx context.Context, rows []github.ContributionDay) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapError(err, errors.ErrExport, "begin sqlite transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (run_id, date, contribution_count, "user") VALUES (?, ?, ?, ?)`, s.table))
	if err != nil {
		return errors.WrapError(err, errors.ErrExport, "prepare insert")
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, s.runID, r.Date, r.ContributionCount, r.User); err != nil {
			return errors.WrapError(err, errors.ErrExport, fmt.Sprintf("insert %s/%s", r.User, r.Date))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapError(err, errors.ErrExport, "commit sqlite transaction")
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
