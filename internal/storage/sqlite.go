package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"qotd/internal/question"
	logx "qotd/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = FULL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) Load(ctx context.Context) (question.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, answered FROM questions ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c := question.Collection{}
	for rows.Next() {
		var (
			q        question.Question
			answered int64
		)
		if err := rows.Scan(&q.ID, &q.Text, &answered); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		q.Answered = answered != 0
		c = append(c, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.log.Debug("state loaded", logx.Int("questions", len(c)))
	return c, nil
}

// Save rewrites the table in one transaction; a failed save rolls back to
// the previous state.
func (s *sqliteStore) Save(ctx context.Context, c question.Collection) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO questions(position, id, text, answered) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, q := range c {
		if _, err = stmt.ExecContext(ctx, i, q.ID, q.Text, boolInt(q.Answered)); err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("state saved", logx.Int("questions", len(c)))
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
