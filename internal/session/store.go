package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned by Get and Update for an unknown session ID.
var ErrNotFound = errors.New("session: not found")

// Store persists sessions in a sqlite database. It is safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if necessary) the database at path and runs
// any pending schema migrations.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite serializes writers itself, but a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	// Closing m would close the shared *sql.DB; let it be collected.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a new session row.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (
			id, group_name, created_at, class, choice,
			email, photo_path, copies_printed, story_text, headline, mailing_list
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.GroupName, sess.CreatedAt, sess.Class, sess.Choice,
		sess.Email, sess.PhotoPath, sess.CopiesPrinted, sess.StoryText,
		sess.Headline, boolToInt(sess.MailingList),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// Update rewrites every mutable column of an existing session.
func (s *Store) Update(ctx context.Context, sess *Session) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE session SET
			group_name = ?, class = ?, choice = ?, email = ?,
			photo_path = ?, copies_printed = ?, story_text = ?,
			headline = ?, mailing_list = ?
		WHERE id = ?`,
		sess.GroupName, sess.Class, sess.Choice, sess.Email,
		sess.PhotoPath, sess.CopiesPrinted, sess.StoryText,
		sess.Headline, boolToInt(sess.MailingList), sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session %s: %w", sess.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session %s: %w", sess.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads a session by ID.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, group_name, created_at, class, choice,
		       email, photo_path, copies_printed, story_text, headline, mailing_list
		FROM session WHERE id = ?`, id)

	var sess Session
	var mailing int
	err := row.Scan(
		&sess.ID, &sess.GroupName, &sess.CreatedAt, &sess.Class, &sess.Choice,
		&sess.Email, &sess.PhotoPath, &sess.CopiesPrinted, &sess.StoryText,
		&sess.Headline, &mailing,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	sess.MailingList = mailing != 0
	return &sess, nil
}

// Recent returns up to limit sessions, newest first. Used by the
// operator view to eyeball the evening's traffic.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_name, created_at, class, choice,
		       email, photo_path, copies_printed, story_text, headline, mailing_list
		FROM session ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		var sess Session
		var mailing int
		if err := rows.Scan(
			&sess.ID, &sess.GroupName, &sess.CreatedAt, &sess.Class, &sess.Choice,
			&sess.Email, &sess.PhotoPath, &sess.CopiesPrinted, &sess.StoryText,
			&sess.Headline, &mailing,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.MailingList = mailing != 0
		out = append(out, &sess)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
