package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS watch_history (
	id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	movie_id    TEXT NOT NULL,
	title       TEXT NOT NULL,
	poster      TEXT NOT NULL DEFAULT '',
	detail_path TEXT NOT NULL,
	watched_at  BIGINT NOT NULL
)`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS watch_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	movie_id    TEXT NOT NULL,
	title       TEXT NOT NULL,
	poster      TEXT NOT NULL DEFAULT '',
	detail_path TEXT NOT NULL,
	watched_at  INTEGER NOT NULL
)`

// listLimit bounds history reads; the frontend renders a single page of it.
const listLimit = 100

// SQLStore backs watch history with either postgres (driver "pgx") or a
// local SQLite file (driver "sqlite") through database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func openSQL(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	ddl := schema
	if driver == "sqlite" {
		ddl = schemaSQLite
	}
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

// bind rewrites $n placeholders for SQLite, which only speaks ?.
func (s *SQLStore) bind(query string) string {
	if s.driver != "sqlite" {
		return query
	}
	for i := 9; i >= 1; i-- {
		query = strings.ReplaceAll(query, "$"+strconv.Itoa(i), "?")
	}
	return query
}

// Add inserts an entry and returns it with the database-assigned id.
func (s *SQLStore) Add(ctx context.Context, e Entry) (Entry, error) {
	if !e.valid() {
		return Entry{}, ErrIncompleteEntry
	}
	row := s.db.QueryRowContext(ctx, s.bind(`
		INSERT INTO watch_history (movie_id, title, poster, detail_path, watched_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`),
		e.MovieID, e.Title, e.Poster, e.DetailPath, e.WatchedAt,
	)
	if err := row.Scan(&e.ID); err != nil {
		return Entry{}, fmt.Errorf("insert history entry: %w", err)
	}
	return e, nil
}

// List returns the most recent entries, newest-first.
func (s *SQLStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT id, movie_id, title, poster, detail_path, watched_at
		FROM watch_history
		ORDER BY watched_at DESC, id DESC
		LIMIT $1`),
		listLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.MovieID, &e.Title, &e.Poster, &e.DetailPath, &e.WatchedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
