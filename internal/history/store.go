// Package history persists best-effort watch history. The backend is picked
// once at startup from configuration: postgres when a database URL is set, a
// local SQLite file when a path is set, and process memory otherwise.
package history

import (
	"context"
	"errors"
	"log/slog"
)

// ErrIncompleteEntry rejects history entries missing their identifying fields.
var ErrIncompleteEntry = errors.New("history entry requires movieId, title and detailPath")

// Entry is one watch-history record.
type Entry struct {
	ID         int64  `json:"id"`
	MovieID    string `json:"movieId"`
	Title      string `json:"title"`
	Poster     string `json:"poster"`
	DetailPath string `json:"detailPath"`
	WatchedAt  int64  `json:"watchedAt"`
}

func (e Entry) valid() bool {
	return e.MovieID != "" && e.Title != "" && e.DetailPath != ""
}

// Store persists watch history.
type Store interface {
	// Add appends an entry and returns it with its assigned id.
	Add(ctx context.Context, e Entry) (Entry, error)
	// List returns entries newest-first.
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Config selects the backend. DatabaseURL wins over SQLitePath; with neither
// set history lives in process memory and dies with the process.
type Config struct {
	DatabaseURL string
	SQLitePath  string
}

// Open constructs the configured backend.
func Open(cfg Config) (Store, error) {
	log := slog.With("component", "history")
	switch {
	case cfg.DatabaseURL != "":
		log.Info("watch history backed by postgres")
		return openSQL("pgx", cfg.DatabaseURL)
	case cfg.SQLitePath != "":
		log.Info("watch history backed by sqlite", "path", cfg.SQLitePath)
		return openSQL("sqlite", cfg.SQLitePath)
	default:
		log.Info("no history database configured, using in-memory store")
		return NewMemory(), nil
	}
}
