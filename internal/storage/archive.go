package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/jwebster45206/gossip-village/pkg/storage"
	_ "modernc.org/sqlite"
)

// DefaultArchiveLimit caps ListGames when the caller passes no limit.
const DefaultArchiveLimit = 50

// SQLiteArchive records finished games in a local SQLite file.
type SQLiteArchive struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Archive = (*SQLiteArchive)(nil)

// OpenArchive opens or creates the archive at path. ":memory:" is accepted.
func OpenArchive(path string, logger *slog.Logger) (*SQLiteArchive, error) {
	if path == "" {
		return nil, fmt.Errorf("empty archive path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initArchive(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteArchive{db: db, logger: logger}, nil
}

func initArchive(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS games (
			id          TEXT PRIMARY KEY,
			mode        TEXT NOT NULL,
			day         INTEGER NOT NULL,
			result      TEXT NOT NULL,
			reason      TEXT NOT NULL,
			objective   TEXT NOT NULL,
			finished_at INTEGER NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS games_finished_at ON games(finished_at);",
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to initialise archive: %w", err)
		}
	}
	return nil
}

func (a *SQLiteArchive) Ping(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("archive ping failed: %w", err)
	}
	return nil
}

func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// RecordGame upserts by game id, so a replayed worker message is harmless.
func (a *SQLiteArchive) RecordGame(ctx context.Context, g storage.ArchivedGame) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO games (id, mode, day, result, reason, objective, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode = excluded.mode,
			day = excluded.day,
			result = excluded.result,
			reason = excluded.reason,
			objective = excluded.objective,
			finished_at = excluded.finished_at`,
		g.ID.String(), string(g.Mode), g.Day, string(g.Result), g.Reason, g.Objective, g.FinishedAt.UnixMilli(),
	)
	if err != nil {
		if a.logger != nil {
			a.logger.Error("Failed to archive game", "game_id", g.ID, "error", err)
		}
		return fmt.Errorf("failed to archive game: %w", err)
	}
	return nil
}

// ListGames returns the most recently finished games first.
func (a *SQLiteArchive) ListGames(ctx context.Context, limit int) ([]storage.ArchivedGame, error) {
	if limit <= 0 {
		limit = DefaultArchiveLimit
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, mode, day, result, reason, objective, finished_at
		FROM games ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	games := []storage.ArchivedGame{}
	for rows.Next() {
		var (
			g                storage.ArchivedGame
			id, mode, result string
			finishedAt       int64
		)
		if err := rows.Scan(&id, &mode, &g.Day, &result, &g.Reason, &g.Objective, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archive row: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("bad game id %q in archive: %w", id, err)
		}
		g.ID = parsed
		g.Mode = state.GameMode(mode)
		g.Result = state.OutcomeResult(result)
		g.FinishedAt = time.UnixMilli(finishedAt).UTC()
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return games, nil
}
