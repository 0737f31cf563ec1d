// Package storage is the local SQLite persistence layer. Each user's
// ledger is stored as a single JSON document with a version counter
// and a sync flag the worker uses to find states pending upload.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/ledger"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/service"

	_ "modernc.org/sqlite"
)

type SQLiteGateway struct {
	db *sql.DB
}

func NewSQLiteGateway(dbPath string) (*SQLiteGateway, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteGateway{db: db}, nil
}

func (g *SQLiteGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

// Load implements service.Gateway.
func (g *SQLiteGateway) Load(ctx context.Context, userID string) (*ledger.Ledger, error) {
	var document string
	err := g.db.QueryRowContext(ctx,
		`SELECT document FROM states WHERE user_id = ?`, userID,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	state := ledger.New()
	if err := json.Unmarshal([]byte(document), state); err != nil {
		return nil, fmt.Errorf("decode state document: %w", err)
	}
	return state, nil
}

// Save implements service.Gateway. Every save bumps the version and
// marks the row as pending sync.
func (g *SQLiteGateway) Save(ctx context.Context, userID string, state *ledger.Ledger) error {
	document, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state document: %w", err)
	}

	_, err = g.db.ExecContext(ctx, `
		INSERT INTO states (user_id, document, version, synced, updated_at)
		VALUES (?, ?, 1, 0, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			document   = excluded.document,
			version    = states.version + 1,
			synced     = 0,
			updated_at = excluded.updated_at`,
		userID, string(document), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	slog.DebugContext(ctx, "state saved to sqlite", "user_id", userID)
	return nil
}

// Document returns the raw stored JSON and its version, for the sync
// worker to push upstream without re-encoding.
func (g *SQLiteGateway) Document(ctx context.Context, userID string) (string, int64, error) {
	var document string
	var version int64
	err := g.db.QueryRowContext(ctx,
		`SELECT document, version FROM states WHERE user_id = ?`, userID,
	).Scan(&document, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, service.ErrStateNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("load state document: %w", err)
	}
	return document, version, nil
}

// PendingState identifies one state awaiting upload.
type PendingState struct {
	UserID  string
	Version int64
}

// PendingSync returns states that changed since their last upload,
// oldest first.
func (g *SQLiteGateway) PendingSync(ctx context.Context, limit int) ([]PendingState, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT user_id, version FROM states
		WHERE synced = 0
		ORDER BY updated_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending states: %w", err)
	}
	defer rows.Close()

	var out []PendingState
	for rows.Next() {
		var p PendingState
		if err := rows.Scan(&p.UserID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending state: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful upload. The version guard keeps a
// save that raced the upload marked as pending.
func (g *SQLiteGateway) MarkSynced(ctx context.Context, userID string, version int64) error {
	_, err := g.db.ExecContext(ctx,
		`UPDATE states SET synced = 1 WHERE user_id = ? AND version <= ?`,
		userID, version)
	if err != nil {
		return fmt.Errorf("mark state synced: %w", err)
	}
	slog.InfoContext(ctx, "state marked as synced", "user_id", userID, "version", version)
	return nil
}
