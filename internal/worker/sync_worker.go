// Package worker uploads locally saved state to the remote stores. It
// consumes sync messages from AMQP and also sweeps the local store for
// states the message path missed.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/amqp"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/ledger"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/storage"
)

// RemotePusher uploads one user's raw state document.
type RemotePusher interface {
	PushDocument(ctx context.Context, userID, document string, version int64) error
}

// TransactionMirror mirrors a user's transactions to a secondary,
// human-readable store.
type TransactionMirror interface {
	WriteTransactions(ctx context.Context, userID string, txs []core.Transaction) error
}

type SyncWorker struct {
	storage   *storage.SQLiteGateway
	remote    RemotePusher
	mirror    TransactionMirror
	batchSize int
}

// NewSyncWorker builds a worker. mirror may be nil when no spreadsheet
// is configured.
func NewSyncWorker(storage *storage.SQLiteGateway, remote RemotePusher, mirror TransactionMirror, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		remote:    remote,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one state sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.StateSyncMessage) error {
	slog.InfoContext(ctx, "processing sync message",
		"user_id", msg.UserID,
		"version", msg.Version)
	return w.syncUser(ctx, msg.UserID)
}

// ProcessPending sweeps states the message path missed. This is the
// backup mechanism for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending states: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "processing pending states", "count", len(pending))
	for _, p := range pending {
		if err := w.syncUser(ctx, p.UserID); err != nil {
			slog.ErrorContext(ctx, "failed to sync state", "user_id", p.UserID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck uploads everything left pending while the worker
// was down. Uses a larger batch than the periodic sweep.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending states for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "no pending states found on startup")
		return nil
	}

	slog.InfoContext(ctx, "found pending states on startup", "count", len(pending))
	synced, failed := 0, 0
	for _, p := range pending {
		if err := w.syncUser(ctx, p.UserID); err != nil {
			slog.ErrorContext(ctx, "failed to sync state during startup",
				"user_id", p.UserID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

// syncUser pushes the current local document upstream and marks the
// uploaded version as synced. The message version is ignored on
// purpose: the local store always has the newest document, so pushing
// it satisfies every older message too.
func (w *SyncWorker) syncUser(ctx context.Context, userID string) error {
	document, version, err := w.storage.Document(ctx, userID)
	if err != nil {
		return fmt.Errorf("load state document: %w", err)
	}

	if err := w.remote.PushDocument(ctx, userID, document, version); err != nil {
		return fmt.Errorf("push state: %w", err)
	}

	if w.mirror != nil {
		state := ledger.New()
		if err := json.Unmarshal([]byte(document), state); err != nil {
			slog.ErrorContext(ctx, "failed to decode state for mirror",
				"user_id", userID, "error", err)
		} else if err := w.mirror.WriteTransactions(ctx, userID, state.Transactions); err != nil {
			// Mirror failures do not block the sync; the remote store
			// already has the document.
			slog.ErrorContext(ctx, "failed to mirror transactions",
				"user_id", userID, "error", err)
		}
	}

	if err := w.storage.MarkSynced(ctx, userID, version); err != nil {
		slog.ErrorContext(ctx, "failed to mark state synced",
			"user_id", userID, "version", version, "error", err)
		// The upload worked; the sweep will retry the flag.
	}

	slog.InfoContext(ctx, "state synced",
		"user_id", userID,
		"version", version)
	return nil
}
