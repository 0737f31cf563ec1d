package service

import (
	"context"
	"errors"
	"time"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/ledger"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/log"
)

// ErrStateNotFound is returned by a Gateway when no state has been
// saved for the user yet.
var ErrStateNotFound = errors.New("no saved state for user")

// ErrDeclined is returned when the Notifier vetoes a destructive
// operation.
var ErrDeclined = errors.New("operation declined")

// Gateway persists per-user ledger state as one document.
type Gateway interface {
	Load(ctx context.Context, userID string) (*ledger.Ledger, error)
	Save(ctx context.Context, userID string, state *ledger.Ledger) error
}

// SyncPublisher announces that a user's state changed so the sync
// worker can push it to the remote stores. Publishing is best effort:
// failures are logged and never fail the mutation.
type SyncPublisher interface {
	PublishStateSync(ctx context.Context, userID string, version int64) error
}

// Notifier receives human-readable notices about completed mutations
// and is consulted before destructive ones. Confirm exists for clients
// that can actually ask the user; headless deployments answer true.
type Notifier interface {
	Notify(ctx context.Context, userID, message string)
	Confirm(ctx context.Context, userID, message string) bool
}

// LogNotifier writes notices to the log, standing in for client-side
// toasts when no richer channel is attached.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(ctx context.Context, userID, message string) {
	n.Logger.InfoContext(ctx, "notice", "user_id", userID, "message", message)
}

// Confirm always consents; there is nobody to ask on the server side.
func (n LogNotifier) Confirm(ctx context.Context, userID, message string) bool {
	return true
}

// Clock supplies the current instant so derived numbers are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
