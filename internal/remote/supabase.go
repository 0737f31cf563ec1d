// Package remote persists ledger state in Supabase. It serves two
// roles: a direct service.Gateway when the app runs against the remote
// store, and the upload target of the sync worker when the app runs on
// the local SQLite store.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/ledger"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/service"
)

const statesTable = "finance_states"

// stateRecord is the row shape of the states table. The document
// column holds the full exported ledger as JSON text.
type stateRecord struct {
	UserID    string    `json:"user_id"`
	Document  string    `json:"document"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SupabaseGateway struct {
	client *supabase.Client
}

func NewSupabaseGateway(url, key string) (*SupabaseGateway, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseGateway{client: client}, nil
}

// Load implements service.Gateway.
func (g *SupabaseGateway) Load(ctx context.Context, userID string) (*ledger.Ledger, error) {
	data, _, err := g.client.From(statesTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetch state: %w", err)
	}

	var records []stateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse state rows: %w", err)
	}
	if len(records) == 0 {
		return nil, service.ErrStateNotFound
	}

	state := ledger.New()
	if err := json.Unmarshal([]byte(records[0].Document), state); err != nil {
		return nil, fmt.Errorf("decode state document: %w", err)
	}
	return state, nil
}

// Save implements service.Gateway.
func (g *SupabaseGateway) Save(ctx context.Context, userID string, state *ledger.Ledger) error {
	document, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state document: %w", err)
	}
	return g.PushDocument(ctx, userID, string(document), 0)
}

// PushDocument upserts a raw state document, keyed by user. The sync
// worker calls this with the version from the local store.
func (g *SupabaseGateway) PushDocument(ctx context.Context, userID, document string, version int64) error {
	record := stateRecord{
		UserID:    userID,
		Document:  document,
		Version:   version,
		UpdatedAt: time.Now().UTC(),
	}
	_, _, err := g.client.From(statesTable).
		Insert(record, true, "user_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}
