// Package sheets mirrors transactions to a Google spreadsheet so the
// data stays readable outside the app. The mirror is write-only and
// rebuilt wholesale on every sync.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
)

var headerRow = []any{"Date", "Type", "Name", "Category", "Amount"}

type Mirror struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

func NewMirror(ctx context.Context, cfg Config) (*Mirror, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Transactions"
	}

	credentials := []byte(cfg.CredentialsJSON)
	if len(credentials) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, errors.New("missing service account credentials")
		}
		var err error
		credentials, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Mirror{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// WriteTransactions replaces the sheet contents with the given
// transactions, oldest business date first.
func (m *Mirror) WriteTransactions(ctx context.Context, userID string, txs []core.Transaction) error {
	ordered := append([]core.Transaction(nil), txs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	values := make([][]any, 0, len(ordered)+1)
	values = append(values, headerRow)
	for _, t := range ordered {
		values = append(values, transactionRow(t))
	}

	clearRange := fmt.Sprintf("%s!A:E", m.sheetName)
	_, err := m.svc.Spreadsheets.Values.Clear(m.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	vr := &gsheet.ValueRange{Values: values}
	_, err = m.svc.Spreadsheets.Values.Update(m.spreadsheetID, fmt.Sprintf("%s!A1", m.sheetName), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}
	return nil
}

func transactionRow(t core.Transaction) []any {
	return []any{
		t.Date.Format("2006-01-02"),
		string(t.Type),
		t.Name,
		core.DisplayName(t.Type, t.Category),
		t.Amount.String(),
	}
}
