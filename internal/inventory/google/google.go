package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"dekugames/internal/core"
	"dekugames/internal/inventory"
)

// Ensure interface conformance
var (
	_ inventory.AccountReader = (*Client)(nil)
	_ inventory.Pinger        = (*Client)(nil)
)

// Client reads inventory from a spreadsheet with an accounts tab and a
// transactions tab, one row per record.
type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	accountsSheet     string
	transactionsSheet string
}

// Config selects the spreadsheet and credentials.
type Config struct {
	SpreadsheetID      string
	AccountsSheet      string
	TransactionsSheet  string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// New creates a Sheets client using service account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.AccountsSheet == "" {
		cfg.AccountsSheet = "Accounts"
	}
	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "Transactions"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		accountsSheet:     cfg.AccountsSheet,
		transactionsSheet: cfg.TransactionsSheet,
	}, nil
}

// newSheetsService initializes a read-only Sheets Service.
// Falls back to GOOGLE_APPLICATION_CREDENTIALS when neither JSON nor file is set.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credsJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	credsFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if credsJSON == "" && credsFile == "" {
		credsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var data []byte
	switch {
	case credsJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		data = []byte(credsJSON)
	case credsFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", credsFile)
		b, err := os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		data = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(data),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ListAccounts reads both tabs in one batch call.
func (c *Client) ListAccounts(ctx context.Context) ([]core.Account, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.BatchGet(c.spreadsheetID).
		Ranges(c.accountsSheet+"!A:Z", c.transactionsSheet+"!A:Z").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("batch get inventory: %w", err)
	}
	if len(resp.ValueRanges) != 2 {
		return nil, fmt.Errorf("batch get inventory: expected 2 ranges, got %d", len(resp.ValueRanges))
	}

	rows, orphans, err := parseInventory(resp.ValueRanges[0].Values, resp.ValueRanges[1].Values)
	if err != nil {
		return nil, err
	}
	if orphans > 0 {
		slog.WarnContext(ctx, "Transactions reference unknown accounts", "count", orphans, "sheet", c.transactionsSheet)
	}
	recs, err := inventory.GroupRows(rows)
	if err != nil {
		return nil, err
	}
	batch := inventory.Convert(recs)
	batch.Report(ctx, "sheets")
	return batch.Accounts, nil
}

// Ping checks the spreadsheet is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	return nil
}
