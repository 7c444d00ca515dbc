package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"dekugames/internal/core"
)

type (
	// RecordID accepts both numeric and string identifiers.
	RecordID string

	// TransactionRecord is one account_transactions row as the hosted store returns it.
	TransactionRecord struct {
		ItemName     string              `json:"item_name"`
		Price        decimal.NullDecimal `json:"price"`
		PurchaseDate *string             `json:"purchase_date"`
		Type         string              `json:"type"`
		CoverImage   *string             `json:"cover_image"`
	}

	// AccountRecord is a nintendo_accounts row with embedded transactions.
	AccountRecord struct {
		ID           RecordID            `json:"id" validate:"required"`
		Nickname     string              `json:"nickname"`
		FinalPrice   decimal.Decimal     `json:"final_price" validate:"gte=0"`
		Transactions []TransactionRecord `json:"account_transactions" validate:"dive"`
	}

	// Rejection explains why a record was dropped.
	Rejection struct {
		ID     string
		Reason string
	}

	// Batch is the result of converting a set of records.
	Batch struct {
		Accounts []core.Account
		Rejected []Rejection
		// UnknownTypes counts transaction types defaulted to core.TypeOther.
		UnknownTypes map[string]int
		// BadDates counts purchase dates that did not parse and were left empty.
		BadDates int
		// DroppedTransactions counts transactions skipped for having no item name.
		DroppedTransactions int
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := d.Float64()
			return f
		case decimal.NullDecimal:
			if !d.Valid {
				return nil
			}
			f, _ := d.Decimal.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{})
	return v
}

func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// DecodeRecords parses a JSON array of account records.
func DecodeRecords(data []byte) ([]AccountRecord, error) {
	var recs []AccountRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode account records: %w", err)
	}
	return recs, nil
}

// Validate checks the record at the boundary.
func (r AccountRecord) Validate() error {
	return validate.Struct(r)
}

// Convert validates and converts records, keeping input order. Invalid
// accounts are rejected. A bad transaction never rejects its account:
// unknown types become core.TypeOther, unparseable dates are left empty
// and nameless transactions are skipped, each counted in the Batch.
func Convert(records []AccountRecord) Batch {
	b := Batch{
		Accounts:     make([]core.Account, 0, len(records)),
		UnknownTypes: map[string]int{},
	}
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			b.Rejected = append(b.Rejected, Rejection{ID: string(rec.ID), Reason: err.Error()})
			continue
		}
		b.Accounts = append(b.Accounts, rec.toAccount(&b))
	}
	return b
}

// Report logs rejected records and the counted transaction problems for source.
func (b Batch) Report(ctx context.Context, source string) {
	for _, r := range b.Rejected {
		slog.WarnContext(ctx, "Rejected inventory record", "source", source, "account_id", r.ID, "reason", r.Reason)
	}
	for typ, n := range b.UnknownTypes {
		slog.WarnContext(ctx, "Unknown transaction type defaulted", "source", source, "type", typ, "count", n)
	}
	if b.BadDates > 0 {
		slog.WarnContext(ctx, "Unparseable purchase dates left empty", "source", source, "count", b.BadDates)
	}
	if b.DroppedTransactions > 0 {
		slog.WarnContext(ctx, "Transactions without item name skipped", "source", source, "count", b.DroppedTransactions)
	}
}

func (r AccountRecord) toAccount(b *Batch) core.Account {
	acc := core.Account{
		ID:           string(r.ID),
		Nickname:     strings.TrimSpace(r.Nickname),
		FinalPrice:   r.FinalPrice,
		Transactions: make([]core.Transaction, 0, len(r.Transactions)),
	}
	for _, tr := range r.Transactions {
		name := strings.TrimSpace(tr.ItemName)
		if name == "" {
			b.DroppedTransactions++
			continue
		}
		typ, known := core.ParseTransactionType(tr.Type)
		if !known {
			b.UnknownTypes[tr.Type]++
		}
		t := core.Transaction{
			ItemName:   name,
			Type:       typ,
			CoverImage: strings.TrimSpace(deref(tr.CoverImage)),
		}
		if tr.Price.Valid {
			t.Price = tr.Price.Decimal
		}
		if d, err := core.ParseDate(deref(tr.PurchaseDate)); err == nil {
			t.PurchaseDate = d
		} else {
			b.BadDates++
		}
		acc.Transactions = append(acc.Transactions, t)
	}
	return acc
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
