package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Row is one line of an accounts LEFT JOIN transactions query. The
// transaction columns are nil for accounts without transactions.
type Row struct {
	AccountID    string
	Nickname     string
	FinalPrice   string
	ItemName     *string
	Price        *string
	PurchaseDate *string
	Type         *string
	CoverImage   *string
}

// GroupRows folds joined rows into records, keeping first-seen account order.
// An unparseable transaction price is left absent.
func GroupRows(rows []Row) ([]AccountRecord, error) {
	index := make(map[string]int)
	var out []AccountRecord
	for _, row := range rows {
		i, ok := index[row.AccountID]
		if !ok {
			price, err := decimal.NewFromString(row.FinalPrice)
			if err != nil {
				return nil, fmt.Errorf("final_price for account %s: %w", row.AccountID, err)
			}
			out = append(out, AccountRecord{
				ID:           RecordID(row.AccountID),
				Nickname:     row.Nickname,
				FinalPrice:   price,
				Transactions: []TransactionRecord{},
			})
			i = len(out) - 1
			index[row.AccountID] = i
		}
		if row.ItemName == nil {
			continue
		}
		tr := TransactionRecord{
			ItemName:     *row.ItemName,
			PurchaseDate: row.PurchaseDate,
			CoverImage:   row.CoverImage,
			Type:         deref(row.Type),
		}
		if row.Price != nil {
			if p, err := decimal.NewFromString(*row.Price); err == nil {
				tr.Price = decimal.NewNullDecimal(p)
			}
		}
		out[i].Transactions = append(out[i].Transactions, tr)
	}
	return out, nil
}
