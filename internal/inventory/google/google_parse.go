package google

import (
	"fmt"
	"strings"

	"dekugames/internal/inventory"
)

// parseInventory turns the two value matrices into joined rows. Header
// names are matched case-insensitively. It returns the number of
// transactions whose account_id matched no account.
func parseInventory(accounts, transactions [][]interface{}) ([]inventory.Row, int, error) {
	if len(accounts) == 0 {
		return nil, 0, nil
	}
	ah := toStrings(accounts[0])
	colID, colNick, colPrice := indexOf(ah, "id"), indexOf(ah, "nickname"), indexOf(ah, "final_price")
	if colID == -1 || colPrice == -1 {
		return nil, 0, fmt.Errorf("unexpected accounts header: need id and final_price; got headers=%v", ah)
	}

	byAccount := map[string][]inventory.Row{}
	orphans := 0
	known := map[string]bool{}
	order := make([]inventory.Row, 0, len(accounts)-1)
	for i := 1; i < len(accounts); i++ {
		row := toStrings(accounts[i])
		id := strings.TrimSpace(safeGet(row, colID))
		if id == "" {
			continue
		}
		price := normalizeNumber(safeGet(row, colPrice))
		if price == "" {
			price = "0"
		}
		known[id] = true
		order = append(order, inventory.Row{AccountID: id, Nickname: safeGet(row, colNick), FinalPrice: price})
	}

	if len(transactions) > 0 {
		th := toStrings(transactions[0])
		colAcc := indexOf(th, "account_id")
		colName := indexOf(th, "item_name")
		if colAcc == -1 || colName == -1 {
			return nil, 0, fmt.Errorf("unexpected transactions header: need account_id and item_name; got headers=%v", th)
		}
		colTP, colDate := indexOf(th, "price"), indexOf(th, "purchase_date")
		colType, colCover := indexOf(th, "type"), indexOf(th, "cover_image")
		for i := 1; i < len(transactions); i++ {
			row := toStrings(transactions[i])
			acc := strings.TrimSpace(safeGet(row, colAcc))
			if !known[acc] {
				orphans++
				continue
			}
			r := inventory.Row{
				AccountID:    acc,
				ItemName:     optional(safeGet(row, colName)),
				Price:        optional(normalizeNumber(safeGet(row, colTP))),
				PurchaseDate: optional(safeGet(row, colDate)),
				Type:         optional(safeGet(row, colType)),
				CoverImage:   optional(safeGet(row, colCover)),
			}
			if r.ItemName == nil {
				continue
			}
			byAccount[acc] = append(byAccount[acc], r)
		}
	}

	var out []inventory.Row
	for _, a := range order {
		txs := byAccount[a.AccountID]
		if len(txs) == 0 {
			out = append(out, a)
			continue
		}
		for _, t := range txs {
			t.Nickname, t.FinalPrice = a.Nickname, a.FinalPrice
			out = append(out, t)
		}
	}
	return out, orphans, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// normalizeNumber strips currency symbols and accepts a decimal comma.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}
