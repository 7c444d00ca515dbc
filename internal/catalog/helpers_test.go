package catalog

import (
	"strconv"

	"github.com/shopspring/decimal"

	"dekugames/internal/core"
)

// account builds an account with g games and d DLCs named after nick.
func account(id, nick string, price int64, g, d int) core.Account {
	a := core.Account{ID: id, Nickname: nick, FinalPrice: decimal.NewFromInt(price)}
	for i := 0; i < g; i++ {
		a.Transactions = append(a.Transactions, core.Transaction{
			ItemName: nick + " game " + strconv.Itoa(i+1),
			Type:     core.TypeGame,
			Price:    decimal.NewFromInt(int64(10 * (i + 1))),
		})
	}
	for i := 0; i < d; i++ {
		a.Transactions = append(a.Transactions, core.Transaction{
			ItemName: nick + " dlc " + strconv.Itoa(i+1),
			Type:     core.TypeDLC,
		})
	}
	return a
}

func ids(accounts []core.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
