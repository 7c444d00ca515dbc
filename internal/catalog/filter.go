package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"dekugames/internal/core"
)

// Matches reports whether query is a case-insensitive substring of the
// nickname or of any item name whose type is in scope. A blank query
// matches everything.
func Matches(a core.Account, query string, scope ...core.TransactionType) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(query)
	if strings.Contains(fold.String(a.Nickname), needle) {
		return true
	}
	for _, t := range a.Transactions {
		if !inScope(t.Type, scope) {
			continue
		}
		if strings.Contains(fold.String(t.ItemName), needle) {
			return true
		}
	}
	return false
}

func inScope(typ core.TransactionType, scope []core.TransactionType) bool {
	for _, s := range scope {
		if s == typ {
			return true
		}
	}
	return false
}

// Filter keeps the accounts for which keep returns true.
func Filter(accounts []core.Account, keep func(core.Account) bool) []core.Account {
	out := make([]core.Account, 0, len(accounts))
	for _, a := range accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
