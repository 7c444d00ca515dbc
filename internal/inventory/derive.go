package inventory

import (
	"sort"
	"strings"

	"dekugames/internal/core"
)

// GameTitles returns the distinct game titles in alphabetical order.
func GameTitles(accounts []core.Account) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, a := range accounts {
		for _, t := range a.Transactions {
			if t.Type != core.TypeGame || t.ItemName == "" {
				continue
			}
			if _, ok := seen[t.ItemName]; ok {
				continue
			}
			seen[t.ItemName] = struct{}{}
			out = append(out, t.ItemName)
		}
	}
	sort.Strings(out)
	return out
}

// CoverRefs returns the set of cover_image values referenced by any transaction.
func CoverRefs(accounts []core.Account) map[string]struct{} {
	refs := map[string]struct{}{}
	for _, a := range accounts {
		for _, t := range a.Transactions {
			if c := strings.TrimSpace(t.CoverImage); c != "" {
				refs[c] = struct{}{}
			}
		}
	}
	return refs
}
