// Package covers maintains the game cover image assets: fetching new covers,
// renaming title-code files and pruning files nothing references.
package covers

import "strings"

// Slug lowercases name, turns every character outside [a-z0-9] into a dash,
// collapses dash runs and trims leading and trailing dashes.
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
