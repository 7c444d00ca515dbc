package core

import "strings"

const (
	CoverDir         = "/game-covers"
	CoverExt         = ".png"
	PlaceholderCover = "game-placeholder.png"
)

// CoverURL resolves a cover_image stem to its public path. No existence
// check is made; an empty stem yields the placeholder.
func CoverURL(stem string) string {
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return PlaceholderURL()
	}
	return CoverDir + "/" + stem + CoverExt
}

func PlaceholderURL() string {
	return CoverDir + "/" + PlaceholderCover
}
