package covers

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Super Mario Odyssey", "super-mario-odyssey"},
		{"The Legend of Zelda: Breath of the Wild", "the-legend-of-zelda-breath-of-the-wild"},
		{"  Pokémon Sword  ", "pok-mon-sword"},
		{"---Hades---", "hades"},
		{"Mario Kart 8 Deluxe", "mario-kart-8-deluxe"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
