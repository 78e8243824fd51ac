package taxonomy

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Science Fiction", "science-fiction"},
		{"TypeScript", "typescript"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"  Machine   Learning  ", "machine-learning"},
		{"C++", "c"},
		{"--leading--", "leading"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
