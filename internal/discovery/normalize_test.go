package discovery

import (
	"strings"
	"testing"
)

func TestCanonicalCity(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		address   string
		want      string
	}{
		{name: "japanese osaka", requested: "Osaka", address: "大阪府大阪市北区", want: "Osaka"},
		{name: "japanese kyoto overrides requested", requested: "Osaka", address: "京都市下京区", want: "Kyoto"},
		{name: "romanized kobe", requested: "Kyoto", address: "Kobe Chuo-ku", want: "Kobe"},
		{name: "macron form", requested: "Nara", address: "Ōsaka Station", want: "Osaka"},
		{name: "no match keeps requested", requested: "Osaka", address: "somewhere else", want: "Osaka"},
		{name: "empty address", requested: "Kobe", address: "", want: "Kobe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canonicalCity(tt.requested, tt.address); got != tt.want {
				t.Errorf("canonicalCity(%q, %q) = %q, want %q", tt.requested, tt.address, got, tt.want)
			}
		})
	}
}

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		fee  string
		want string
	}{
		{fee: "", want: "Free"},
		{fee: "0", want: "Free"},
		{fee: "free", want: "Free"},
		{fee: "FREE", want: "Free"},
		{fee: "無料", want: "Free"},
		{fee: "500", want: "¥500"},
		{fee: "¥1000", want: "¥1000"},
		{fee: " 0 ", want: "Free"},
	}

	for _, tt := range tests {
		t.Run(tt.fee, func(t *testing.T) {
			if got := coercePrice(tt.fee); got != tt.want {
				t.Errorf("coercePrice(%q) = %q, want %q", tt.fee, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	long := strings.Repeat("a", 600)
	if got := truncate(long, 500); len(got) != 500 {
		t.Errorf("truncated length = %d, want 500", len(got))
	}
	// Multibyte text must not be split mid-rune.
	jp := strings.Repeat("大", 10)
	if got := truncate(jp, 5); got != strings.Repeat("大", 5) {
		t.Errorf("truncate multibyte = %q", got)
	}
}
