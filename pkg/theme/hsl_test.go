package theme

import (
	"errors"
	"testing"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want string
	}{
		{
			name: "pure red",
			hex:  "#ff0000",
			want: "0 100% 50%",
		},
		{
			name: "pure green",
			hex:  "#00ff00",
			want: "120 100% 50%",
		},
		{
			name: "pure blue",
			hex:  "#0000ff",
			want: "240 100% 50%",
		},
		{
			name: "white",
			hex:  "#ffffff",
			want: "0 0% 100%",
		},
		{
			name: "black",
			hex:  "#000000",
			want: "0 0% 0%",
		},
		{
			name: "mid gray",
			hex:  "#808080",
			want: "0 0% 50%",
		},
		{
			name: "default accent teal",
			hex:  "#2dd4bf",
			want: "172 66% 50%",
		},
		{
			name: "without hash prefix",
			hex:  "ff0000",
			want: "0 100% 50%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToHSL(tt.hex)
			if err != nil {
				t.Fatalf("HexToHSL(%q) error: %v", tt.hex, err)
			}
			if got.String() != tt.want {
				t.Errorf("HexToHSL(%q) = %q, want %q", tt.hex, got.String(), tt.want)
			}
		})
	}
}

func TestHexToHSLInvalid(t *testing.T) {
	tests := []struct {
		name string
		hex  string
	}{
		{name: "empty", hex: ""},
		{name: "too short", hex: "#fff"},
		{name: "too long", hex: "#ff00ff00"},
		{name: "not hex digits", hex: "#zzzzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HexToHSL(tt.hex)
			if err == nil {
				t.Fatalf("HexToHSL(%q): expected error, got nil", tt.hex)
			}
			if !errors.Is(err, domain.ErrInvalidHexColor) {
				t.Errorf("HexToHSL(%q) error = %v, want ErrInvalidHexColor", tt.hex, err)
			}
		})
	}
}

// Converting hex to HSL and back must reproduce the original color.
func TestHexHSLRoundTrip(t *testing.T) {
	colors := []string{
		"#0f766e",
		"#14b8a6",
		"#2dd4bf",
		"#1f2937",
		"#ffffff",
		"#000000",
		"#ff0000",
		"#00ff00",
		"#0000ff",
		"#112233",
		"#808080",
		"#abcdef",
	}

	for _, hex := range colors {
		hsl, err := HexToHSL(hex)
		if err != nil {
			t.Fatalf("HexToHSL(%q) error: %v", hex, err)
		}
		if got := hsl.Hex(); got != hex {
			t.Errorf("round trip %q -> %v -> %q", hex, hsl, got)
		}
	}
}
