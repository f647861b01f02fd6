package natsort

import (
	"slices"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "R2", "R2", 0},
		{"numeric run", "R2", "R10", -1},
		{"numeric run long", "R10", "R100", -1},
		{"alpha before numbered", "A", "R2", -1},
		{"plain lexicographic", "GND", "VCC", -1},
		{"prefix", "R1", "R1A", -1},
		{"multiple runs", "P1.2", "P1.10", -1},
		{"leading zeros equal value", "7", "007", -1},
		{"empty left", "", "A", -1},
		{"empty both", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestSortOrder(t *testing.T) {
	names := []string{"R100", "A", "R2", "R10", "C1", "C10", "C2"}
	slices.SortFunc(names, Compare)

	want := []string{"A", "C1", "C2", "C10", "R2", "R10", "R100"}
	if !slices.Equal(names, want) {
		t.Errorf("sorted = %v, want %v", names, want)
	}
}
