package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestShouldUpgrade(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		want    bool
	}{
		{"exact behind target", "1.0.0", "1.0.1", true},
		{"wildcard behind target", "1.2.x", "1.3.0", true},
		{"caret range behind target", "^1.2.0", "2.0.0", true},
		{"wildcard already satisfied", "2.x", "2.5.0", false},
		{"range already satisfied", ">=1.2.0", "1.5.0", false},
		{"exact already equal", "1.0.0", "1.0.0", false},
		{"target behind declaration", "2.0.0", "1.9.0", false},
		{"target behind caret range", "^3.1.0", "2.9.9", false},
		{"invalid range", "!!1.0.0", "1.0.0", false},
		{"constraint-only declaration", ">=", "1.0.0", false},
		{"empty declaration", "", "1.0.0", false},
		{"invalid target", "1.0.0", "not.a.version", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldUpgrade(tc.current, tc.target); got != tc.want {
				t.Errorf("ShouldUpgrade(%q, %q)=%v, want %v",
					tc.current, tc.target, got, tc.want)
			}
		})
	}
}

func TestLowestVersionInRange(t *testing.T) {
	tests := []struct {
		rng  string
		want string
	}{
		{"1.0.0", "1.0.0"},
		{">=2.0.0", "2.0.0"},
		{">=1.2.0, <2.0.0", "1.2.0"},
		{"^3.4.5", "3.4.5"},
		{"2.x", "2.0.0"},
	}

	for _, tc := range tests {
		c, err := semver.NewConstraint(tc.rng)
		if err != nil {
			t.Fatalf("constraint %q: %v", tc.rng, err)
		}
		got := lowestVersionInRange(c)
		if got == nil {
			t.Errorf("lowestVersionInRange(%q)=nil, want %q", tc.rng, tc.want)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("lowestVersionInRange(%q)=%q, want %q", tc.rng, got.String(), tc.want)
		}
	}
}
