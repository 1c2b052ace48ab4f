package version

import (
	"strings"
)

// IsWildcard reports whether a declaration component is a wildcard marker
// ("x" or "*"), meaning "any value accepted here".
func IsWildcard(token string) bool {
	return token == "x" || token == "*"
}

func isWildcardByte(c byte) bool {
	return c == 'x' || c == '*'
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

// compareDigit compares two version components, each either an integer
// literal or a wildcard marker. Wildcards compare equal to anything.
// Returns 1 if d1 > d2, -1 if d1 < d2, 0 otherwise.
func compareDigit(d1, d2 string) int {
	if d1 == d2 || IsWildcard(d1) || IsWildcard(d2) {
		return 0
	}
	a, b := atoi(d1), atoi(d2)
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// ConstraintPrefix returns the leading run of characters in a declaration
// that are neither digits nor wildcard markers: comparison operators,
// whitespace, and anything else the author wrote before the first version
// component. The prefix is stripped before digit-wise comparison and
// re-prepended to the upgraded result.
func ConstraintPrefix(declaration string) string {
	for i := 0; i < len(declaration); i++ {
		c := declaration[i]
		if isDigitByte(c) || isWildcardByte(c) {
			return declaration[:i]
		}
	}
	return declaration
}

// UpgradeDeclaration computes a new version declaration that advances
// `declaration` toward `target` while preserving the declaration's written
// style: wildcard components stay wildcards, the constraint prefix is kept
// verbatim, and the component count never exceeds what was written.
//
// The walk tracks a bumped flag: once a component is advanced, every later
// non-wildcard component snaps to the target's value, so "1.x" going to
// "2.x" cannot retain a stale trailing digit. A pinned component that is
// already ahead of the target adopts the target's value too, without
// setting the flag; the target is authoritative once cited.
func UpgradeDeclaration(declaration, target string) string {
	if target == "" {
		return declaration
	}

	prefix := ConstraintPrefix(declaration)
	body := declaration[len(prefix):]
	if body == "" {
		// Constraint-only declaration, nothing to advance.
		return prefix
	}

	current := strings.Split(body, ".")
	want := strings.Split(strings.TrimLeft(target, "vV"), ".")

	proposed := make([]string, 0, len(current))
	bumped := false
	for i, digit := range current {
		if i >= len(want) {
			// Target has fewer components; truncate the proposal here.
			break
		}
		if IsWildcard(digit) {
			proposed = append(proposed, digit)
			continue
		}
		switch cmp := compareDigit(digit, want[i]); {
		case cmp < 0:
			proposed = append(proposed, want[i])
			bumped = true
		case cmp > 0 && !bumped:
			proposed = append(proposed, want[i])
		case bumped:
			proposed = append(proposed, want[i])
		default:
			proposed = append(proposed, digit)
		}
	}

	return prefix + strings.Join(proposed, ".")
}
