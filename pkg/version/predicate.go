package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ShouldUpgrade decides whether a target version represents genuine forward
// progress for a declaration. It returns false when the declaration is not a
// valid version range, when it is constraint-only (no numeric body left after
// the prefix), when the target already satisfies the range, or when the
// target is behind everything the range could match.
func ShouldUpgrade(current, target string) bool {
	if ConstraintPrefix(current) == current {
		return false
	}

	rng, err := semver.NewConstraint(current)
	if err != nil {
		return false
	}

	t, err := semver.NewVersion(target)
	if err != nil {
		return false
	}

	// Already satisfied: nothing to do.
	if rng.Check(t) {
		return false
	}

	// Target below the range's lower bound: the registry is behind the
	// declaration, not ahead of it.
	if low := lowestVersionInRange(rng); low != nil && t.LessThan(low) {
		return false
	}

	return true
}

// lowestVersionInRange finds the lowest concrete version that satisfies the
// constraints, binary-searching each component within the probe bounds.
func lowestVersionInRange(c *semver.Constraints) *semver.Version {
	if c == nil {
		return nil
	}

	check := func(major, minor, patch int) (*semver.Version, bool) {
		v, _ := semver.NewVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
		return v, c.Check(v)
	}

	// Binary search for the lowest major accepted at X.0.0.
	left, right := 0, MAX_MAJOR
	minMajor := -1
	for left <= right {
		major := (left + right) / 2
		if _, ok := check(major, 0, 0); ok {
			minMajor = major
			right = major - 1
		} else {
			left = major + 1
		}
	}

	if minMajor == -1 {
		// No major accepted at minor/patch zero; fall back to a linear scan.
		for major := 0; major <= MAX_MAJOR; major++ {
			for minor := 0; minor <= MAX_MINOR; minor++ {
				for patch := 0; patch <= MAX_PATCH; patch++ {
					if v, ok := check(major, minor, patch); ok {
						return v
					}
				}
			}
		}
		return nil
	}

	// Binary search for the lowest minor within minMajor.
	left, right = 0, MAX_MINOR
	minMinor := -1
	for left <= right {
		minor := (left + right) / 2
		if _, ok := check(minMajor, minor, 0); ok {
			minMinor = minor
			right = minor - 1
		} else {
			left = minor + 1
		}
	}
	if minMinor == -1 {
		minMinor = 0
	}

	// Binary search for the lowest patch within minMajor.minMinor.
	left, right = 0, MAX_PATCH
	minPatch := -1
	for left <= right {
		patch := (left + right) / 2
		if _, ok := check(minMajor, minMinor, patch); ok {
			minPatch = patch
			right = patch - 1
		} else {
			left = patch + 1
		}
	}
	if minPatch == -1 {
		minPatch = 0
	}

	v, _ := check(minMajor, minMinor, minPatch)
	return v
}
