package updater

import (
	"fmt"
	"strconv"
	"strings"
)

// Semver represents a semantic version.
type Semver struct {
	Major int
	Minor int
	Patch int
}

// ParseSemver parses a release tag like "1.2.3" or "v1.2.3". Pre-release and
// build suffixes ("v1.2.3-rc1") are ignored.
func ParseSemver(s string) (Semver, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Semver{}, fmt.Errorf("invalid semver: %q", s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Semver{}, fmt.Errorf("invalid semver component %q", p)
		}
		nums[i] = n
	}
	return Semver{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the version as "major.minor.patch".
func (v Semver) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// LessThan returns true if v < other.
func (v Semver) LessThan(other Semver) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// Compare describes moving from the installed tag to the latest one:
// "install", "reinstall", "upgrade" or "downgrade". Unparseable tags compare
// as plain strings.
func Compare(installed, latest string) string {
	if installed == "" {
		return "install"
	}
	if installed == latest {
		return "reinstall"
	}
	a, errA := ParseSemver(installed)
	b, errB := ParseSemver(latest)
	if errA != nil || errB != nil {
		return "upgrade"
	}
	switch {
	case a.LessThan(b):
		return "upgrade"
	case b.LessThan(a):
		return "downgrade"
	default:
		return "reinstall"
	}
}
