package core

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SemVer is a major/minor/patch triple, stored in JSON as a three element array
type SemVer [3]int

var (
	// DefaultPackVersion is the version given to newly created packs
	DefaultPackVersion = SemVer{1, 0, 0}
	// DefaultMinEngineVersion is the minimum game version written to new manifests
	DefaultMinEngineVersion = SemVer{1, 16, 0}
)

// ParseSemVer parses versions such as "1", "1.2", "1.2.3" or "v1.2.3".
// Pre-release and build suffixes are not representable in a manifest, so they are rejected.
func ParseSemVer(s string) (SemVer, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return SemVer{}, newValidationError("version", fmt.Sprintf("%q is not a version: %v", s, err))
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return SemVer{}, newValidationError("version", fmt.Sprintf("%q must be plain major.minor.patch", s))
	}
	return SemVer{int(v.Major()), int(v.Minor()), int(v.Patch())}, nil
}

func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// Compare returns -1, 0 or 1 comparing v to o component by component
func (v SemVer) Compare(o SemVer) int {
	for i := range v {
		if v[i] < o[i] {
			return -1
		}
		if v[i] > o[i] {
			return 1
		}
	}
	return 0
}

// Validate rejects negative components, which can only come from a hand-edited file
func (v SemVer) Validate() error {
	for _, c := range v {
		if c < 0 {
			return newValidationError("version", fmt.Sprintf("%v has a negative component", [3]int(v)))
		}
	}
	return nil
}
