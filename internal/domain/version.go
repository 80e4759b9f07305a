package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion accepts exact versions and the range prefixes package
// manifests commonly carry (^1.2.3, ~1.2.3, =1.2.3)
func ParseVersion(v string) (*semver.Version, error) {
	v = strings.TrimSpace(v)
	v = strings.TrimLeft(v, "^~=")
	return semver.NewVersion(v)
}

// CompareVersions orders versions by semver precedence. Unparsable versions
// (dist tags, garbage) sort after every parsable one.
func CompareVersions(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return va.Compare(vb)
}
