package domain

import (
	"errors"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"go.trai.ch/zerr"
)

// Constraint is a parsed version constraint such as ">=1.26,<2".
// The zero value matches every version.
type Constraint struct {
	raw     string
	parsed  goversion.Constraints
	isEmpty bool
}

// ParseConstraint parses a constraint expression. An empty expression yields
// a constraint that matches any version.
func ParseConstraint(expr string) (Constraint, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Constraint{isEmpty: true}, nil
	}

	// "==1.2.3" pins an exact version; go-version spells that "=1.2.3".
	normalized := strings.ReplaceAll(expr, "==", "=")

	parsed, err := goversion.NewConstraint(normalized)
	if err != nil {
		return Constraint{}, zerr.With(
			errors.Join(ErrInvalidConstraint, err),
			"constraint", expr,
		)
	}
	return Constraint{raw: expr, parsed: parsed}, nil
}

// Matches reports whether the version string satisfies the constraint.
// Unparseable versions never match a non-empty constraint.
func (c Constraint) Matches(versionStr string) bool {
	if c.isEmpty {
		return true
	}
	v, err := goversion.NewVersion(versionStr)
	if err != nil {
		return false
	}
	return c.parsed.Check(v)
}

// String returns the original constraint expression.
func (c Constraint) String() string {
	return c.raw
}

// CompareVersions orders two version strings. Versions that fail to parse
// sort before every parseable version.
func CompareVersions(a, b string) int {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	default:
		return va.Compare(vb)
	}
}
