// Package version implements the extension index version grammar and its
// ordering.
//
// Version format: v<MAJOR>.<MINOR>.<PATCH>[-rc<N>]
//   - MAJOR, MINOR, PATCH and N are non-negative decimal integers
//   - the leading "v" is mandatory
//   - no other pre-release labels and no build metadata are accepted
//
// Ordering compares (MAJOR, MINOR, PATCH) numerically. A release candidate
// sorts strictly before the final release with the same triple, and release
// candidates of the same triple sort by N.
package version

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("invalid version syntax")

var versionPattern = regexp.MustCompile(`^v([0-9]+)\.([0-9]+)\.([0-9]+)(?:-rc([0-9]+))?$`)

// Lowest is the lowest supported version and the default range minimum.
var Lowest = MustParse("v0.1.0")

// Version is a parsed, validated version. The zero value is not a valid
// version; use Parse.
type Version struct {
	raw   string
	major uint64
	minor uint64
	patch uint64
	rc    uint64
	isRC  bool
}

// ParseError describes why a string is not a valid version.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad version %q: %s", e.Input, e.Reason)
}

// Unwrap returns ErrSyntax.
func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

// Parse parses s into a Version.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, &ParseError{Input: s, Reason: "empty version"}
	}
	if s[0] != 'v' {
		return Version{}, &ParseError{Input: s, Reason: `missing "v" prefix`}
	}

	match := versionPattern.FindStringSubmatch(s)
	if match == nil {
		return Version{}, &ParseError{
			Input:  s,
			Reason: "must be of the form v[MAJOR].[MINOR].[PATCH] with an optional -rc[N] suffix, e.g. v0.6.0-rc1",
		}
	}

	v := Version{raw: s}
	var err error
	if v.major, err = parseComponent(s, match[1]); err != nil {
		return Version{}, err
	}
	if v.minor, err = parseComponent(s, match[2]); err != nil {
		return Version{}, err
	}
	if v.patch, err = parseComponent(s, match[3]); err != nil {
		return Version{}, err
	}
	if match[4] != "" {
		if v.rc, err = parseComponent(s, match[4]); err != nil {
			return Version{}, err
		}
		v.isRC = true
	}
	return v, nil
}

func parseComponent(input, digits string) (uint64, error) {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("component %q out of range", digits)}
	}
	return n, nil
}

// MustParse parses s or panics. Use only for constants/tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Valid reports whether s satisfies the version grammar.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// String returns the version exactly as it was parsed.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether v is the zero value.
func (v Version) IsZero() bool {
	return v.raw == ""
}

// Major returns the major component.
func (v Version) Major() uint64 { return v.major }

// Minor returns the minor component.
func (v Version) Minor() uint64 { return v.minor }

// Patch returns the patch component.
func (v Version) Patch() uint64 { return v.patch }

// RC returns the release candidate number. Only meaningful if IsRC is true.
func (v Version) RC() uint64 { return v.rc }

// IsRC reports whether v is a release candidate.
func (v Version) IsRC() bool { return v.isRC }

// Compare returns -1 if v < other, 0 if equal, and 1 if v > other.
func (v Version) Compare(other Version) int {
	return Compare(v, other)
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}

// Equal reports whether v and other have the same precedence.
func (v Version) Equal(other Version) bool {
	return Compare(v, other) == 0
}

// Compare compares two versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.major, b.major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.minor, b.minor); c != 0 {
		return c
	}
	if c := cmp.Compare(a.patch, b.patch); c != 0 {
		return c
	}

	// Release candidates sort before the final release.
	if a.isRC != b.isRC {
		if a.isRC {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.rc, b.rc)
}

// CompareStrings parses and compares two version strings.
func CompareStrings(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return Compare(va, vb), nil
}

// Sort sorts versions in ascending order.
func Sort(versions []Version) {
	slices.SortStableFunc(versions, Compare)
}

// Max returns the higher of two versions.
func Max(a, b Version) Version {
	if Compare(a, b) >= 0 {
		return a
	}
	return b
}
