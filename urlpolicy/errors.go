package urlpolicy

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per violated constraint.
var (
	// ErrMalformed indicates the value is not a syntactically valid absolute URL.
	ErrMalformed = errors.New("malformed URL")

	// ErrScheme indicates a disallowed URL scheme.
	ErrScheme = errors.New("URL scheme not allowed")

	// ErrHost indicates a host outside the policy whitelist.
	ErrHost = errors.New("URL host not allowed")

	// ErrPath indicates a path that does not have the required shape.
	ErrPath = errors.New("URL path not allowed")
)

// Kind names the constraint a URL violated.
type Kind int

const (
	KindMalformed Kind = iota
	KindScheme
	KindHost
	KindPath
)

func (k Kind) sentinel() error {
	switch k {
	case KindScheme:
		return ErrScheme
	case KindHost:
		return ErrHost
	case KindPath:
		return ErrPath
	default:
		return ErrMalformed
	}
}

func (k Kind) String() string {
	switch k {
	case KindScheme:
		return "scheme"
	case KindHost:
		return "host"
	case KindPath:
		return "path"
	default:
		return "syntax"
	}
}

// Error describes why a URL was rejected.
type Error struct {
	Class  Class
	Value  string
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s URL %q rejected (%s): %s", e.Class, e.Value, e.Kind, e.Detail)
}

// Unwrap returns the sentinel for the violated constraint.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}
