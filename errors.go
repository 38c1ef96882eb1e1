package extindex

import (
	"errors"

	"github.com/albertocavalcante/go-extindex/index"
)

// Sentinel errors. Every validation failure matches exactly one of these
// via errors.Is.
var (
	ErrVersionGrammar    = index.ErrVersionGrammar
	ErrURLMalformed      = index.ErrURLMalformed
	ErrURLScheme         = index.ErrURLScheme
	ErrURLHost           = index.ErrURLHost
	ErrURLPath           = index.ErrURLPath
	ErrRangeOrder        = index.ErrRangeOrder
	ErrExcludeOutOfRange = index.ErrExcludeOutOfRange
	ErrMissingField      = index.ErrMissingField
	ErrDuplicateName     = index.ErrDuplicateName
	ErrRepoMismatch      = index.ErrRepoMismatch
	ErrUnknownField      = index.ErrUnknownField
	ErrShape             = index.ErrShape

	// ErrUnsupportedFormat indicates a file extension other than .json,
	// .yaml or .yml.
	ErrUnsupportedFormat = errors.New("unsupported index file format")
)

type (
	// FieldError is a single violation with its field path.
	FieldError = index.FieldError

	// ValidationErrors is the error type returned when validation fails.
	ValidationErrors = index.ValidationErrors
)
