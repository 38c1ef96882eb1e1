package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-extindex/urlpolicy"
	"github.com/albertocavalcante/go-extindex/version"
)

// Sentinel errors, one per violated constraint. Use errors.Is on the error
// returned by a validator to test for a class of violation.
var (
	// ErrVersionGrammar indicates a string that is not a valid version.
	ErrVersionGrammar = version.ErrSyntax

	// ErrURLMalformed indicates a value that is not an absolute URL.
	ErrURLMalformed = urlpolicy.ErrMalformed

	// ErrURLScheme indicates a URL with a disallowed scheme.
	ErrURLScheme = urlpolicy.ErrScheme

	// ErrURLHost indicates a URL on a host outside the whitelist.
	ErrURLHost = urlpolicy.ErrHost

	// ErrURLPath indicates a primary URL that does not name a repository.
	ErrURLPath = urlpolicy.ErrPath

	// ErrRangeOrder indicates a version range whose max is below its min.
	ErrRangeOrder = errors.New("maximum version is below minimum version")

	// ErrExcludeOutOfRange indicates an excluded version outside [min, max].
	ErrExcludeOutOfRange = errors.New("excluded version outside the version range")

	// ErrMissingField indicates a required field that is absent or empty.
	ErrMissingField = errors.New("required field is missing")

	// ErrDuplicateName indicates two extensions sharing a name.
	ErrDuplicateName = errors.New("duplicate extension name")

	// ErrRepoMismatch indicates a release main_url outside the extension's
	// homepage repository. Only reported with Options.RequireMatchingRepo.
	ErrRepoMismatch = errors.New("release is not hosted in the extension repository")

	// ErrUnknownField indicates a document field that is not part of the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrShape indicates a document whose structure does not match the schema
	// (wrong JSON type, malformed syntax).
	ErrShape = errors.New("document does not match the index schema")
)

// FieldError represents a validation failure for a specific field.
type FieldError struct {
	Field string // Field path (e.g., "extensions[2].releases[0].version_range.excludes[1]")
	Value string // Offending raw value, empty for missing fields
	Err   error  // Cause; matches one of the sentinel errors via errors.Is
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the cause.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []*FieldError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&b, "\n  - %s", err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying errors for errors.Is/As compatibility.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add appends a validation error.
func (e *ValidationErrors) Add(field, value string, err error) {
	e.Errors = append(e.Errors, &FieldError{Field: field, Value: value, Err: err})
}

// AddError appends an existing FieldError.
func (e *ValidationErrors) AddError(err *FieldError) {
	e.Errors = append(e.Errors, err)
}

// HasErrors returns true if any errors were collected.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Fields returns the field path of every collected error, in report order.
func (e *ValidationErrors) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		fields[i] = err.Field
	}
	return fields
}

// ToError returns nil if no errors, otherwise returns self.
func (e *ValidationErrors) ToError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// collector accumulates errors for one validation pass. In fail-fast mode
// the first error makes stop report true and further adds are dropped.
type collector struct {
	errs     ValidationErrors
	failFast bool
}

func (c *collector) add(field, value string, err error) {
	if c.stop() {
		return
	}
	c.errs.Add(field, value, err)
}

func (c *collector) missing(field string) {
	c.add(field, "", ErrMissingField)
}

func (c *collector) stop() bool {
	return c.failFast && c.errs.HasErrors()
}

func (c *collector) merge(other *collector) {
	for _, err := range other.errs.Errors {
		if c.stop() {
			return
		}
		c.errs.AddError(err)
	}
}

// join builds a dotted field path.
func join(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

// elem builds an indexed field path.
func elem(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
