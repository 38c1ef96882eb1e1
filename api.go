// Package extindex validates extension index documents.
//
// An index lists extensions for a host application. Each extension links to
// a GitHub repository and has releases whose artifacts are downloaded from
// GitHub or from a small set of Maven repositories, and whose compatibility
// with the host is expressed as a version range.
//
// # Overview
//
// The work is split across packages:
//
//   - version: the vMAJOR.MINOR.PATCH[-rcN] grammar and its total order
//   - urlpolicy: URL classes and the host whitelist
//   - index: document types, decoding, schema check and validation
//   - artifact: package URLs for release artifacts
//
// This package ties them together.
//
// # Quick Start
//
//	idx, err := extindex.ValidateFile("index.json")
//	if err != nil {
//	    var verrs *extindex.ValidationErrors
//	    if errors.As(err, &verrs) {
//	        for _, fe := range verrs.Errors {
//	            fmt.Println(fe.Field, fe.Err)
//	        }
//	    }
//	    return err
//	}
//	for _, ext := range idx.Extensions() {
//	    fmt.Println(ext.Name(), ext.Homepage())
//	}
//
// # Thread Safety
//
// All functions are safe for concurrent use and validated values are
// immutable.
package extindex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/go-extindex/index"
)

// Validate validates a decoded index document.
func Validate(raw index.RawIndex, opts ...Option) (index.Index, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return index.Index{}, err
	}
	return index.NewValidator(cfg.toIndexOptions()).Index(raw)
}

// ValidateJSON decodes and validates a JSON index document.
//
// Unless disabled with WithShapeCheck(false), the document is first checked
// against index.SchemaJSON so that structural problems are all reported
// together with their field paths.
func ValidateJSON(data []byte, opts ...Option) (index.Index, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return index.Index{}, err
	}
	return validateJSON(data, cfg)
}

// ValidateYAML decodes and validates a YAML index document. It applies the
// same rules as ValidateJSON.
func ValidateYAML(data []byte, opts ...Option) (index.Index, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return index.Index{}, err
	}
	js, err := index.YAMLToJSON(data)
	if err != nil {
		return index.Index{}, err
	}
	return validateJSON(js, cfg)
}

// ValidateFile reads and validates an index file. The format is chosen by
// file extension: .json, .yaml or .yml.
func ValidateFile(path string, opts ...Option) (index.Index, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return index.Index{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return index.Index{}, fmt.Errorf("read index file: %w", err)
	}

	cfg.log().Debug("validating index file", "path", path, "bytes", len(data))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return validateJSON(data, cfg)
	case ".yaml", ".yml":
		js, err := index.YAMLToJSON(data)
		if err != nil {
			return index.Index{}, fmt.Errorf("%s: %w", path, err)
		}
		return validateJSON(js, cfg)
	default:
		return index.Index{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func validateJSON(data []byte, cfg *config) (index.Index, error) {
	if cfg.shapeCheck {
		err := index.CheckShape(data)
		switch {
		case err == nil:
		case isDocumentError(err):
			if cfg.failFast {
				return index.Index{}, firstError(err)
			}
			return index.Index{}, err
		default:
			cfg.log().Warn("shape check unavailable, using strict decoding only", "error", err)
		}
	}

	raw, err := index.DecodeJSON(data)
	if err != nil {
		return index.Index{}, err
	}
	return index.NewValidator(cfg.toIndexOptions()).Index(raw)
}

// isDocumentError reports whether err describes the document rather than
// a failure to run the check.
func isDocumentError(err error) bool {
	var verrs *ValidationErrors
	var ferr *FieldError
	return errors.As(err, &verrs) || errors.As(err, &ferr)
}

// firstError trims a *ValidationErrors to its first entry.
func firstError(err error) error {
	var verrs *ValidationErrors
	if errors.As(err, &verrs) && len(verrs.Errors) > 1 {
		return &ValidationErrors{Errors: verrs.Errors[:1]}
	}
	return err
}
