package extindex

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-extindex/index"
	"github.com/albertocavalcante/go-extindex/urlpolicy"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"json", "testdata/index.json"},
		{"yaml", "testdata/index.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := ValidateFile(tt.path)
			if err != nil {
				t.Fatalf("ValidateFile(%s) error: %v", tt.path, err)
			}
			want := []string{"QuPath WSInfer extension", "QuPath Align extension"}
			if diff := cmp.Diff(want, idx.Names()); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateFile_FormatsAgree(t *testing.T) {
	fromJSON, err := ValidateFile("testdata/index.json")
	if err != nil {
		t.Fatal(err)
	}
	fromYAML, err := ValidateFile("testdata/index.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromJSON.Raw(), fromYAML.Raw()); diff != "" {
		t.Errorf("JSON and YAML results differ (-json +yaml):\n%s", diff)
	}
}

func TestValidateFile_Errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "index.txt")
	if err := os.WriteFile(txt, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := ValidateFile(txt); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ValidateFile(.txt) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := ValidateFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ValidateFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestValidateJSON_ShapeCheck(t *testing.T) {
	// Two structural problems: the top-level description is missing and a
	// release carries an unknown key.
	doc := []byte(`{
		"name": "x",
		"extensions": [{
			"name": "a", "description": "b", "author": "c",
			"homepage": "https://github.com/a/b",
			"releases": [{"name": "v0.1.0", "main_url": "https://github.com/a/b/x.jar",
			              "version_range": {}, "checksum": "abc"}]
		}]
	}`)

	_, err := ValidateJSON(doc)
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want *ValidationErrors", err)
	}
	if len(verrs.Errors) != 2 {
		t.Errorf("shape check reported %d errors, want 2: %v", len(verrs.Errors), err)
	}
	if !errors.Is(err, ErrMissingField) || !errors.Is(err, ErrUnknownField) {
		t.Errorf("error = %v, want ErrMissingField and ErrUnknownField", err)
	}

	_, err = ValidateJSON(doc, WithFailFast())
	if !errors.As(err, &verrs) || len(verrs.Errors) != 1 {
		t.Errorf("fail-fast shape check error = %v, want exactly one", err)
	}

	// Without the shape check strict decoding still rejects the unknown key.
	_, err = ValidateJSON(doc, WithShapeCheck(false))
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("error = %v, want ErrUnknownField", err)
	}
}

func TestValidateJSON_Rules(t *testing.T) {
	doc := []byte(`{
		"name": "x",
		"description": "y",
		"extensions": [
			{"name": "a", "description": "b", "author": "c",
			 "homepage": "https://gitlab.com/a/b", "releases": []},
			{"name": "d", "description": "e", "author": "f",
			 "homepage": "https://github.com/d/e",
			 "releases": [{"name": "blah", "main_url": "https://github.com/d/e/x.jar",
			               "version_range": {"min": "v0.2.0", "max": "v0.1.0"}}]}
		]
	}`)

	_, err := ValidateJSON(doc)
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want *ValidationErrors", err)
	}
	want := []string{
		"extensions[0].homepage",
		"extensions[1].releases[0].name",
		"extensions[1].releases[0].version_range.max",
	}
	if diff := cmp.Diff(want, verrs.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	for _, sentinel := range []error{ErrURLHost, ErrVersionGrammar, ErrRangeOrder} {
		if !errors.Is(err, sentinel) {
			t.Errorf("error does not match %v", sentinel)
		}
	}
}

func TestValidateYAML_Invalid(t *testing.T) {
	if _, err := ValidateYAML([]byte("name: [")); !errors.Is(err, ErrShape) {
		t.Errorf("error = %v, want ErrShape", err)
	}
}

func TestValidate_Options(t *testing.T) {
	raw := index.RawIndex{
		Name:        "x",
		Description: "y",
		Extensions: []index.RawExtension{{
			Name:        "a",
			Description: "b",
			Author:      "c",
			Homepage:    "https://github.com/a/b",
			Releases: []index.RawRelease{{
				Name:         "v0.1.0",
				MainURL:      "https://github.com/other/repo/releases/download/v0.1.0/x.jar",
				VersionRange: &index.RawVersionRange{},
			}},
		}},
	}

	if _, err := Validate(raw); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if _, err := Validate(raw, WithRequireMatchingRepo()); !errors.Is(err, ErrRepoMismatch) {
		t.Errorf("WithRequireMatchingRepo error = %v, want ErrRepoMismatch", err)
	}
	if _, err := Validate(raw, WithConcurrency(-1)); err == nil {
		t.Error("negative concurrency should be rejected")
	}
	if _, err := Validate(raw, WithConcurrency(4)); err != nil {
		t.Errorf("WithConcurrency(4) error: %v", err)
	}
}

func TestValidate_WithPolicy(t *testing.T) {
	data, err := os.ReadFile("testdata/codeberg_index.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateYAML(data); !errors.Is(err, ErrURLHost) {
		t.Fatalf("default policy error = %v, want ErrURLHost", err)
	}
	if _, err := ValidateYAML(data, WithPolicyFile("testdata/codeberg_policy.yaml")); err != nil {
		t.Errorf("WithPolicyFile error: %v", err)
	}

	policy := urlpolicy.DefaultPolicy()
	policy.PrimaryHosts = append(policy.PrimaryHosts, "codeberg.org")
	if _, err := ValidateYAML(data, WithPolicy(policy)); err != nil {
		t.Errorf("WithPolicy error: %v", err)
	}

	// Unset fields fall back to the defaults, so codeberg.org is still refused.
	if _, err := ValidateYAML(data, WithPolicy(urlpolicy.Policy{Scheme: "https"})); !errors.Is(err, ErrURLHost) {
		t.Errorf("partial WithPolicy error = %v, want ErrURLHost", err)
	}
	if _, err := ValidateYAML(data, WithPolicy(urlpolicy.Policy{PrimaryHosts: []string{"codeberg.org", "github.com"}})); err != nil {
		t.Errorf("primary-only WithPolicy error: %v", err)
	}
	if _, err := ValidateYAML(data, WithPolicy(urlpolicy.Policy{PrimaryHosts: []string{""}})); err == nil {
		t.Error("WithPolicy should reject an empty host entry")
	}
	if _, err := ValidateYAML(data, WithPolicyFile("testdata/missing.yaml")); err == nil {
		t.Error("WithPolicyFile should fail for a missing file")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := ValidateFile("testdata/index.json", WithLogger(logger)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, msg := range []string{"validating index file", "index validated"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log output missing %q:\n%s", msg, out)
		}
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := newConfig()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.shapeCheck {
		t.Error("shape check should be enabled by default")
	}
	opts := cfg.toIndexOptions()
	if opts.FailFast || opts.Concurrency != 0 || opts.RequireMatchingRepo || opts.Logger != nil {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if len(opts.Policy.PrimaryHosts) != 0 {
		t.Errorf("default config should leave Policy zero, got %+v", opts.Policy)
	}
	if cfg.log() == nil {
		t.Error("log() must never return nil")
	}
}

func TestSentinelsMatchIndex(t *testing.T) {
	pairs := []struct {
		root, idx error
	}{
		{ErrVersionGrammar, index.ErrVersionGrammar},
		{ErrURLHost, index.ErrURLHost},
		{ErrRangeOrder, index.ErrRangeOrder},
		{ErrDuplicateName, index.ErrDuplicateName},
	}
	for _, p := range pairs {
		if p.root != p.idx {
			t.Errorf("%v is not re-exported unchanged", p.root)
		}
	}
}
