package extindex

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/albertocavalcante/go-extindex/index"
	"github.com/albertocavalcante/go-extindex/urlpolicy"
)

// Option configures validation behavior.
type Option func(*config) error

// config holds all validation configuration.
type config struct {
	failFast     bool
	concurrency  int
	requireMatch bool
	shapeCheck   bool
	policy       urlpolicy.Policy
	hasPolicy    bool

	// logger is the structured logger for debug and warning output.
	// If nil, logging is disabled (silent mode).
	logger *slog.Logger
}

// WithFailFast stops validation at the first violation. By default every
// violation in the document is reported.
func WithFailFast() Option {
	return func(c *config) error {
		c.failFast = true
		return nil
	}
}

// WithConcurrency validates up to n extensions in parallel. The result is
// the same as a sequential run, including error order.
func WithConcurrency(n int) Option {
	return func(c *config) error {
		c.concurrency = n
		return nil
	}
}

// WithRequireMatchingRepo rejects releases whose main_url lives in a
// different GitHub repository than the extension homepage.
func WithRequireMatchingRepo() Option {
	return func(c *config) error {
		c.requireMatch = true
		return nil
	}
}

// WithShapeCheck enables or disables the JSON Schema check that runs before
// decoding. It is enabled by default.
func WithShapeCheck(enabled bool) Option {
	return func(c *config) error {
		c.shapeCheck = enabled
		return nil
	}
}

// WithPolicy replaces the default URL host whitelist. Fields left empty keep
// their default values.
func WithPolicy(p urlpolicy.Policy) Option {
	return func(c *config) error {
		p = p.WithDefaults()
		if err := p.Check(); err != nil {
			return err
		}
		c.policy = p
		c.hasPolicy = true
		return nil
	}
}

// WithPolicyFile loads the URL host whitelist from a JSON, YAML or TOML file.
// Keys missing from the file keep their default values.
func WithPolicyFile(path string) Option {
	return func(c *config) error {
		p, err := urlpolicy.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load url policy: %w", err)
		}
		c.policy = p
		c.hasPolicy = true
		return nil
	}
}

// WithLogger sets a structured logger for validation diagnostics.
// If not set, logging is disabled (silent mode).
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "extindex")
//	idx, err := extindex.ValidateFile("index.json", extindex.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

func (c *config) validate() error {
	if c.concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	return nil
}

func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(slog.DiscardHandler)
}

// newConfig applies the given options to the defaults and validates the
// result.
func newConfig(opts ...Option) (*config, error) {
	c := &config{shapeCheck: true}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *config) toIndexOptions() index.Options {
	opts := index.Options{
		FailFast:            c.failFast,
		Concurrency:         c.concurrency,
		RequireMatchingRepo: c.requireMatch,
		Logger:              c.logger,
	}
	if c.hasPolicy {
		opts.Policy = c.policy
	}
	return opts
}
