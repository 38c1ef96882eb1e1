package index

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/albertocavalcante/go-extindex/urlpolicy"
	"github.com/albertocavalcante/go-extindex/version"
)

// Options configures a Validator. The zero value validates with the default
// URL policy, reports every violation, runs sequentially and logs nothing.
type Options struct {
	// Policy is the URL host whitelist. Empty fields are taken from
	// urlpolicy.DefaultPolicy(); a zero Policy is the default policy.
	Policy urlpolicy.Policy

	// FailFast stops at the first violation instead of collecting all of them.
	FailFast bool

	// Concurrency bounds how many extensions are validated in parallel.
	// Values below 2 validate sequentially. Results do not depend on it.
	Concurrency int

	// RequireMatchingRepo requires every release main_url to live in the
	// same GitHub owner/repo as the extension homepage.
	RequireMatchingRepo bool

	// Logger receives debug and warning records. If nil, logging is disabled.
	Logger *slog.Logger
}

// Validator validates raw index documents and builds immutable values from
// them. A Validator is safe for concurrent use.
type Validator struct {
	policy       urlpolicy.Policy
	failFast     bool
	concurrency  int
	requireMatch bool
	logger       *slog.Logger
}

// NewValidator creates a Validator.
func NewValidator(opts Options) *Validator {
	policy := opts.Policy.WithDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{
		policy:       policy,
		failFast:     opts.FailFast,
		concurrency:  opts.Concurrency,
		requireMatch: opts.RequireMatchingRepo,
		logger:       logger,
	}
}

var defaultValidator = NewValidator(Options{})

// ValidateRange validates a version range with default options.
func ValidateRange(raw RawVersionRange) (VersionRange, error) {
	return defaultValidator.Range(raw)
}

// ValidateRelease validates a release with default options.
func ValidateRelease(raw RawRelease) (Release, error) {
	return defaultValidator.Release(raw)
}

// ValidateExtension validates an extension with default options.
func ValidateExtension(raw RawExtension) (Extension, error) {
	return defaultValidator.Extension(raw)
}

// ValidateIndex validates a whole index document with default options.
func ValidateIndex(raw RawIndex) (Index, error) {
	return defaultValidator.Index(raw)
}

// Range validates a version range. Field paths in errors are relative to
// the range ("min", "excludes[0]", ...).
func (v *Validator) Range(raw RawVersionRange) (VersionRange, error) {
	c := v.newCollector()
	r := v.versionRange("", raw, c)
	if err := c.errs.ToError(); err != nil {
		return VersionRange{}, err
	}
	return r, nil
}

// Release validates a release.
func (v *Validator) Release(raw RawRelease) (Release, error) {
	c := v.newCollector()
	r := v.release("", raw, c)
	if err := c.errs.ToError(); err != nil {
		return Release{}, err
	}
	return r, nil
}

// Extension validates an extension and its releases.
func (v *Validator) Extension(raw RawExtension) (Extension, error) {
	c := v.newCollector()
	e := v.extension("", raw, c)
	if err := c.errs.ToError(); err != nil {
		return Extension{}, err
	}
	return e, nil
}

// Index validates a whole document: every extension, then extension name
// uniqueness across the document.
func (v *Validator) Index(raw RawIndex) (Index, error) {
	c := v.newCollector()

	if raw.Name == "" {
		c.missing("name")
	}
	if raw.Description == "" {
		c.missing("description")
	}

	extensions, ok := v.extensions(raw.Extensions, c)
	if !c.stop() {
		checkDuplicateNames(extensions, ok, c)
	}

	if err := c.errs.ToError(); err != nil {
		v.logger.Debug("index rejected", "name", raw.Name, "errors", len(c.errs.Errors))
		return Index{}, err
	}

	byName := make(map[string]int, len(extensions))
	for i, e := range extensions {
		byName[e.name] = i
	}
	v.logger.Debug("index validated", "name", raw.Name, "extensions", len(extensions))
	return Index{
		name:        raw.Name,
		description: raw.Description,
		extensions:  extensions,
		byName:      byName,
	}, nil
}

func (v *Validator) newCollector() *collector {
	return &collector{failFast: v.failFast}
}

// extensions validates each extension with its own collector and merges the
// results in document order. ok[i] reports whether extension i validated.
func (v *Validator) extensions(raws []RawExtension, c *collector) ([]Extension, []bool) {
	out := make([]Extension, len(raws))
	ok := make([]bool, len(raws))
	results := make([]*collector, len(raws))

	validateOne := func(i int) {
		ec := v.newCollector()
		out[i] = v.extension(elem("extensions", i), raws[i], ec)
		ok[i] = !ec.errs.HasErrors()
		results[i] = ec
	}

	if v.concurrency > 1 && len(raws) > 1 {
		var g errgroup.Group
		g.SetLimit(v.concurrency)
		for i := range raws {
			g.Go(func() error {
				validateOne(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range raws {
			validateOne(i)
			if v.failFast && !ok[i] {
				results = results[:i+1]
				break
			}
		}
	}

	for _, ec := range results {
		if ec != nil {
			c.merge(ec)
		}
	}
	return out, ok
}

// checkDuplicateNames reports every repeated extension name. Names are
// reported in order of first occurrence; each later occurrence is an error.
func checkDuplicateNames(extensions []Extension, ok []bool, c *collector) {
	first := make(map[string]int)
	repeats := make(map[string][]int)
	for i, e := range extensions {
		if !ok[i] {
			continue
		}
		if _, seen := first[e.name]; !seen {
			first[e.name] = i
			continue
		}
		repeats[e.name] = append(repeats[e.name], i)
	}

	names := slices.Collect(maps.Keys(repeats))
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Compare(first[a], first[b])
	})
	for _, name := range names {
		for _, i := range repeats[name] {
			c.add(join(elem("extensions", i), "name"), name,
				fmt.Errorf("%w: %q already used by extensions[%d]", ErrDuplicateName, name, first[name]))
		}
	}
}

func (v *Validator) extension(path string, raw RawExtension, c *collector) Extension {
	out := Extension{
		name:        raw.Name,
		description: raw.Description,
		author:      raw.Author,
	}

	for _, f := range []struct{ field, value string }{
		{"name", raw.Name},
		{"description", raw.Description},
		{"author", raw.Author},
	} {
		if f.value == "" {
			c.missing(join(path, f.field))
		}
	}

	if raw.Homepage == "" {
		c.missing(join(path, "homepage"))
	} else if u, ok := v.url(join(path, "homepage"), raw.Homepage, urlpolicy.Primary, c); ok {
		out.homepage = u
	}

	if len(raw.Releases) == 0 {
		v.logger.Warn("extension has no releases", "extension", raw.Name)
	}

	out.releases = make([]Release, 0, len(raw.Releases))
	for i, rr := range raw.Releases {
		if c.stop() {
			break
		}
		rpath := join(path, elem("releases", i))
		r := v.release(rpath, rr, c)
		if v.requireMatch {
			v.checkSameRepo(join(rpath, "main_url"), out.homepage, r.mainURL, c)
		}
		out.releases = append(out.releases, r)
	}

	v.logger.Debug("extension checked", "extension", raw.Name, "releases", len(raw.Releases), "path", path)
	return out
}

func (v *Validator) checkSameRepo(field string, homepage, mainURL urlpolicy.URL, c *collector) {
	if homepage.IsZero() || mainURL.IsZero() {
		return
	}
	if strings.EqualFold(homepage.Owner(), mainURL.Owner()) && strings.EqualFold(homepage.Repo(), mainURL.Repo()) {
		return
	}
	c.add(field, mainURL.String(), fmt.Errorf("%w: %s/%s, homepage is %s/%s",
		ErrRepoMismatch, mainURL.Owner(), mainURL.Repo(), homepage.Owner(), homepage.Repo()))
}

func (v *Validator) release(path string, raw RawRelease, c *collector) Release {
	var out Release

	if raw.Name == "" {
		c.missing(join(path, "name"))
	} else if name, ok := v.version(join(path, "name"), raw.Name, c); ok {
		out.name = name
	}

	if raw.MainURL == "" {
		c.missing(join(path, "main_url"))
	} else if u, ok := v.url(join(path, "main_url"), raw.MainURL, urlpolicy.Primary, c); ok {
		out.mainURL = u
	}

	out.required = v.urls(join(path, "required_dependency_urls"), raw.RequiredDependencyURLs, c)
	out.optional = v.urls(join(path, "optional_dependency_urls"), raw.OptionalDependencyURLs, c)
	out.javadoc = v.urls(join(path, "javadoc_urls"), raw.JavadocURLs, c)

	if raw.VersionRange == nil {
		c.missing(join(path, "version_range"))
	} else if !c.stop() {
		out.versionRange = v.versionRange(join(path, "version_range"), *raw.VersionRange, c)
	}
	return out
}

func (v *Validator) urls(path string, raws []string, c *collector) []urlpolicy.URL {
	if len(raws) == 0 {
		return nil
	}
	out := make([]urlpolicy.URL, 0, len(raws))
	for i, raw := range raws {
		if u, ok := v.url(elem(path, i), raw, urlpolicy.Dependency, c); ok {
			out = append(out, u)
		}
	}
	return out
}

func (v *Validator) url(field, raw string, class urlpolicy.Class, c *collector) (urlpolicy.URL, bool) {
	if c.stop() {
		return urlpolicy.URL{}, false
	}
	u, err := v.policy.Validate(raw, class)
	if err != nil {
		c.add(field, raw, err)
		return urlpolicy.URL{}, false
	}
	return u, true
}

func (v *Validator) version(field, raw string, c *collector) (version.Version, bool) {
	if c.stop() {
		return version.Version{}, false
	}
	ver, err := version.Parse(raw)
	if err != nil {
		c.add(field, raw, err)
		return version.Version{}, false
	}
	return ver, true
}

// versionRange checks min <= max and min <= exclude <= max. Order checks
// are skipped for bounds that failed to parse. A bound given as "" is
// reported as malformed rather than treated as absent.
func (v *Validator) versionRange(path string, raw RawVersionRange, c *collector) VersionRange {
	var out VersionRange

	minRaw := version.Lowest.String()
	if raw.Min != nil {
		minRaw = *raw.Min
	}
	minV, minOK := v.version(join(path, "min"), minRaw, c)
	out.min = minV

	var maxRaw string
	maxOK := false
	if raw.Max != nil {
		maxRaw = *raw.Max
		out.max, maxOK = v.version(join(path, "max"), maxRaw, c)
		out.hasMax = maxOK
	}

	if minOK && maxOK && out.max.Less(minV) {
		c.add(join(path, "max"), maxRaw,
			fmt.Errorf("%w: max %s < min %s", ErrRangeOrder, maxRaw, minRaw))
	}

	for i, rawExclude := range raw.Excludes {
		field := elem(join(path, "excludes"), i)
		ex, ok := v.version(field, rawExclude, c)
		if !ok {
			continue
		}
		switch {
		case minOK && ex.Less(minV):
			c.add(field, rawExclude,
				fmt.Errorf("%w: %s is below min %s", ErrExcludeOutOfRange, rawExclude, minRaw))
		case maxOK && out.max.Less(ex):
			c.add(field, rawExclude,
				fmt.Errorf("%w: %s is above max %s", ErrExcludeOutOfRange, rawExclude, maxRaw))
		default:
			out.excludes = append(out.excludes, ex)
		}
	}
	return out
}
