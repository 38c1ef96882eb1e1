// Package urlpolicy classifies and validates the URLs referenced by an
// extension index.
//
// Two classes exist:
//
//   - [Primary]: extension homepages and release main artifacts. These must be
//     https URLs on a primary host (github.com by default) whose path names a
//     repository, /<owner>/<repo>, optionally followed by further segments.
//   - [Dependency]: required and optional dependency artifacts and javadocs.
//     These must be https URLs on a dependency host (github.com,
//     maven.scijava.org and repo1.maven.org by default). The path is not
//     constrained.
//
// The host lists live in a [Policy] value rather than in code so that a
// registry can widen or narrow them without patching the validators.
package urlpolicy

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/idna"
)

// Class selects which rule set a URL is validated against.
type Class int

const (
	// Primary is the class of homepages and main release artifacts.
	Primary Class = iota
	// Dependency is the class of dependency and javadoc artifacts.
	Dependency
)

func (c Class) String() string {
	switch c {
	case Primary:
		return "primary"
	case Dependency:
		return "dependency"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Well-known hosts.
const (
	HostGitHub       = "github.com"
	HostSciJavaMaven = "maven.scijava.org"
	HostMavenCentral = "repo1.maven.org"
)

// Policy is the host whitelist and scheme requirement applied to URLs.
type Policy struct {
	// Scheme is the only accepted URL scheme.
	Scheme string `json:"scheme" yaml:"scheme" mapstructure:"scheme"`

	// PrimaryHosts lists hosts accepted for Primary URLs.
	PrimaryHosts []string `json:"primary_hosts" yaml:"primary_hosts" mapstructure:"primary_hosts"`

	// DependencyHosts lists hosts accepted for Dependency URLs.
	DependencyHosts []string `json:"dependency_hosts" yaml:"dependency_hosts" mapstructure:"dependency_hosts"`
}

// DefaultPolicy returns the policy used by the public extension index:
// https only, github.com for primary URLs, and github.com, SciJava Maven and
// Maven Central for dependency URLs.
func DefaultPolicy() Policy {
	return Policy{
		Scheme:          "https",
		PrimaryHosts:    []string{HostGitHub},
		DependencyHosts: []string{HostGitHub, HostSciJavaMaven, HostMavenCentral},
	}
}

// WithDefaults returns a copy of p with every empty field taken from
// DefaultPolicy, so a policy that only overrides, say, PrimaryHosts keeps
// the default scheme and dependency hosts.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	out := Policy{
		Scheme:          p.Scheme,
		PrimaryHosts:    slices.Clone(p.PrimaryHosts),
		DependencyHosts: slices.Clone(p.DependencyHosts),
	}
	if out.Scheme == "" {
		out.Scheme = d.Scheme
	}
	if len(out.PrimaryHosts) == 0 {
		out.PrimaryHosts = d.PrimaryHosts
	}
	if len(out.DependencyHosts) == 0 {
		out.DependencyHosts = d.DependencyHosts
	}
	return out
}

// Hosts returns a copy of the host list for class c.
func (p Policy) Hosts(c Class) []string {
	if c == Primary {
		return slices.Clone(p.PrimaryHosts)
	}
	return slices.Clone(p.DependencyHosts)
}

// Allows reports whether host is whitelisted for class c.
// The comparison is case-insensitive and IDNA-aware.
func (p Policy) Allows(c Class, host string) bool {
	normalized, err := normalizeHost(host)
	if err != nil {
		return false
	}
	for _, h := range p.Hosts(c) {
		if allowed, err := normalizeHost(h); err == nil && allowed == normalized {
			return true
		}
	}
	return false
}

// Check reports structural problems with the policy itself.
func (p Policy) Check() error {
	if p.Scheme == "" {
		return fmt.Errorf("url policy: scheme must not be empty")
	}
	if len(p.PrimaryHosts) == 0 {
		return fmt.Errorf("url policy: primary_hosts must not be empty")
	}
	if len(p.DependencyHosts) == 0 {
		return fmt.Errorf("url policy: dependency_hosts must not be empty")
	}
	for _, h := range append(p.Hosts(Primary), p.DependencyHosts...) {
		if _, err := normalizeHost(h); err != nil || h == "" {
			return fmt.Errorf("url policy: invalid host %q", h)
		}
	}
	return nil
}

// repoPathPattern is matched against the start of the path only: owner and
// repo must each begin with a run of ASCII alphanumerics, and whatever
// follows is not constrained.
var repoPathPattern = regexp.MustCompile(`^/([0-9A-Za-z]+)/([0-9A-Za-z]+)`)

// Validate checks raw against the rules for class c under the default policy.
func Validate(raw string, c Class) (URL, error) {
	return DefaultPolicy().Validate(raw, c)
}

// Validate checks raw against the rules for class c.
// Checks run in order: syntax, scheme, host, path.
func (p Policy) Validate(raw string, c Class) (URL, error) {
	fail := func(kind Kind, detail string) (URL, error) {
		return URL{}, &Error{Class: c, Value: raw, Kind: kind, Detail: detail}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fail(KindMalformed, err.Error())
	}
	if !strings.EqualFold(u.Scheme, p.Scheme) {
		if u.Scheme == "" {
			return fail(KindScheme, fmt.Sprintf("missing scheme, want %q", p.Scheme))
		}
		return fail(KindScheme, fmt.Sprintf("scheme %q not allowed, want %q", u.Scheme, p.Scheme))
	}
	if u.Host == "" || u.Opaque != "" {
		return fail(KindMalformed, "missing host")
	}

	host, err := normalizeHost(u.Hostname())
	if err != nil {
		return fail(KindHost, fmt.Sprintf("invalid host %q: %v", u.Hostname(), err))
	}
	if !p.Allows(c, host) {
		return fail(KindHost, fmt.Sprintf("host %q not allowed for %s URLs, want one of %s",
			u.Hostname(), c, strings.Join(p.Hosts(c), ", ")))
	}

	out := URL{raw: raw, parsed: u, class: c, host: host}
	if c == Primary {
		if !repoPathPattern.MatchString(u.Path) {
			return fail(KindPath, fmt.Sprintf("path %q must point to a repository as /<owner>/<repo>", u.Path))
		}
		out.owner, out.repo = repoSegments(u.Path)
	}
	return out, nil
}

// repoSegments returns the first two path segments in full.
func repoSegments(path string) (owner, repo string) {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	return parts[0], parts[1]
}

func normalizeHost(host string) (string, error) {
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", err
	}
	return strings.ToLower(ascii), nil
}
