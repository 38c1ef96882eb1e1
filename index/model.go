package index

import (
	"encoding/json"
	"slices"

	"github.com/albertocavalcante/go-extindex/urlpolicy"
	"github.com/albertocavalcante/go-extindex/version"
)

// VersionRange is a validated compatibility range: Min <= Max when Max is
// set, and every excluded version lies within [Min, Max].
type VersionRange struct {
	min      version.Version
	max      version.Version
	hasMax   bool
	excludes []version.Version
}

// Min returns the lowest compatible version.
func (r VersionRange) Min() version.Version { return r.min }

// Max returns the highest compatible version, and false when unbounded.
func (r VersionRange) Max() (version.Version, bool) { return r.max, r.hasMax }

// Excludes returns a copy of the excluded versions in document order.
func (r VersionRange) Excludes() []version.Version { return slices.Clone(r.excludes) }

// Contains reports whether v lies within the range and is not excluded.
func (r VersionRange) Contains(v version.Version) bool {
	if v.Less(r.min) {
		return false
	}
	if r.hasMax && r.max.Less(v) {
		return false
	}
	return !slices.ContainsFunc(r.excludes, v.Equal)
}

// Raw returns the document form of the range. Min is always set.
func (r VersionRange) Raw() RawVersionRange {
	lo := r.min.String()
	raw := RawVersionRange{Min: &lo}
	if r.hasMax {
		hi := r.max.String()
		raw.Max = &hi
	}
	for _, e := range r.excludes {
		raw.Excludes = append(raw.Excludes, e.String())
	}
	return raw
}

// Role labels a dependency-class URL for downstream consumers. All roles
// share the same URL policy.
type Role string

const (
	RoleRequired Role = "required"
	RoleOptional Role = "optional"
	RoleJavadoc  Role = "javadoc"
)

// DependencyURL is a dependency-class URL together with its role.
type DependencyURL struct {
	Role Role
	URL  urlpolicy.URL
}

// Release is a validated release of an extension.
type Release struct {
	name         version.Version
	mainURL      urlpolicy.URL
	required     []urlpolicy.URL
	optional     []urlpolicy.URL
	javadoc      []urlpolicy.URL
	versionRange VersionRange
}

// Name returns the release version.
func (r Release) Name() version.Version { return r.name }

// MainURL returns the main artifact URL.
func (r Release) MainURL() urlpolicy.URL { return r.mainURL }

// RequiredDependencyURLs returns a copy of the required dependency URLs.
func (r Release) RequiredDependencyURLs() []urlpolicy.URL { return slices.Clone(r.required) }

// OptionalDependencyURLs returns a copy of the optional dependency URLs.
func (r Release) OptionalDependencyURLs() []urlpolicy.URL { return slices.Clone(r.optional) }

// JavadocURLs returns a copy of the javadoc URLs.
func (r Release) JavadocURLs() []urlpolicy.URL { return slices.Clone(r.javadoc) }

// VersionRange returns the host compatibility range.
func (r Release) VersionRange() VersionRange { return r.versionRange }

// DependencyURLs returns every dependency-class URL labelled with its role:
// required first, then optional, then javadoc.
func (r Release) DependencyURLs() []DependencyURL {
	out := make([]DependencyURL, 0, len(r.required)+len(r.optional)+len(r.javadoc))
	for _, u := range r.required {
		out = append(out, DependencyURL{Role: RoleRequired, URL: u})
	}
	for _, u := range r.optional {
		out = append(out, DependencyURL{Role: RoleOptional, URL: u})
	}
	for _, u := range r.javadoc {
		out = append(out, DependencyURL{Role: RoleJavadoc, URL: u})
	}
	return out
}

// Raw returns the document form of the release.
func (r Release) Raw() RawRelease {
	vr := r.versionRange.Raw()
	return RawRelease{
		Name:                   r.name.String(),
		MainURL:                r.mainURL.String(),
		RequiredDependencyURLs: urlStrings(r.required),
		OptionalDependencyURLs: urlStrings(r.optional),
		JavadocURLs:            urlStrings(r.javadoc),
		VersionRange:           &vr,
	}
}

// Extension is a validated extension.
type Extension struct {
	name        string
	description string
	author      string
	homepage    urlpolicy.URL
	releases    []Release
}

// Name returns the extension name.
func (e Extension) Name() string { return e.name }

// Description returns the extension description.
func (e Extension) Description() string { return e.description }

// Author returns the extension author.
func (e Extension) Author() string { return e.author }

// Homepage returns the repository URL.
func (e Extension) Homepage() urlpolicy.URL { return e.homepage }

// Releases returns a copy of the releases in document order.
func (e Extension) Releases() []Release { return slices.Clone(e.releases) }

// Release returns the release with the given name.
func (e Extension) Release(name string) (Release, bool) {
	for _, r := range e.releases {
		if r.name.String() == name {
			return r, true
		}
	}
	return Release{}, false
}

// LatestRelease returns the release with the highest version. Document
// order does not matter. Returns false when there are no releases.
func (e Extension) LatestRelease() (Release, bool) {
	if len(e.releases) == 0 {
		return Release{}, false
	}
	latest := e.releases[0]
	for _, r := range e.releases[1:] {
		if latest.name.Less(r.name) {
			latest = r
		}
	}
	return latest, true
}

// CompatibleReleases returns the releases whose version range contains host,
// in document order.
func (e Extension) CompatibleReleases(host version.Version) []Release {
	var out []Release
	for _, r := range e.releases {
		if r.versionRange.Contains(host) {
			out = append(out, r)
		}
	}
	return out
}

// Raw returns the document form of the extension.
func (e Extension) Raw() RawExtension {
	releases := make([]RawRelease, len(e.releases))
	for i, r := range e.releases {
		releases[i] = r.Raw()
	}
	return RawExtension{
		Name:        e.name,
		Description: e.description,
		Author:      e.author,
		Homepage:    e.homepage.String(),
		Releases:    releases,
	}
}

// Index is a validated index document. Extension names are unique.
type Index struct {
	name        string
	description string
	extensions  []Extension
	byName      map[string]int
}

// Name returns the index name.
func (x Index) Name() string { return x.name }

// Description returns the index description.
func (x Index) Description() string { return x.description }

// Extensions returns a copy of the extensions in document order.
func (x Index) Extensions() []Extension { return slices.Clone(x.extensions) }

// Len returns the number of extensions.
func (x Index) Len() int { return len(x.extensions) }

// Extension returns the extension with the given name (exact match).
func (x Index) Extension(name string) (Extension, bool) {
	i, ok := x.byName[name]
	if !ok {
		return Extension{}, false
	}
	return x.extensions[i], true
}

// Names returns the extension names in document order.
func (x Index) Names() []string {
	names := make([]string, len(x.extensions))
	for i, e := range x.extensions {
		names[i] = e.name
	}
	return names
}

// Raw returns the document form of the index. Validating the result yields
// an equal Index.
func (x Index) Raw() RawIndex {
	extensions := make([]RawExtension, len(x.extensions))
	for i, e := range x.extensions {
		extensions[i] = e.Raw()
	}
	return RawIndex{
		Name:        x.name,
		Description: x.description,
		Extensions:  extensions,
	}
}

// MarshalJSON encodes the index in its document form.
func (x Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.Raw())
}

// MarshalYAML encodes the index in its document form.
func (x Index) MarshalYAML() (any, error) {
	return x.Raw(), nil
}

// MarshalJSON encodes the extension in its document form.
func (e Extension) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Raw())
}

// MarshalJSON encodes the release in its document form.
func (r Release) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Raw())
}

// MarshalJSON encodes the range in its document form.
func (r VersionRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Raw())
}

func urlStrings(urls []urlpolicy.URL) []string {
	if len(urls) == 0 {
		return nil
	}
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = u.String()
	}
	return out
}
