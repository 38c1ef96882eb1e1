package index

// RawIndex is the decoder-facing shape of an index document.
// Field names follow the published index schema.
type RawIndex struct {
	// Name is the name of the index.
	Name string `json:"name" yaml:"name"`

	// Description is a short description of what the index contains.
	Description string `json:"description" yaml:"description"`

	// Extensions is the collection of extensions the index describes.
	Extensions []RawExtension `json:"extensions" yaml:"extensions"`
}

// RawExtension describes one extension.
type RawExtension struct {
	// Name identifies the extension. It must be unique within its index.
	Name string `json:"name" yaml:"name"`

	// Description is a short (one sentence or so) summary of the extension.
	Description string `json:"description" yaml:"description"`

	// Author is the person or group responsible for the extension.
	Author string `json:"author" yaml:"author"`

	// Homepage links to the GitHub repository of the extension.
	Homepage string `json:"homepage" yaml:"homepage"`

	// Releases lists available releases in display order.
	Releases []RawRelease `json:"releases" yaml:"releases"`
}

// RawRelease describes one release of an extension hosted on GitHub.
type RawRelease struct {
	// Name is the release version, e.g. "v0.2.0".
	Name string `json:"name" yaml:"name"`

	// MainURL is the GitHub URL of the main extension jar or zip.
	MainURL string `json:"main_url" yaml:"main_url"`

	// RequiredDependencyURLs are downloads the extension cannot run without.
	RequiredDependencyURLs []string `json:"required_dependency_urls,omitempty" yaml:"required_dependency_urls,omitempty"`

	// OptionalDependencyURLs are downloads that enable extra functionality.
	OptionalDependencyURLs []string `json:"optional_dependency_urls,omitempty" yaml:"optional_dependency_urls,omitempty"`

	// JavadocURLs are javadoc jars or zips for the extension and its dependencies.
	JavadocURLs []string `json:"javadoc_urls,omitempty" yaml:"javadoc_urls,omitempty"`

	// VersionRange is the range of host application versions this release
	// is compatible with. Required.
	VersionRange *RawVersionRange `json:"version_range" yaml:"version_range"`
}

// RawVersionRange is a host application compatibility range.
//
// Min and Max are pointers so that an absent bound can be told apart from
// one given as "". Absent bounds take their defaults; an empty string is a
// malformed version.
type RawVersionRange struct {
	// Min is the lowest compatible version. Nil means v0.1.0.
	Min *string `json:"min,omitempty" yaml:"min,omitempty"`

	// Max is the highest compatible version. Nil means unbounded.
	Max *string `json:"max,omitempty" yaml:"max,omitempty"`

	// Excludes lists incompatible versions within [Min, Max].
	Excludes []string `json:"excludes,omitempty" yaml:"excludes,omitempty"`
}
