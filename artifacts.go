package extindex

import (
	packageurl "github.com/package-url/packageurl-go"

	"github.com/albertocavalcante/go-extindex/artifact"
	"github.com/albertocavalcante/go-extindex/index"
)

// Artifact is a downloadable file of a release with its package URL.
type Artifact struct {
	// Role is empty for the main artifact.
	Role index.Role `json:"role,omitempty"`

	URL string `json:"url"`

	// PURL is the package URL, or nil when the download layout is not
	// recognized.
	PURL *packageurl.PackageURL `json:"-"`
}

// PURLString returns the canonical purl, or "" when unknown.
func (a Artifact) PURLString() string {
	if a.PURL == nil {
		return ""
	}
	return a.PURL.ToString()
}

// Artifacts lists the main artifact of r followed by its dependency URLs in
// DependencyURLs order.
func Artifacts(r index.Release) []Artifact {
	deps := r.DependencyURLs()
	out := make([]Artifact, 0, len(deps)+1)

	main := Artifact{URL: r.MainURL().String()}
	if p, err := artifact.Identify(r.MainURL()); err == nil {
		main.PURL = &p
	}
	out = append(out, main)

	for _, d := range deps {
		a := Artifact{Role: d.Role, URL: d.URL.String()}
		if p, err := artifact.Identify(d.URL); err == nil {
			a.PURL = &p
		}
		out = append(out, a)
	}
	return out
}
