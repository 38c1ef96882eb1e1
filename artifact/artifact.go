// Package artifact derives Package URLs (purls) from validated dependency URLs.
//
// Index documents reference dependencies by download URL only. Installers and
// SBOM tooling prefer coordinates, so this package recognises the download
// layouts used by the whitelisted hosts:
//
//   - GitHub release assets: /<owner>/<repo>/releases/download/<tag>/<file>
//     become pkg:github/<owner>/<repo>@<tag>
//   - Maven Central (/maven2/...) and SciJava Maven
//     (/content/repositories/<repo>/..., /content/groups/<repo>/...,
//     /repository/<repo>/...) repository layouts become
//     pkg:maven/<group>/<artifact>@<version>
//   - SciJava Nexus redirect links (/service/local/artifact/maven/redirect?g=..&a=..&v=..)
//     become pkg:maven/<group>/<artifact>@<version>
//
// Anything else is reported as ErrUnidentified. Identification is purely
// syntactic; nothing is fetched.
package artifact

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	packageurl "github.com/package-url/packageurl-go"

	"github.com/albertocavalcante/go-extindex/urlpolicy"
)

// ErrUnidentified indicates the URL does not follow a known artifact layout.
var ErrUnidentified = errors.New("artifact layout not recognized")

// Identify returns the purl for a dependency URL.
func Identify(u urlpolicy.URL) (packageurl.PackageURL, error) {
	if u.IsZero() {
		return packageurl.PackageURL{}, fmt.Errorf("identify artifact: %w", ErrUnidentified)
	}

	var (
		p  packageurl.PackageURL
		ok bool
	)
	switch u.Host() {
	case urlpolicy.HostGitHub:
		p, ok = githubRelease(u.Path())
	case urlpolicy.HostMavenCentral:
		p, ok = mavenPath(u.Path(), "/maven2/", "https://"+urlpolicy.HostMavenCentral+"/maven2")
	case urlpolicy.HostSciJavaMaven:
		p, ok = scijava(u)
	}
	if !ok {
		return packageurl.PackageURL{}, fmt.Errorf("identify artifact %s: %w", u, ErrUnidentified)
	}
	return p, nil
}

// String returns the canonical purl string for u, or "" when u cannot be identified.
func String(u urlpolicy.URL) string {
	p, err := Identify(u)
	if err != nil {
		return ""
	}
	return p.ToString()
}

func githubRelease(path string) (packageurl.PackageURL, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 6 || parts[2] != "releases" || parts[3] != "download" {
		return packageurl.PackageURL{}, false
	}
	owner, repo, tag := parts[0], parts[1], parts[4]
	if owner == "" || repo == "" || tag == "" || parts[5] == "" {
		return packageurl.PackageURL{}, false
	}
	return *packageurl.NewPackageURL(packageurl.TypeGithub, strings.ToLower(owner), strings.ToLower(repo), tag, nil, ""), true
}

// scijavaPrefixes are the Nexus 2 and Nexus 3 repository roots. Each is
// followed by a repository name.
var scijavaPrefixes = []string{"/content/repositories/", "/content/groups/", "/repository/"}

func scijava(u urlpolicy.URL) (packageurl.PackageURL, bool) {
	path := u.Path()
	if path == "/service/local/artifact/maven/redirect" || path == "/service/local/artifact/maven/content" {
		return nexusRedirect(u)
	}
	for _, prefix := range scijavaPrefixes {
		rest, found := strings.CutPrefix(path, prefix)
		if !found {
			continue
		}
		repoName, _, found := strings.Cut(rest, "/")
		if !found || repoName == "" {
			return packageurl.PackageURL{}, false
		}
		root := prefix + repoName + "/"
		return mavenPath(path, root, "https://"+urlpolicy.HostSciJavaMaven+strings.TrimSuffix(root, "/"))
	}
	return packageurl.PackageURL{}, false
}

// mavenPath parses <root><group path>/<artifact>/<version>/<artifact>-<version>[-<classifier>].<ext>.
func mavenPath(path, root, repositoryURL string) (packageurl.PackageURL, bool) {
	rest, found := strings.CutPrefix(path, root)
	if !found {
		return packageurl.PackageURL{}, false
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 4 {
		return packageurl.PackageURL{}, false
	}
	n := len(parts)
	file, ver, name := parts[n-1], parts[n-2], parts[n-3]
	if slices.Contains(parts, "") {
		return packageurl.PackageURL{}, false
	}

	tail, found := strings.CutPrefix(file, name+"-"+ver)
	if !found {
		return packageurl.PackageURL{}, false
	}
	var classifier, ext string
	switch {
	case strings.HasPrefix(tail, "."):
		ext = tail[1:]
	case strings.HasPrefix(tail, "-"):
		c, e, ok := strings.Cut(tail[1:], ".")
		if !ok || c == "" {
			return packageurl.PackageURL{}, false
		}
		classifier, ext = c, e
	default:
		return packageurl.PackageURL{}, false
	}
	if ext == "" {
		return packageurl.PackageURL{}, false
	}

	return maven(strings.Join(parts[:n-3], "."), name, ver, classifier, ext, repositoryURL), true
}

func nexusRedirect(u urlpolicy.URL) (packageurl.PackageURL, bool) {
	parsed := u.Parsed()
	if parsed == nil {
		return packageurl.PackageURL{}, false
	}
	q := parsed.Query()
	group, name, ver := q.Get("g"), q.Get("a"), q.Get("v")
	if group == "" || name == "" || ver == "" {
		return packageurl.PackageURL{}, false
	}
	ext := q.Get("e")
	if ext == "" {
		ext = q.Get("p")
	}
	repositoryURL := ""
	if r := q.Get("r"); r != "" {
		repositoryURL = "https://" + urlpolicy.HostSciJavaMaven + "/content/repositories/" + r
	}
	return maven(group, name, ver, q.Get("c"), ext, repositoryURL), true
}

// maven builds a maven purl. Qualifiers are emitted in key order; the jar
// type is the purl default and is omitted.
func maven(group, name, ver, classifier, ext, repositoryURL string) packageurl.PackageURL {
	var qualifiers packageurl.Qualifiers
	if classifier != "" {
		qualifiers = append(qualifiers, packageurl.Qualifier{Key: "classifier", Value: classifier})
	}
	if repositoryURL != "" {
		qualifiers = append(qualifiers, packageurl.Qualifier{Key: "repository_url", Value: repositoryURL})
	}
	if ext != "" && ext != "jar" {
		qualifiers = append(qualifiers, packageurl.Qualifier{Key: "type", Value: ext})
	}
	return *packageurl.NewPackageURL(packageurl.TypeMaven, group, name, ver, qualifiers, "")
}
