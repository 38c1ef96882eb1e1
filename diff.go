package extindex

import (
	"cmp"
	"slices"

	"github.com/albertocavalcante/go-extindex/index"
	"github.com/albertocavalcante/go-extindex/version"
)

// ExtensionChange represents an added or removed extension in an index diff.
type ExtensionChange struct {
	// Name is the extension name.
	Name string `json:"name"`

	// Latest is the highest release version, empty if the extension has no
	// releases.
	Latest string `json:"latest,omitempty"`
}

// ReleaseChange represents an added or removed release of an extension
// present in both indexes.
type ReleaseChange struct {
	// Extension is the extension name.
	Extension string `json:"extension"`

	// Release is the release version.
	Release string `json:"release"`
}

// LatestChange represents a change of the latest release of an extension.
type LatestChange struct {
	// Extension is the extension name.
	Extension string `json:"extension"`

	// OldLatest is the latest release in the old index.
	OldLatest string `json:"old_latest"`

	// NewLatest is the latest release in the new index.
	NewLatest string `json:"new_latest"`
}

// IndexDiff describes the differences between two validated indexes.
//
// Example usage:
//
//	oldIdx, _ := extindex.ValidateFile("index-old.json")
//	newIdx, _ := extindex.ValidateFile("index.json")
//	diff := extindex.DiffIndexes(&oldIdx, &newIdx)
//
//	for _, u := range diff.Upgraded {
//	    fmt.Printf("%s: %s -> %s\n", u.Extension, u.OldLatest, u.NewLatest)
//	}
type IndexDiff struct {
	// Added contains extensions present in new but not in old.
	Added []ExtensionChange `json:"added,omitempty"`

	// Removed contains extensions present in old but not in new.
	Removed []ExtensionChange `json:"removed,omitempty"`

	// AddedReleases contains releases new to an existing extension.
	AddedReleases []ReleaseChange `json:"added_releases,omitempty"`

	// RemovedReleases contains releases dropped from an existing extension.
	RemovedReleases []ReleaseChange `json:"removed_releases,omitempty"`

	// Upgraded contains extensions whose latest release is now higher.
	Upgraded []LatestChange `json:"upgraded,omitempty"`

	// Downgraded contains extensions whose latest release is now lower.
	Downgraded []LatestChange `json:"downgraded,omitempty"`
}

// IsEmpty returns true if there are no differences between the indexes.
func (d *IndexDiff) IsEmpty() bool {
	return d.TotalChanges() == 0
}

// TotalChanges returns the number of entries across all change lists.
func (d *IndexDiff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) +
		len(d.AddedReleases) + len(d.RemovedReleases) +
		len(d.Upgraded) + len(d.Downgraded)
}

// DiffIndexes computes the difference between two validated indexes.
// A nil index is treated as empty. Extensions are matched by exact name and
// releases by version; versions are compared with version.Compare, so an rc
// followed by its final release counts as an upgrade.
//
// Results are sorted by extension name, then by release version.
func DiffIndexes(old, new *index.Index) *IndexDiff {
	diff := &IndexDiff{}

	oldExts := extensionsByName(old)
	newExts := extensionsByName(new)

	for name, ne := range newExts {
		oe, existedBefore := oldExts[name]
		if !existedBefore {
			diff.Added = append(diff.Added, ExtensionChange{Name: name, Latest: latest(ne)})
			continue
		}
		diffReleases(diff, name, oe, ne)
	}

	for name, oe := range oldExts {
		if _, existsNow := newExts[name]; !existsNow {
			diff.Removed = append(diff.Removed, ExtensionChange{Name: name, Latest: latest(oe)})
		}
	}

	sortExtensionChanges(diff.Added)
	sortExtensionChanges(diff.Removed)
	sortReleaseChanges(diff.AddedReleases)
	sortReleaseChanges(diff.RemovedReleases)
	sortLatestChanges(diff.Upgraded)
	sortLatestChanges(diff.Downgraded)

	return diff
}

func diffReleases(diff *IndexDiff, name string, oe, ne index.Extension) {
	oldRels := releaseNames(oe)
	newRels := releaseNames(ne)
	for r := range newRels {
		if _, ok := oldRels[r]; !ok {
			diff.AddedReleases = append(diff.AddedReleases, ReleaseChange{Extension: name, Release: r})
		}
	}
	for r := range oldRels {
		if _, ok := newRels[r]; !ok {
			diff.RemovedReleases = append(diff.RemovedReleases, ReleaseChange{Extension: name, Release: r})
		}
	}

	ol, okOld := oe.LatestRelease()
	nl, okNew := ne.LatestRelease()
	if !okOld || !okNew {
		return
	}
	change := LatestChange{Extension: name, OldLatest: ol.Name().String(), NewLatest: nl.Name().String()}
	switch c := version.Compare(nl.Name(), ol.Name()); {
	case c > 0:
		diff.Upgraded = append(diff.Upgraded, change)
	case c < 0:
		diff.Downgraded = append(diff.Downgraded, change)
	}
}

func extensionsByName(x *index.Index) map[string]index.Extension {
	m := make(map[string]index.Extension)
	if x == nil {
		return m
	}
	for _, e := range x.Extensions() {
		m[e.Name()] = e
	}
	return m
}

func releaseNames(e index.Extension) map[string]struct{} {
	m := make(map[string]struct{})
	for _, r := range e.Releases() {
		m[r.Name().String()] = struct{}{}
	}
	return m
}

func latest(e index.Extension) string {
	r, ok := e.LatestRelease()
	if !ok {
		return ""
	}
	return r.Name().String()
}

func sortExtensionChanges(changes []ExtensionChange) {
	slices.SortFunc(changes, func(a, b ExtensionChange) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

func sortReleaseChanges(changes []ReleaseChange) {
	slices.SortFunc(changes, func(a, b ReleaseChange) int {
		if c := cmp.Compare(a.Extension, b.Extension); c != 0 {
			return c
		}
		// Both names come from validated releases.
		c, _ := version.CompareStrings(a.Release, b.Release)
		return c
	})
}

func sortLatestChanges(changes []LatestChange) {
	slices.SortFunc(changes, func(a, b LatestChange) int {
		return cmp.Compare(a.Extension, b.Extension)
	})
}
