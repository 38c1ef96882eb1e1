package extindex

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-extindex/index"
)

func TestArtifacts(t *testing.T) {
	idx := mustValidateFile(t, "testdata/index.json")
	ext, _ := idx.Extension("QuPath WSInfer extension")
	rel, ok := ext.Release("v0.3.0-rc1")
	if !ok {
		t.Fatal("release not found")
	}

	type row struct {
		Role                  index.Role
		Type, Namespace, Name string
		Version, RepoURL      string
	}
	var got []row
	for _, a := range Artifacts(rel) {
		if a.PURL == nil {
			t.Fatalf("no purl for %s", a.URL)
		}
		got = append(got, row{a.Role, a.PURL.Type, a.PURL.Namespace, a.PURL.Name, a.PURL.Version,
			a.PURL.Qualifiers.Map()["repository_url"]})
	}
	want := []row{
		{"", "github", "qupath", "qupath-extension-wsinfer", "v0.3.0-rc1", ""},
		{index.RoleRequired, "maven", "ai.djl", "api", "0.24.0", "https://repo1.maven.org/maven2"},
		{index.RoleOptional, "maven", "net.imagej", "ij", "1.54f", "https://maven.scijava.org/content/repositories/releases"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Artifacts mismatch (-want +got):\n%s", d)
	}
}

func TestArtifacts_Unrecognized(t *testing.T) {
	idx, err := Validate(index.RawIndex{
		Name:        "x",
		Description: "y",
		Extensions: []index.RawExtension{{
			Name:        "a",
			Description: "b",
			Author:      "c",
			Homepage:    "https://github.com/a/b",
			Releases: []index.RawRelease{{
				Name:         "v0.1.0",
				MainURL:      "https://github.com/a/b/raw/main/b.jar",
				VersionRange: &index.RawVersionRange{},
			}},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	ext, _ := idx.Extension("a")
	arts := Artifacts(ext.Releases()[0])
	if len(arts) != 1 {
		t.Fatalf("len(Artifacts) = %d, want 1", len(arts))
	}
	if arts[0].PURL != nil || arts[0].PURLString() != "" {
		t.Errorf("expected no purl for %s, got %q", arts[0].URL, arts[0].PURLString())
	}
	if arts[0].URL != "https://github.com/a/b/raw/main/b.jar" {
		t.Errorf("URL = %q", arts[0].URL)
	}
}
