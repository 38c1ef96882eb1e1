package artifact

import (
	"errors"
	"strings"
	"testing"

	"github.com/albertocavalcante/go-extindex/urlpolicy"
)

func mustDependency(t *testing.T, raw string) urlpolicy.URL {
	t.Helper()
	u, err := urlpolicy.Validate(raw, urlpolicy.Dependency)
	if err != nil {
		t.Fatalf("urlpolicy.Validate(%q): %v", raw, err)
	}
	return u
}

func TestIdentify(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		wantType       string
		wantNamespace  string
		wantName       string
		wantVersion    string
		wantQualifiers map[string]string
	}{
		{
			name:          "github release asset",
			url:           "https://github.com/qupath/qupath-extension-wsinfer/releases/download/v0.2.0/qupath-extension-wsinfer-0.2.0.jar",
			wantType:      "github",
			wantNamespace: "qupath",
			wantName:      "qupath-extension-wsinfer",
			wantVersion:   "v0.2.0",
		},
		{
			name:          "maven central jar",
			url:           "https://repo1.maven.org/maven2/com/google/code/gson/gson/2.10.1/gson-2.10.1.jar",
			wantType:      "maven",
			wantNamespace: "com.google.code.gson",
			wantName:      "gson",
			wantVersion:   "2.10.1",
			wantQualifiers: map[string]string{
				"repository_url": "https://repo1.maven.org/maven2",
			},
		},
		{
			name:          "maven central javadoc classifier",
			url:           "https://repo1.maven.org/maven2/ai/djl/api/0.28.0/api-0.28.0-javadoc.jar",
			wantType:      "maven",
			wantNamespace: "ai.djl",
			wantName:      "api",
			wantVersion:   "0.28.0",
			wantQualifiers: map[string]string{
				"classifier":     "javadoc",
				"repository_url": "https://repo1.maven.org/maven2",
			},
		},
		{
			name:          "scijava nexus 2 layout zip",
			url:           "https://maven.scijava.org/content/repositories/releases/io/github/qupath/qupath-extension-djl/0.3.0/qupath-extension-djl-0.3.0.zip",
			wantType:      "maven",
			wantNamespace: "io.github.qupath",
			wantName:      "qupath-extension-djl",
			wantVersion:   "0.3.0",
			wantQualifiers: map[string]string{
				"repository_url": "https://maven.scijava.org/content/repositories/releases",
				"type":           "zip",
			},
		},
		{
			name:          "scijava nexus 3 layout",
			url:           "https://maven.scijava.org/repository/public/net/imglib2/imglib2/6.0.0/imglib2-6.0.0.jar",
			wantType:      "maven",
			wantNamespace: "net.imglib2",
			wantName:      "imglib2",
			wantVersion:   "6.0.0",
			wantQualifiers: map[string]string{
				"repository_url": "https://maven.scijava.org/repository/public",
			},
		},
		{
			name:          "scijava redirect",
			url:           "https://maven.scijava.org/service/local/artifact/maven/redirect?r=releases&g=net.imglib2&a=imglib2&v=6.0.0&c=sources",
			wantType:      "maven",
			wantNamespace: "net.imglib2",
			wantName:      "imglib2",
			wantVersion:   "6.0.0",
			wantQualifiers: map[string]string{
				"classifier":     "sources",
				"repository_url": "https://maven.scijava.org/content/repositories/releases",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Identify(mustDependency(t, tt.url))
			if err != nil {
				t.Fatalf("Identify() error: %v", err)
			}
			if p.Type != tt.wantType || p.Namespace != tt.wantNamespace || p.Name != tt.wantName || p.Version != tt.wantVersion {
				t.Errorf("Identify() = %s/%s/%s@%s, want %s/%s/%s@%s",
					p.Type, p.Namespace, p.Name, p.Version,
					tt.wantType, tt.wantNamespace, tt.wantName, tt.wantVersion)
			}
			got := p.Qualifiers.Map()
			if len(got) != len(tt.wantQualifiers) {
				t.Errorf("qualifiers = %v, want %v", got, tt.wantQualifiers)
			}
			for k, v := range tt.wantQualifiers {
				if got[k] != v {
					t.Errorf("qualifier %s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestIdentify_Unrecognized(t *testing.T) {
	urls := []string{
		"https://github.com/qupath/qupath",
		"https://github.com/qupath/qupath/archive/refs/tags/v0.5.0.zip",
		"https://repo1.maven.org/maven2/gson-2.10.1.jar",
		"https://repo1.maven.org/maven2/com/google/code/gson/gson/2.10.1/other-2.10.1.jar",
		"https://repo1.maven.org/maven2/com/google/code/gson/gson/2.10.1/gson-2.10.1",
		"https://maven.scijava.org/content/repositories/",
		"https://maven.scijava.org/service/local/artifact/maven/redirect?r=releases&g=net.imglib2",
	}
	for _, raw := range urls {
		t.Run(raw, func(t *testing.T) {
			_, err := Identify(mustDependency(t, raw))
			if !errors.Is(err, ErrUnidentified) {
				t.Errorf("Identify(%q) error = %v, want ErrUnidentified", raw, err)
			}
			if s := String(mustDependency(t, raw)); s != "" {
				t.Errorf("String(%q) = %q, want empty", raw, s)
			}
		})
	}
}

func TestIdentify_ZeroURL(t *testing.T) {
	if _, err := Identify(urlpolicy.URL{}); !errors.Is(err, ErrUnidentified) {
		t.Errorf("Identify(zero) error = %v, want ErrUnidentified", err)
	}
}

func TestString(t *testing.T) {
	got := String(mustDependency(t, "https://github.com/Owner/Repo/releases/download/v1.0.0/repo.jar"))
	if got != "pkg:github/owner/repo@v1.0.0" {
		t.Errorf("String() = %q, want pkg:github/owner/repo@v1.0.0", got)
	}
	got = String(mustDependency(t, "https://repo1.maven.org/maven2/com/google/code/gson/gson/2.10.1/gson-2.10.1.jar"))
	if !strings.HasPrefix(got, "pkg:maven/com.google.code.gson/gson@2.10.1?") {
		t.Errorf("String() = %q, want a maven purl with qualifiers", got)
	}
}
