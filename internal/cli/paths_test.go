package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestLayoutPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"travel.toml", "travel.layout.json"},
		{"boards/travel.yaml", "boards/travel.layout.json"},
		{"travel.json", "travel.layout.json"},
		{"travel.layout.json", "travel.layout.json"},
		{"travel", "travel.layout.json"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := layoutPath(tt.input); got != tt.want {
				t.Errorf("layoutPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		count  int
		want   string
	}{
		{"derived from board", "", "travel.toml", "svg", 1, "travel.svg"},
		{"derived from layout", "", "travel.layout.json", "png", 1, "travel.png"},
		{"json gets layout suffix", "", "travel.json", "json", 2, "travel.layout.json"},
		{"single output verbatim", "out/board.svg", "travel.toml", "svg", 1, "out/board.svg"},
		{"output as base", "out/board", "travel.toml", "dot", 2, "out/board.dot"},
		{"output extension stripped", "out/board.svg", "travel.toml", "png", 2, "out/board.png"},
		{"unknown extension kept", "out/board.v2", "travel.toml", "svg", 2, "out/board.v2.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifactPath(tt.output, tt.input, tt.format, tt.count)
			if got != tt.want {
				t.Errorf("artifactPath(%q, %q, %q, %d) = %q, want %q",
					tt.output, tt.input, tt.format, tt.count, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty leaves default", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,dot,png", []string{"svg", "dot", "png"}},
		{"spaces and blanks", " svg, ,json ", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") || len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
