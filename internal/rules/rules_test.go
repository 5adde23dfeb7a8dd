package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsMatch(t *testing.T) {
	table := Defaults()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc", "Videos to Watch"},
		{"https://vimeo.com/123", "Videos to Watch"},
		{"https://www.amazon.com/dp/B000", "Buy Later"},
		{"https://example.com/shop/desk", "Buy Later"},
		{"https://github.com/golang/go", "Learn to Code"},
		{"https://example.com/a-guide-to-go", "Learn to Code"},
		{"https://example.com/blog/post", "Articles to Read"},
		{"https://news.example.org/today", "Bookmarks"},
		{"not a url", "Bookmarks"},
		// host rules run before url rules of later entries
		{"https://youtube.com/blog", "Videos to Watch"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := table.Match(tt.url).Folder; got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestHostRulesIgnorePath(t *testing.T) {
	// "youtube" in the path does not make it a video host.
	if got := Defaults().Match("https://example.com/youtube-tips").Folder; got != "Bookmarks" {
		t.Errorf("Match() = %q, want Bookmarks", got)
	}
}

func TestChoiceNames(t *testing.T) {
	got := strings.Join(Defaults().ChoiceNames(), ",")
	want := "Learn to Code,Buy Later,Videos to Watch,Startup Ideas,Design Inspiration,Articles to Read"
	if got != want {
		t.Errorf("ChoiceNames() = %s", got)
	}
}

func TestLoaderOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `---
rules:
  - folder: Podcasts
    icon: mic.fill
    host_contains: [spotify]
  - folder: Recipes
    url_contains: [recipe]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := table.Match("https://open.spotify.com/episode/1"); got.Folder != "Podcasts" || got.Icon != "mic.fill" {
		t.Errorf("Match() = %+v", got)
	}
	if got := table.Match("https://www.youtube.com/watch").Folder; got != "Bookmarks" {
		t.Errorf("built-in rules should be replaced, got %q", got)
	}
	if len(table.Choices) != 6 {
		t.Errorf("choices should keep defaults, got %d", len(table.Choices))
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewLoader(filepath.Join(dir, "missing.yaml")).Load(); err == nil {
		t.Error("Load() of missing file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("rules:\n  - icon: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(bad).Load(); err == nil {
		t.Error("Load() with folderless rule should fail")
	}

	table, err := LoadOrDefault("")
	if err != nil || table.Default.Folder != "Bookmarks" {
		t.Errorf("LoadOrDefault(\"\") = %+v, %v", table.Default, err)
	}
}
