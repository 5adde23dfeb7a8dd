// Package rules holds the ordered table that suggests a folder for a shared URL.
package rules

import (
	"net/url"
	"strings"
)

// Suggestion is a folder name plus the icon shown next to it.
type Suggestion struct {
	Folder string `yaml:"folder" json:"folder"`
	Icon   string `yaml:"icon" json:"icon"`
}

// Rule matches when any HostContains needle is in the lowercased host or any
// URLContains needle is in the lowercased full URL.
type Rule struct {
	Suggestion   `yaml:",inline"`
	HostContains []string `yaml:"host_contains"`
	URLContains  []string `yaml:"url_contains"`
}

// Table is evaluated top to bottom; the first matching rule wins.
type Table struct {
	Rules   []Rule       `yaml:"rules"`
	Default Suggestion   `yaml:"default"`
	Choices []Suggestion `yaml:"choices"` // folders offered when picking by hand
}

// Defaults returns the built-in table.
func Defaults() Table {
	return Table{
		Rules: []Rule{
			{
				Suggestion:   Suggestion{Folder: "Videos to Watch", Icon: "play.rectangle.fill"},
				HostContains: []string{"youtube", "vimeo", "tiktok"},
			},
			{
				Suggestion:   Suggestion{Folder: "Buy Later", Icon: "cart.fill"},
				HostContains: []string{"amazon", "ebay"},
				URLContains:  []string{"shop"},
			},
			{
				Suggestion:   Suggestion{Folder: "Learn to Code", Icon: "chevron.left.forwardslash.chevron.right"},
				HostContains: []string{"github", "stackoverflow"},
				URLContains:  []string{"tutorial", "guide"},
			},
			{
				Suggestion:  Suggestion{Folder: "Articles to Read", Icon: "doc.text.fill"},
				URLContains: []string{"article", "blog"},
			},
		},
		Default: Suggestion{Folder: "Bookmarks", Icon: "folder.fill"},
		Choices: []Suggestion{
			{Folder: "Learn to Code", Icon: "chevron.left.forwardslash.chevron.right"},
			{Folder: "Buy Later", Icon: "cart.fill"},
			{Folder: "Videos to Watch", Icon: "play.rectangle.fill"},
			{Folder: "Startup Ideas", Icon: "lightbulb.fill"},
			{Folder: "Design Inspiration", Icon: "paintbrush.fill"},
			{Folder: "Articles to Read", Icon: "doc.text.fill"},
		},
	}
}

// Match returns the suggestion for rawURL, or the default.
func (t Table) Match(rawURL string) Suggestion {
	full := strings.ToLower(rawURL)
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.ToLower(u.Hostname())
	}

	for _, r := range t.Rules {
		if containsAny(host, r.HostContains) || containsAny(full, r.URLContains) {
			return r.Suggestion
		}
	}
	return t.Default
}

// ChoiceNames lists the hand-pick folder names in order.
func (t Table) ChoiceNames() []string {
	names := make([]string, len(t.Choices))
	for i, c := range t.Choices {
		names[i] = c.Folder
	}
	return names
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, n := range needles {
		if n != "" && strings.Contains(s, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
