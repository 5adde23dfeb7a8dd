package rules

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads a rule table override from a YAML file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load parses the file. Sections left out of the file keep the built-in
// values, so a file with only `rules:` still has the default folder and
// the hand-pick choices.
func (l *Loader) Load() (Table, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file Table
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Table{}, fmt.Errorf("failed to parse rules yaml: %w", err)
	}

	t := Defaults()
	if file.Rules != nil {
		t.Rules = file.Rules
	}
	if file.Default.Folder != "" {
		t.Default = file.Default
	}
	if file.Choices != nil {
		t.Choices = file.Choices
	}

	if err := t.validate(); err != nil {
		return Table{}, fmt.Errorf("invalid rules file %s: %w", l.filePath, err)
	}
	return t, nil
}

func (t Table) validate() error {
	var errs []error
	for i, r := range t.Rules {
		if r.Folder == "" {
			errs = append(errs, fmt.Errorf("rule %d: folder is required", i))
		}
		if len(r.HostContains) == 0 && len(r.URLContains) == 0 {
			errs = append(errs, fmt.Errorf("rule %d (%s): needs host_contains or url_contains", i, r.Folder))
		}
	}
	for i, c := range t.Choices {
		if c.Folder == "" {
			errs = append(errs, fmt.Errorf("choice %d: folder is required", i))
		}
	}
	return errors.Join(errs...)
}

// LoadOrDefault returns the table at path, or Defaults when path is empty.
func LoadOrDefault(path string) (Table, error) {
	if path == "" {
		return Defaults(), nil
	}
	return NewLoader(path).Load()
}
