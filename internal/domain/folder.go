package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Folder groups bookmarks under one intent.
type Folder struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Bookmarks     []Bookmark    `json:"bookmarks"`
	IsPublic      bool          `json:"isPublic"`
	Color         string        `json:"color"`
	Icon          string        `json:"icon"`
	CreatedBy     string        `json:"createdBy"`
	SavedByCount  int           `json:"savedByCount"`
	IsPopular     bool          `json:"isPopular"`
	Collaborators []string      `json:"collaborators"`
	Outcome       FolderOutcome `json:"outcome"`
}

// Folder field defaults, used by NewFolder and by relaxed decoding.
const (
	DefaultFolderColor     = "blue"
	DefaultFolderIcon      = "folder"
	DefaultFolderCreatedBy = "You"
)

// NewFolder returns a local folder with the default presentation fields.
func NewFolder(name string) Folder {
	return Folder{
		ID:            uuid.New(),
		Name:          name,
		Bookmarks:     []Bookmark{},
		Color:         DefaultFolderColor,
		Icon:          DefaultFolderIcon,
		CreatedBy:     DefaultFolderCreatedBy,
		Collaborators: []string{},
		Outcome:       OutcomeLearn,
	}
}

// UnmarshalJSON decodes a folder as the server sends it.
// Only id and name are required. Every other field falls back to its
// NewFolder default when it is missing or has the wrong JSON type.
func (f *Folder) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := NewFolder("")
	if err := required(raw, "id", &out.ID); err != nil {
		return fmt.Errorf("folder: %w", err)
	}
	if err := required(raw, "name", &out.Name); err != nil {
		return fmt.Errorf("folder: %w", err)
	}

	lenientInto(raw, "description", &out.Description, "")
	lenientInto(raw, "bookmarks", &out.Bookmarks, []Bookmark{})
	lenientInto(raw, "isPublic", &out.IsPublic, false)
	lenientInto(raw, "color", &out.Color, DefaultFolderColor)
	lenientInto(raw, "icon", &out.Icon, DefaultFolderIcon)
	lenientInto(raw, "createdBy", &out.CreatedBy, DefaultFolderCreatedBy)
	lenientInto(raw, "savedByCount", &out.SavedByCount, 0)
	lenientInto(raw, "isPopular", &out.IsPopular, false)
	lenientInto(raw, "collaborators", &out.Collaborators, []string{})
	lenientInto(raw, "outcome", &out.Outcome, OutcomeLearn)

	if !out.Outcome.valid() {
		out.Outcome = OutcomeLearn
	}
	if out.Bookmarks == nil {
		out.Bookmarks = []Bookmark{}
	}
	if out.Collaborators == nil {
		out.Collaborators = []string{}
	}

	*f = out
	return nil
}

// lenientInto decodes raw[key] into dst, resetting dst to def on any failure.
func lenientInto[T any](raw map[string]json.RawMessage, key string, dst *T, def T) {
	var v T
	if ok, err := lenient(raw, key, &v); ok && err == nil {
		*dst = v
		return
	}
	*dst = def
}

// CompletedCount returns how many bookmarks are marked completed.
func (f Folder) CompletedCount() int {
	n := 0
	for _, b := range f.Bookmarks {
		if b.IsCompleted {
			n++
		}
	}
	return n
}

// ProgressPercentage is the completed share of bookmarks, 0-100.
func (f Folder) ProgressPercentage() float64 {
	if len(f.Bookmarks) == 0 {
		return 0
	}
	return float64(f.CompletedCount()) / float64(len(f.Bookmarks)) * 100
}

// TotalEstimatedTime sums the read time of all bookmarks, in minutes.
func (f Folder) TotalEstimatedTime() int {
	total := 0
	for _, b := range f.Bookmarks {
		total += b.EstimatedReadTime
	}
	return total
}
