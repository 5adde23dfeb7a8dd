package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StaleAfter is how long a bookmark may go unopened before it is suggested for review.
const StaleAfter = 14 * 24 * time.Hour

// OpposingView is a counterpoint link attached to a bookmark.
type OpposingView struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	Summary string    `json:"summary"`
}

// Bookmark is the client-side copy of a server bookmark.
// The server owns it; the client keeps a possibly stale copy per folder.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	ID    uuid.UUID    `json:"id"`
	Title string       `json:"title"`
	Type  BookmarkType `json:"type"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// URL is nil for items captured as files or text.
	URL      *string         `json:"url,omitempty"`
	ImageURL *string         `json:"imageURL,omitempty"`
	Assets   []BookmarkAsset `json:"assets"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	EstimatedReadTime int            `json:"estimatedReadTime"`
	EstimatedSkimTime int            `json:"estimatedSkimTime"`
	Notes             string         `json:"notes"`
	AISummary         string         `json:"aiSummary"`
	SavedDate         time.Time      `json:"savedDate"`
	LastViewed        *time.Time     `json:"lastViewed,omitempty"`
	Tags              []string       `json:"tags"`
	IsCompleted       bool           `json:"isCompleted"`
	SavedByCount      int            `json:"savedByCount"`
	KeyQuote          *string        `json:"keyQuote,omitempty"`
	OpposingViews     []OpposingView `json:"opposingViews"`

	// ─────────────────────────────
	// Reminders
	// ─────────────────────────────

	ReminderDate    *time.Time       `json:"reminderDate,omitempty"`
	ReminderContext *ReminderContext `json:"reminderContext,omitempty"`
}

// NewBookmark returns a bookmark with empty collections and SavedDate set to now.
func NewBookmark(title string, t BookmarkType) Bookmark {
	return Bookmark{
		ID:            uuid.New(),
		Title:         title,
		Type:          t,
		Assets:        []BookmarkAsset{},
		Tags:          []string{},
		OpposingViews: []OpposingView{},
		SavedDate:     time.Now(),
	}
}

// IsStale reports whether the bookmark was last opened (or, if never opened,
// saved) more than StaleAfter before now.
func (b Bookmark) IsStale(now time.Time) bool {
	cutoff := now.Add(-StaleAfter)
	if b.LastViewed != nil {
		return b.LastViewed.Before(cutoff)
	}
	return b.SavedDate.Before(cutoff)
}

// UnmarshalJSON decodes a server or cached bookmark, filling absent fields.
//
//	id, title        required
//	type             unknown or wrong JSON type -> Other
//	url              trimmed, empty -> nil
//	assets/tags/opposingViews  missing -> empty
//	counters         missing -> 0
//	notes/aiSummary  missing -> ""
//	savedDate        missing -> time of decoding
//	isCompleted      missing -> false
//
// Present fields with the wrong JSON type (other than type) are errors.
func (b *Bookmark) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Bookmark{
		Type:          TypeOther,
		Assets:        []BookmarkAsset{},
		Tags:          []string{},
		OpposingViews: []OpposingView{},
		SavedDate:     time.Now(),
	}

	if err := required(raw, "id", &out.ID); err != nil {
		return fmt.Errorf("bookmark: %w", err)
	}
	if err := required(raw, "title", &out.Title); err != nil {
		return fmt.Errorf("bookmark: %w", err)
	}

	var rawType string
	if ok, _ := lenient(raw, "type", &rawType); ok {
		out.Type = ParseBookmarkType(rawType)
	}

	var rawURL *string
	errs := []error{
		optional(raw, "url", &rawURL),
		optional(raw, "imageURL", &out.ImageURL),
		optional(raw, "assets", &out.Assets),
		optional(raw, "estimatedReadTime", &out.EstimatedReadTime),
		optional(raw, "estimatedSkimTime", &out.EstimatedSkimTime),
		optional(raw, "notes", &out.Notes),
		optional(raw, "aiSummary", &out.AISummary),
		optional(raw, "savedDate", &out.SavedDate),
		optional(raw, "lastViewed", &out.LastViewed),
		optional(raw, "tags", &out.Tags),
		optional(raw, "isCompleted", &out.IsCompleted),
		optional(raw, "reminderDate", &out.ReminderDate),
		optional(raw, "reminderContext", &out.ReminderContext),
		optional(raw, "savedByCount", &out.SavedByCount),
		optional(raw, "keyQuote", &out.KeyQuote),
		optional(raw, "opposingViews", &out.OpposingViews),
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("bookmark %s: %w", out.ID, err)
	}

	if rawURL != nil {
		if trimmed := strings.TrimSpace(*rawURL); trimmed != "" {
			out.URL = &trimmed
		}
	}
	if out.ReminderContext != nil && !out.ReminderContext.valid() {
		out.ReminderContext = nil
	}
	// JSON null decodes to nil slices; keep collections non-nil.
	if out.Assets == nil {
		out.Assets = []BookmarkAsset{}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.OpposingViews == nil {
		out.OpposingViews = []OpposingView{}
	}

	*b = out
	return nil
}

// required decodes raw[key] into dst and fails when the key is absent.
func required(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return fmt.Errorf("missing required field %q", key)
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// optional decodes raw[key] into dst when present and leaves dst untouched otherwise.
func optional(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// lenient decodes raw[key] into dst and reports whether it succeeded.
// A decode failure leaves dst at its default.
func lenient(raw map[string]json.RawMessage, key string, dst any) (bool, error) {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return false, err
	}
	return true, nil
}
