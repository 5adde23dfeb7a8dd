package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PayloadKind discriminates which content field of a PendingBookmarkPayload is set.
type PayloadKind string

const (
	KindURL   PayloadKind = "url"
	KindText  PayloadKind = "text"
	KindAsset PayloadKind = "asset"
)

// ErrInvalidPayload is returned by Validate when the kind and content fields disagree.
var ErrInvalidPayload = errors.New("invalid pending bookmark payload")

// PendingBookmarkPayload is one capture that has not reached the main app yet.
//
// Exactly one of URL, Text and AssetRelativePath is set, matching Kind.
// Records are written once by the capture side and consumed as a batch by sync;
// nothing mutates them in between.
type PendingBookmarkPayload struct {
	ID   uuid.UUID   `json:"id"`
	Kind PayloadKind `json:"kind"`

	Title   string `json:"title"`
	Folder  string `json:"folder"`  // free-text folder label, not an id
	TypeRaw string `json:"typeRaw"` // free-text type label ("Video", "Photo", ...)

	URL  *string `json:"url,omitempty"`
	Text *string `json:"text,omitempty"`

	AssetRelativePath *string `json:"assetRelativePath,omitempty"`
	AssetUTI          *string `json:"assetUTI,omitempty"`
	AssetFilename     *string `json:"assetFilename,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func newPayload(kind PayloadKind, title, folder, typeRaw string) PendingBookmarkPayload {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return PendingBookmarkPayload{
		ID:        id,
		Kind:      kind,
		Title:     title,
		Folder:    folder,
		TypeRaw:   typeRaw,
		CreatedAt: time.Now().UTC(),
	}
}

// NewURLPayload builds a url-kind record.
func NewURLPayload(title, folder, typeRaw, url string) PendingBookmarkPayload {
	p := newPayload(KindURL, title, folder, typeRaw)
	p.URL = &url
	return p
}

// NewTextPayload builds a text-kind record.
func NewTextPayload(title, folder, typeRaw, text string) PendingBookmarkPayload {
	p := newPayload(KindText, title, folder, typeRaw)
	p.Text = &text
	return p
}

// NewAssetPayload builds an asset-kind record from an asset already in the media directory.
func NewAssetPayload(title, folder, typeRaw string, asset BookmarkAsset) PendingBookmarkPayload {
	p := newPayload(KindAsset, title, folder, typeRaw)
	rel := asset.RelativePath
	uti := asset.UTI
	p.AssetRelativePath = &rel
	p.AssetUTI = &uti
	if asset.OriginalFilename != nil {
		name := *asset.OriginalFilename
		p.AssetFilename = &name
	}
	return p
}

// Validate checks the kind/content invariant.
func (p PendingBookmarkPayload) Validate() error {
	hasURL := p.URL != nil
	hasText := p.Text != nil
	hasAsset := p.AssetRelativePath != nil

	var ok bool
	switch p.Kind {
	case KindURL:
		ok = hasURL && !hasText && !hasAsset
	case KindText:
		ok = hasText && !hasURL && !hasAsset
	case KindAsset:
		ok = hasAsset && !hasURL && !hasText
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPayload, p.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: content fields do not match kind %q", ErrInvalidPayload, p.Kind)
	}
	return nil
}

// Asset rebuilds the BookmarkAsset an asset-kind record refers to.
// It returns false for other kinds or when the UTI is missing.
func (p PendingBookmarkPayload) Asset() (BookmarkAsset, bool) {
	if p.Kind != KindAsset || p.AssetRelativePath == nil || p.AssetUTI == nil {
		return BookmarkAsset{}, false
	}
	return BookmarkAsset{
		ID:               uuid.New(),
		RelativePath:     *p.AssetRelativePath,
		UTI:              *p.AssetUTI,
		OriginalFilename: p.AssetFilename,
		CreatedAt:        p.CreatedAt,
	}, true
}
