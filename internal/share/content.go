// Package share is the capture side: it picks the best item out of a share
// payload, previews it, and either hands it to smart sort or queues it for
// the app.
package share

import "context"

// ContentType is a kind of item a share payload can carry.
type ContentType string

const (
	TypeURL       ContentType = "url"
	TypeImage     ContentType = "image"
	TypeMovie     ContentType = "movie"
	TypeFileURL   ContentType = "file-url"
	TypeMessage   ContentType = "message"
	TypeData      ContentType = "data"
	TypePlainText ContentType = "plain-text"
)

// PriorityOrder is the order in which content types are tried.
var PriorityOrder = []ContentType{
	TypeURL,
	TypeImage,
	TypeMovie,
	TypeFileURL,
	TypeMessage,
	TypeData,
	TypePlainText,
}

// Item is what a provider hands over for one content type. Which fields are
// set depends on the type: URL for links, Text for plain text, Data and/or
// Path for images and files.
type Item struct {
	URL      string
	Text     string
	Data     []byte
	Path     string
	Filename string
	UTI      string
}

// Provider is one attachment of a share payload.
type Provider interface {
	Conforms(t ContentType) bool
	Load(ctx context.Context, t ContentType) (Item, error)
}

// StaticProvider serves items it already holds.
type StaticProvider map[ContentType]Item

func (p StaticProvider) Conforms(t ContentType) bool {
	_, ok := p[t]
	return ok
}

func (p StaticProvider) Load(_ context.Context, t ContentType) (Item, error) {
	it, ok := p[t]
	if !ok {
		return Item{}, ErrNoContent
	}
	return it, nil
}

// Select walks PriorityOrder and returns the first provider conforming to
// the earliest type. Every other provider is ignored.
func Select(providers []Provider) (Provider, ContentType, bool) {
	for _, t := range PriorityOrder {
		for _, p := range providers {
			if p.Conforms(t) {
				return p, t, true
			}
		}
	}
	return nil, "", false
}
