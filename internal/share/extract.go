package share

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/tuck/internal/rules"
)

// Preview icons, named after the symbols the capture UI shows.
const (
	IconDoc   = "doc"
	IconNote  = "note.text"
	IconPhoto = "photo"
	IconLink  = "link"
)

// Content is the item loaded from the selected provider plus its preview.
type Content struct {
	Type ContentType

	URL   string
	Text  string
	Image image.Image // decoded image, nil when unreadable

	// Raw file content, resolved into the media directory at save time.
	Data     []byte
	Path     string
	Filename string
	UTI      string

	Label      string           // one-line description shown to the user
	Icon       string           // preview symbol
	PreviewTag string           // host label drawn on URL placeholders, "Link" without host
	Suggestion rules.Suggestion // folder suggestion, URLs only
}

// HasFile reports whether there is file content to copy into media.
func (c Content) HasFile() bool { return len(c.Data) > 0 || c.Path != "" }

// Extract loads t from p and builds the preview.
func Extract(ctx context.Context, p Provider, t ContentType, table rules.Table) (Content, error) {
	it, err := p.Load(ctx, t)
	if err != nil {
		return Content{}, fmt.Errorf("load %s item: %w", t, err)
	}

	c := Content{Type: t, UTI: it.UTI, Filename: it.Filename}
	switch t {
	case TypeURL:
		c.URL = strings.TrimSpace(it.URL)
		if c.URL == "" {
			c.URL = strings.TrimSpace(it.Text)
		}
		c.Label = c.URL
		c.Icon = IconLink
		c.PreviewTag = "Link"
		if u, err := url.Parse(c.URL); err == nil && u.Hostname() != "" {
			c.PreviewTag = u.Hostname()
		}
		c.Suggestion = table.Match(c.URL)

	case TypeImage:
		c.Data, c.Path = it.Data, it.Path
		c.Image = decodeImage(it)
		c.Icon = IconPhoto
		c.Label = "Image"
		if c.Image == nil {
			c.Label = "Image (unreadable)"
		}

	case TypeFileURL:
		c.Path = it.Path
		if c.Path == "" {
			c.Path = filePath(it.URL)
		}
		c.Icon = IconDoc
		c.Label = filepath.Base(c.Path)
		if c.Filename == "" {
			c.Filename = c.Label
		}

	case TypeMovie, TypeMessage, TypeData:
		c.Data, c.Path = it.Data, it.Path
		c.Icon = IconDoc
		c.Label = "File"
		if t == TypeMessage {
			c.Label = "Email"
		}

	case TypePlainText:
		c.Text = it.Text
		c.Label = it.Text
		c.Icon = IconNote

	default:
		return Content{}, fmt.Errorf("unsupported content type %q", t)
	}
	return c, nil
}

func decodeImage(it Item) image.Image {
	data := it.Data
	if len(data) == 0 && it.Path != "" {
		b, err := os.ReadFile(it.Path)
		if err != nil {
			return nil
		}
		data = b
	}
	if len(data) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// filePath turns a file:// URL into a local path; other strings pass through.
func filePath(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Scheme == "file" {
		return u.Path
	}
	return raw
}
