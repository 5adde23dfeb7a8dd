package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPayloadConstructorsHonorKind(t *testing.T) {
	asset := NewAsset("A1B2.jpg", "public.jpeg", "IMG_0001.jpg")

	tests := []struct {
		name      string
		payload   PendingBookmarkPayload
		wantKind  PayloadKind
		wantURL   bool
		wantText  bool
		wantAsset bool
	}{
		{
			name:     "url",
			payload:  NewURLPayload("Youtube", "Videos to Watch", "Video", "https://youtube.com/watch?v=1"),
			wantKind: KindURL,
			wantURL:  true,
		},
		{
			name:     "text",
			payload:  NewTextPayload("Text", "Bookmarks", "Quote", "stay hungry"),
			wantKind: KindText,
			wantText: true,
		},
		{
			name:      "asset",
			payload:   NewAssetPayload("Photo", "Bookmarks", "Photo", asset),
			wantKind:  KindAsset,
			wantAsset: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.payload
			if p.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", p.Kind, tt.wantKind)
			}
			if (p.URL != nil) != tt.wantURL {
				t.Errorf("URL set = %v, want %v", p.URL != nil, tt.wantURL)
			}
			if (p.Text != nil) != tt.wantText {
				t.Errorf("Text set = %v, want %v", p.Text != nil, tt.wantText)
			}
			if (p.AssetRelativePath != nil) != tt.wantAsset {
				t.Errorf("AssetRelativePath set = %v, want %v", p.AssetRelativePath != nil, tt.wantAsset)
			}
			if err := p.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if p.ID.String() == "" || p.CreatedAt.IsZero() {
				t.Error("constructor should set id and createdAt")
			}
		})
	}
}

func TestValidateRejectsMismatchedContent(t *testing.T) {
	text := "oops"
	p := NewURLPayload("t", "f", "Article", "https://example.com")
	p.Text = &text

	err := p.Validate()
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("Validate() error = %v, want ErrInvalidPayload", err)
	}

	p = NewTextPayload("t", "f", "Quote", "x")
	p.Kind = "video"
	if err := p.Validate(); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("Validate() with unknown kind error = %v, want ErrInvalidPayload", err)
	}
}

func TestPayloadJSONOmitsAbsentContent(t *testing.T) {
	p := NewURLPayload("Example", "Bookmarks", "Article", "https://example.com")
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"text", "assetRelativePath", "assetUTI", "assetFilename"} {
		if _, ok := fields[key]; ok {
			t.Errorf("key %q should be omitted for url payloads", key)
		}
	}
	if fields["kind"] != "url" || fields["url"] != "https://example.com" {
		t.Errorf("unexpected encoding: %s", data)
	}
}

func TestPayloadAsset(t *testing.T) {
	asset := NewAsset("doc.pdf", "com.adobe.pdf", "report.pdf")
	p := NewAssetPayload("report.pdf", "Bookmarks", "Document", asset)

	got, ok := p.Asset()
	if !ok {
		t.Fatal("Asset() returned false for asset payload")
	}
	if got.RelativePath != "doc.pdf" || got.UTI != "com.adobe.pdf" {
		t.Errorf("Asset() = %+v", got)
	}
	if got.OriginalFilename == nil || *got.OriginalFilename != "report.pdf" {
		t.Errorf("Asset().OriginalFilename = %v, want report.pdf", got.OriginalFilename)
	}

	if _, ok := NewTextPayload("t", "f", "Quote", "x").Asset(); ok {
		t.Error("Asset() should return false for text payloads")
	}
}
