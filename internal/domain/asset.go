package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookmarkAsset points at a file that lives in the shared media directory.
// RelativePath is the only durable reference to the file.
type BookmarkAsset struct {
	ID                    uuid.UUID `json:"id"`
	RelativePath          string    `json:"relativePath"`
	ThumbnailRelativePath *string   `json:"thumbnailRelativePath,omitempty"`
	UTI                   string    `json:"uti"`
	OriginalFilename      *string   `json:"originalFilename,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

// NewAsset builds an asset record for a file already copied into the media directory.
func NewAsset(relativePath, uti string, originalFilename string) BookmarkAsset {
	a := BookmarkAsset{
		ID:           uuid.New(),
		RelativePath: relativePath,
		UTI:          uti,
		CreatedAt:    time.Now(),
	}
	if originalFilename != "" {
		a.OriginalFilename = &originalFilename
	}
	return a
}
