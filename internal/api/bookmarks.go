package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
)

// GetBookmarks lists the bookmarks of one folder, or all bookmarks when
// folderID is nil.
func (c *Client) GetBookmarks(ctx context.Context, folderID *uuid.UUID) ([]domain.Bookmark, error) {
	path := "/bookmarks"
	if folderID != nil {
		path = "/folders/" + folderID.String() + "/bookmarks"
	}
	var out []domain.Bookmark
	if err := c.do(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Bookmark{}
	}
	return out, nil
}

// DeleteBookmark removes a bookmark on the server. Local asset files are
// left to the media collector.
func (c *Client) DeleteBookmark(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/bookmarks/"+id.String(), true, nil, nil)
}
