package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
)

type createFolderRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

type updateFolderRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Color       string               `json:"color"`
	Icon        string               `json:"icon"`
	IsPublic    bool                 `json:"isPublic"`
	Outcome     domain.FolderOutcome `json:"outcome"`
}

func (c *Client) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	var out []domain.Folder
	if err := c.do(ctx, http.MethodGet, "/folders", true, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Folder{}
	}
	return out, nil
}

// CreateFolder creates a folder; color nil lets the server pick.
func (c *Client) CreateFolder(ctx context.Context, name string, color *string) (domain.Folder, error) {
	var out domain.Folder
	err := c.do(ctx, http.MethodPost, "/folders", true, createFolderRequest{Name: name, Color: color}, &out)
	return out, err
}

// UpdateFolder sends the editable fields of f.
func (c *Client) UpdateFolder(ctx context.Context, f domain.Folder) (domain.Folder, error) {
	req := updateFolderRequest{
		Name:        f.Name,
		Description: f.Description,
		Color:       f.Color,
		Icon:        f.Icon,
		IsPublic:    f.IsPublic,
		Outcome:     f.Outcome,
	}
	var out domain.Folder
	err := c.do(ctx, http.MethodPut, "/folders/"+f.ID.String(), true, req, &out)
	return out, err
}

func (c *Client) DeleteFolder(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/folders/"+id.String(), true, nil, nil)
}
