package api

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/tuck/internal/domain"
)

type analyzeRequest struct {
	URL   string  `json:"url"`
	Title *string `json:"title,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

type smartSortRequest struct {
	Text         string  `json:"text"`
	UserExamples *string `json:"userExamples,omitempty"`
}

// AnalyzeBookmark classifies a URL without saving anything.
func (c *Client) AnalyzeBookmark(ctx context.Context, url string, title, notes *string) (domain.AnalysisResult, error) {
	var out domain.AnalysisResult
	err := c.do(ctx, http.MethodPost, "/smart-sort", true, analyzeRequest{URL: url, Title: title, Notes: notes}, &out)
	return out, err
}

// AnalyzeAndSaveBookmark classifies a URL and persists it in the resolved folder.
func (c *Client) AnalyzeAndSaveBookmark(ctx context.Context, url string, title, notes *string) (domain.SavedBookmark, error) {
	var out domain.SavedBookmark
	err := c.do(ctx, http.MethodPost, "/bookmarks/smart-save", true, analyzeRequest{URL: url, Title: title, Notes: notes}, &out)
	return out, err
}

// SmartSort classifies free text, optionally steered by examples of the user's own sorting.
func (c *Client) SmartSort(ctx context.Context, text string, userExamples *string) (domain.AnalysisResult, error) {
	var out domain.AnalysisResult
	err := c.do(ctx, http.MethodPost, "/smart-sort", true, smartSortRequest{Text: text, UserExamples: userExamples}, &out)
	return out, err
}
