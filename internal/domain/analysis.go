package domain

import "github.com/google/uuid"

// AnalysisResult is what the smart-sort classifier returns.
type AnalysisResult struct {
	Folders  []string `json:"folders"`
	Deadline *string  `json:"deadline,omitempty"` // ISO 8601
	Price    *float64 `json:"price,omitempty"`
	Summary  string   `json:"summary"`
}

// SavedBookmark is the response of the classify-and-persist call.
// Folder is nil when the server did not resolve one.
type SavedBookmark struct {
	Bookmark Bookmark       `json:"bookmark"`
	Folder   *Folder        `json:"folder,omitempty"`
	Analysis AnalysisResult `json:"analysis"`
}

// PublicUser is the user identity the server exposes.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
