package prompt

import (
	"time"

	"promptlab-backend/internal/models"
)

type CreatePromptRequest struct {
	Title        string  `json:"title" binding:"required,min=1,max=200"`
	Content      string  `json:"content" binding:"required"`
	Description  string  `json:"description" binding:"omitempty,max=500"`
	CollectionID *string `json:"collection_id"`
}

type UpdatePromptRequest struct {
	Title        string  `json:"title" binding:"required,min=1,max=200"`
	Content      string  `json:"content" binding:"required"`
	Description  string  `json:"description" binding:"omitempty,max=500"`
	CollectionID *string `json:"collection_id"`
	// ChangeNote is stored as the description of the version this edit creates.
	ChangeNote string `json:"change_note" binding:"omitempty,max=500"`
}

// PatchPromptRequest carries a partial update. Nil fields keep the prompt's
// existing values, so false/empty can be distinguished from "not provided".
type PatchPromptRequest struct {
	Title        *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content      *string `json:"content"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
	CollectionID *string `json:"collection_id"`
	ChangeNote   string  `json:"change_note" binding:"omitempty,max=500"`
}

type RevertPromptRequest struct {
	VersionNumber int `json:"version_number" binding:"required,min=1"`
}

type RevertPromptResponse struct {
	Message          string `json:"message"`
	NewVersionNumber int    `json:"new_version_number"`
}

// PromptDetail is the single-prompt view, extended with the template
// variables extracted from the content.
type PromptDetail struct {
	models.Prompt
	Variables []string `json:"variables"`
}

type PromptListResponse struct {
	Total int64           `json:"total"`
	Items []models.Prompt `json:"items"`
}

// VersionSummary is the list view of a version. Content is omitted here and
// returned only by the single-version endpoint.
type VersionSummary struct {
	VersionNumber int       `json:"version_number"`
	CreatedAt     time.Time `json:"created_at"`
	Description   string    `json:"description,omitempty"`
}

type VersionListResponse struct {
	Total int              `json:"total"`
	Items []VersionSummary `json:"items"`
}
