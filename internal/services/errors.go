package services

import "errors"

// Error kinds surfaced by the service layer. Handlers branch on these with
// errors.Is to pick the HTTP status, so "unknown prompt" and "unknown version
// on a known prompt" stay distinguishable.
var (
	ErrPromptNotFound     = errors.New("prompt not found")
	ErrVersionNotFound    = errors.New("version not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrConflict           = errors.New("concurrent version conflict")
	ErrInvalidContent     = errors.New("prompt content must be at least 10 non-whitespace characters")
)
