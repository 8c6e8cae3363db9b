package collection

import "promptlab-backend/internal/models"

type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

type CollectionListResponse struct {
	Total int                 `json:"total"`
	Items []models.Collection `json:"items"`
}
