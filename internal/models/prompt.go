package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prompt is the mutable unit of content being versioned. Content and
// CurrentVersion always match the latest PromptVersion row.
type Prompt struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Description    string    `gorm:"size:500" json:"description,omitempty"`
	CollectionID   *string   `gorm:"type:uuid;index" json:"collection_id,omitempty"`
	CurrentVersion int       `gorm:"not null;default:1" json:"current_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PromptVersion is an immutable snapshot of a prompt's content. Rows are
// append-only: numbering starts at 1 and the unique index on
// (prompt_id, version_number) arbitrates concurrent appends.
type PromptVersion struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	PromptID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_prompt_version" json:"prompt_id"`
	VersionNumber int       `gorm:"not null;uniqueIndex:idx_prompt_version" json:"version_number"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Description   string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (v *PromptVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
