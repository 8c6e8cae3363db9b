package services

import (
	"encoding/json"
	"errors"
	"time"

	"promptlab-backend/internal/database"
	"promptlab-backend/internal/models"
	"promptlab-backend/internal/utils"

	"gorm.io/gorm"
)

const (
	PromptCacheKeyPrefix = "prompt:id:"
	PromptCacheDuration  = 24 * time.Hour
)

// CreatePrompt creates a new prompt and records version 1 in the same
// transaction, so a prompt never exists without its initial snapshot.
func CreatePrompt(title, content, description string, collectionID *string) (*models.Prompt, error) {
	if !utils.ValidateContent(content) {
		return nil, ErrInvalidContent
	}

	if collectionID != nil {
		if _, err := GetCollection(*collectionID); err != nil {
			return nil, err
		}
	}

	prompt := &models.Prompt{
		Title:          title,
		Content:        content,
		Description:    description,
		CollectionID:   collectionID,
		CurrentVersion: 1,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(prompt).Error; err != nil {
			return err
		}

		version := &models.PromptVersion{
			PromptID:      prompt.ID,
			VersionNumber: 1,
			Content:       content,
			Description:   "Initial version",
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, err
	}

	return prompt, nil
}

// GetPrompt retrieves a prompt by id, using cache
func GetPrompt(id string) (*models.Prompt, error) {
	cacheKey := PromptCacheKeyPrefix + id

	// Try cache
	val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
	if err == nil {
		var prompt models.Prompt
		if err := json.Unmarshal([]byte(val), &prompt); err == nil {
			return &prompt, nil
		}
	}

	// Fetch from DB
	var prompt models.Prompt
	if err := database.DB.First(&prompt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}

	// Set cache
	if data, err := json.Marshal(prompt); err == nil {
		database.RedisClient.Set(database.Ctx, cacheKey, data, PromptCacheDuration)
	}

	return &prompt, nil
}

// UpdatePrompt replaces a prompt's fields and records the submitted content
// as the next version. The version append, the pointer advance and the
// metadata update happen in one transaction.
func UpdatePrompt(id, title, content, description string, collectionID *string, changeNote string) (*models.Prompt, error) {
	if !utils.ValidateContent(content) {
		return nil, ErrInvalidContent
	}

	if collectionID != nil {
		if _, err := GetCollection(*collectionID); err != nil {
			return nil, err
		}
	}

	var prompt models.Prompt
	err := withConflictRetry(func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&prompt, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPromptNotFound
				}
				return err
			}

			version, err := appendVersionTx(tx, id, content, changeNote)
			if err != nil {
				return err
			}

			prompt.Title = title
			prompt.Content = content
			prompt.Description = description
			prompt.CollectionID = collectionID
			prompt.CurrentVersion = version.VersionNumber
			return tx.Save(&prompt).Error
		})
	})
	if err != nil {
		return nil, err
	}

	// Invalidate cache
	database.RedisClient.Del(database.Ctx, PromptCacheKeyPrefix+id)

	return &prompt, nil
}

// PatchPrompt applies a partial update: nil fields keep the existing values.
// A new content value is recorded as the next version; a metadata-only patch
// leaves the version ledger untouched.
func PatchPrompt(id string, title, content, description, collectionID *string, changeNote string) (*models.Prompt, error) {
	if content != nil && !utils.ValidateContent(*content) {
		return nil, ErrInvalidContent
	}

	if collectionID != nil {
		if _, err := GetCollection(*collectionID); err != nil {
			return nil, err
		}
	}

	var prompt models.Prompt
	err := withConflictRetry(func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&prompt, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPromptNotFound
				}
				return err
			}

			if title != nil {
				prompt.Title = *title
			}
			if description != nil {
				prompt.Description = *description
			}
			if collectionID != nil {
				prompt.CollectionID = collectionID
			}
			if content != nil {
				version, err := appendVersionTx(tx, id, *content, changeNote)
				if err != nil {
					return err
				}
				prompt.Content = *content
				prompt.CurrentVersion = version.VersionNumber
			}
			return tx.Save(&prompt).Error
		})
	})
	if err != nil {
		return nil, err
	}

	// Invalidate cache
	database.RedisClient.Del(database.Ctx, PromptCacheKeyPrefix+id)

	return &prompt, nil
}

// DeletePrompt deletes a prompt and all of its versions.
func DeletePrompt(id string) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prompt_id = ?", id).Delete(&models.PromptVersion{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Prompt{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPromptNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Invalidate cache
	database.RedisClient.Del(database.Ctx, PromptCacheKeyPrefix+id)

	return nil
}

// ListPrompts retrieves a paginated list of prompts, newest first, optionally
// filtered by collection and by a search term over title and description.
func ListPrompts(collectionID, search string, page, pageSize int) ([]models.Prompt, int64, error) {
	var prompts []models.Prompt
	var total int64

	db := database.DB.Model(&models.Prompt{})

	if collectionID != "" {
		db = db.Where("collection_id = ?", collectionID)
	}
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := db.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&prompts).Error; err != nil {
		return nil, 0, err
	}

	return prompts, total, nil
}
