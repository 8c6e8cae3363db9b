package services

import (
	"errors"

	"promptlab-backend/internal/database"
	"promptlab-backend/internal/models"

	"gorm.io/gorm"
)

// CreateCollection creates a new collection
func CreateCollection(name, description string) (*models.Collection, error) {
	collection := &models.Collection{
		Name:        name,
		Description: description,
	}
	if err := database.DB.Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

// GetCollection retrieves a collection by id
func GetCollection(id string) (*models.Collection, error) {
	var collection models.Collection
	if err := database.DB.First(&collection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

// ListCollections retrieves all collections, newest first.
func ListCollections() ([]models.Collection, error) {
	var collections []models.Collection
	if err := database.DB.Order("created_at desc").Find(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

// DeleteCollection deletes a collection together with its member prompts and
// their version history.
func DeleteCollection(id string) error {
	var promptIDs []string

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Prompt{}).
			Where("collection_id = ?", id).
			Pluck("id", &promptIDs).Error; err != nil {
			return err
		}

		if len(promptIDs) > 0 {
			if err := tx.Where("prompt_id IN ?", promptIDs).Delete(&models.PromptVersion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", promptIDs).Delete(&models.Prompt{}).Error; err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", id).Delete(&models.Collection{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCollectionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, promptID := range promptIDs {
		database.RedisClient.Del(database.Ctx, PromptCacheKeyPrefix+promptID)
	}

	return nil
}
