package services

import (
	"errors"

	"promptlab-backend/internal/database"
	"promptlab-backend/internal/models"

	"gorm.io/gorm"
)

// The version ledger is append-only. Version numbers per prompt form a
// gapless sequence starting at 1; the unique index on
// (prompt_id, version_number) rejects the loser of a concurrent append.

// currentMaxVersionTx returns the highest version number recorded for the
// prompt within the given transaction, or 0 if it has no versions.
func currentMaxVersionTx(tx *gorm.DB, promptID string) (int, error) {
	var current int
	err := tx.Model(&models.PromptVersion{}).
		Where("prompt_id = ?", promptID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current, nil
}

// CurrentMaxVersion returns the highest version number for a prompt, or 0.
func CurrentMaxVersion(promptID string) (int, error) {
	return currentMaxVersionTx(database.DB, promptID)
}

// appendVersionTx persists the next version record for a prompt inside tx.
// The caller decides whether the prompt's current pointer advances with it.
func appendVersionTx(tx *gorm.DB, promptID, content, description string) (*models.PromptVersion, error) {
	current, err := currentMaxVersionTx(tx, promptID)
	if err != nil {
		return nil, err
	}

	version := &models.PromptVersion{
		PromptID:      promptID,
		VersionNumber: current + 1,
		Content:       content,
		Description:   description,
	}
	if err := tx.Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

// AppendVersion records a new version for an existing prompt without touching
// the prompt row itself. Returns ErrPromptNotFound for an unknown prompt and
// ErrConflict if concurrent appends exhaust the retry budget.
func AppendVersion(promptID, content, description string) (*models.PromptVersion, error) {
	var version *models.PromptVersion
	err := withConflictRetry(func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			if err := requirePromptTx(tx, promptID); err != nil {
				return err
			}
			v, err := appendVersionTx(tx, promptID, content, description)
			if err != nil {
				return err
			}
			version = v
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// ListVersions returns all versions of a prompt ordered by version number
// ascending. A prompt with no versions yields an empty slice, not an error.
func ListVersions(promptID string) ([]models.PromptVersion, error) {
	var versions []models.PromptVersion
	err := database.DB.
		Where("prompt_id = ?", promptID).
		Order("version_number asc").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// GetVersion fetches one version of a prompt by number.
func GetVersion(promptID string, versionNumber int) (*models.PromptVersion, error) {
	var version models.PromptVersion
	err := database.DB.
		Where("prompt_id = ? AND version_number = ?", promptID, versionNumber).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}

// requirePromptTx maps a missing prompt row to ErrPromptNotFound.
func requirePromptTx(tx *gorm.DB, promptID string) error {
	var prompt models.Prompt
	if err := tx.Select("id").First(&prompt, "id = ?", promptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromptNotFound
		}
		return err
	}
	return nil
}
