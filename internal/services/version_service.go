package services

import (
	"errors"
	"fmt"

	"promptlab-backend/internal/database"
	"promptlab-backend/internal/models"
	"promptlab-backend/internal/utils"

	"github.com/avast/retry-go/v4"
	"gorm.io/gorm"
)

// maxAppendRetries bounds how often a writer that lost a version-number race
// re-runs its transaction before the caller sees ErrConflict.
const maxAppendRetries = 3

// withConflictRetry re-runs fn while it fails with a duplicate-key error,
// which is how a lost (prompt_id, version_number) race surfaces. The retry
// budget is small; exhaustion maps to ErrConflict.
func withConflictRetry(fn func() error) error {
	err := retry.Do(fn,
		retry.Attempts(maxAppendRetries),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, gorm.ErrDuplicatedKey)
		}),
		retry.LastErrorOnly(true),
	)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// appendAndAdvance appends one version and moves the prompt's content and
// current_version pointer to it, as a single transaction.
func appendAndAdvance(promptID, content, description string) (*models.PromptVersion, error) {
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

			err = tx.Model(&models.Prompt{}).
				Where("id = ?", promptID).
				Updates(map[string]interface{}{
					"content":         v.Content,
					"current_version": v.VersionNumber,
				}).Error
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

	// Invalidate cache
	database.RedisClient.Del(database.Ctx, PromptCacheKeyPrefix+promptID)

	return version, nil
}

// RecordEdit validates the new content, appends it as the next version and
// advances the prompt to it. Returns the new version record.
func RecordEdit(promptID, newContent, description string) (*models.PromptVersion, error) {
	if !utils.ValidateContent(newContent) {
		return nil, ErrInvalidContent
	}
	return appendAndAdvance(promptID, newContent, description)
}

// GetHistory returns a prompt's versions in ascending order. An unknown
// prompt fails with ErrPromptNotFound; a known prompt with no versions
// returns an empty slice.
func GetHistory(promptID string) ([]models.PromptVersion, error) {
	if err := requirePromptTx(database.DB, promptID); err != nil {
		return nil, err
	}
	return ListVersions(promptID)
}

// RevertPrompt copies the content of an earlier version into a new version at
// the head of the sequence. History is never rewritten: reverting a prompt
// with versions 1..N to version K produces version N+1 with K's content.
// Reverting to the current version is allowed and still appends, so the
// action stays visible in the audit trail.
func RevertPrompt(promptID string, targetVersionNumber int) (*models.PromptVersion, error) {
	if err := requirePromptTx(database.DB, promptID); err != nil {
		return nil, err
	}

	target, err := GetVersion(promptID, targetVersionNumber)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Reverted to version %d", targetVersionNumber)
	return appendAndAdvance(promptID, target.Content, description)
}
