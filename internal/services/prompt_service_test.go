package services

import (
	"testing"

	"promptlab-backend/internal/database"
	"promptlab-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCreatePromptRecordsInitialVersion(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Greeting", "Hello {{name}}, welcome aboard!", "onboarding prompt", nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, prompt.ID)
	assert.Equal(t, 1, prompt.CurrentVersion)

	versions, err := ListVersions(prompt.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.Equal(t, prompt.Content, versions[0].Content)
	assert.Equal(t, "Initial version", versions[0].Description)
}

func TestCreatePromptValidation(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	_, err := CreatePrompt("Too short", "tiny", "", nil)
	assert.ErrorIs(t, err, ErrInvalidContent)

	missing := "no-such-collection"
	_, err = CreatePrompt("Orphan", "long enough prompt content", "", &missing)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestGetPromptUsesCache(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Cached", "cacheable prompt content", "", nil)
	assert.NoError(t, err)

	// First fetch populates the cache
	fetched, err := GetPrompt(prompt.ID)
	assert.NoError(t, err)
	assert.Equal(t, prompt.Content, fetched.Content)
	assert.True(t, mr.Exists(PromptCacheKeyPrefix+prompt.ID))

	// Modify the row behind the cache; a second fetch should serve the stale
	// cached copy
	database.DB.Model(&models.Prompt{}).Where("id = ?", prompt.ID).Update("title", "Renamed")
	cached, err := GetPrompt(prompt.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Cached", cached.Title)

	_, err = GetPrompt("no-such-prompt")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestUpdatePromptAdvancesVersion(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Draft", "first draft of the prompt", "", nil)
	assert.NoError(t, err)

	// Warm the cache, then update; the cached copy must be dropped
	_, err = GetPrompt(prompt.ID)
	assert.NoError(t, err)
	assert.True(t, mr.Exists(PromptCacheKeyPrefix+prompt.ID))

	updated, err := UpdatePrompt(prompt.ID, "Final", "second draft of the prompt", "ready", nil, "tighten wording")
	assert.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, 2, updated.CurrentVersion)
	assert.False(t, mr.Exists(PromptCacheKeyPrefix+prompt.ID))

	versions, err := ListVersions(prompt.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 2)
	assert.Equal(t, "tighten wording", versions[1].Description)

	_, err = UpdatePrompt("no-such-prompt", "Title", "content long enough", "", nil, "")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestPatchPromptPartialUpdate(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Draft", "the original prompt content", "notes", nil)
	assert.NoError(t, err)

	// Metadata-only patch: other fields and the ledger stay as they were
	newTitle := "Renamed"
	patched, err := PatchPrompt(prompt.ID, &newTitle, nil, nil, nil, "")
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", patched.Title)
	assert.Equal(t, "the original prompt content", patched.Content)
	assert.Equal(t, "notes", patched.Description)
	assert.Equal(t, 1, patched.CurrentVersion)

	versions, err := ListVersions(prompt.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 1)

	// Content patch records the next version and advances the pointer
	newContent := "the replacement prompt content"
	patched, err = PatchPrompt(prompt.ID, nil, &newContent, nil, nil, "swap wording")
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", patched.Title)
	assert.Equal(t, newContent, patched.Content)
	assert.Equal(t, 2, patched.CurrentVersion)

	versions, err = ListVersions(prompt.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 2)
	assert.Equal(t, "swap wording", versions[1].Description)

	// Invalid replacement content is rejected without touching the ledger
	bad := "tiny"
	_, err = PatchPrompt(prompt.ID, nil, &bad, nil, nil, "")
	assert.ErrorIs(t, err, ErrInvalidContent)

	missing := "no-such-collection"
	_, err = PatchPrompt(prompt.ID, nil, nil, nil, &missing, "")
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	_, err = PatchPrompt("no-such-prompt", &newTitle, nil, nil, nil, "")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestDeletePromptCascadesVersions(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Doomed", "content that will be deleted", "", nil)
	assert.NoError(t, err)
	_, err = RecordEdit(prompt.ID, "still doomed after edit", "")
	assert.NoError(t, err)

	assert.NoError(t, DeletePrompt(prompt.ID))

	var count int64
	database.DB.Model(&models.PromptVersion{}).Where("prompt_id = ?", prompt.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	assert.ErrorIs(t, DeletePrompt(prompt.ID), ErrPromptNotFound)
}

func TestListPromptsFilterAndSearch(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	col, err := CreateCollection("Support", "customer support prompts")
	assert.NoError(t, err)

	_, err = CreatePrompt("Refund flow", "handle refund requests politely", "refunds", &col.ID)
	assert.NoError(t, err)
	_, err = CreatePrompt("Greeting", "say hello to the customer", "openers", &col.ID)
	assert.NoError(t, err)
	_, err = CreatePrompt("Summarizer", "summarize the given document", "", nil)
	assert.NoError(t, err)

	all, total, err := ListPrompts("", "", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	inCol, total, err := ListPrompts(col.ID, "", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, inCol, 2)

	found, total, err := ListPrompts("", "refund", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Refund flow", found[0].Title)

	// Search matches descriptions too
	found, total, err = ListPrompts("", "openers", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Greeting", found[0].Title)

	paged, total, err := ListPrompts("", "", 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, paged, 2)
}
