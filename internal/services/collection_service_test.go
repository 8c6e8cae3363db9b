package services

import (
	"testing"

	"promptlab-backend/internal/database"
	"promptlab-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCollectionLifecycle(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	col, err := CreateCollection("Agents", "agent system prompts")
	assert.NoError(t, err)
	assert.NotEmpty(t, col.ID)

	fetched, err := GetCollection(col.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Agents", fetched.Name)

	list, err := ListCollections()
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = GetCollection("no-such-collection")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestDeleteCollectionCascades(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	col, err := CreateCollection("Doomed", "")
	assert.NoError(t, err)

	p1, err := CreatePrompt("Member one", "content of the first member", "", &col.ID)
	assert.NoError(t, err)
	p2, err := CreatePrompt("Member two", "content of the second member", "", &col.ID)
	assert.NoError(t, err)
	outsider, err := CreatePrompt("Outsider", "content outside the collection", "", nil)
	assert.NoError(t, err)

	assert.NoError(t, DeleteCollection(col.ID))

	var prompts int64
	database.DB.Model(&models.Prompt{}).Count(&prompts)
	assert.Equal(t, int64(1), prompts)

	var versions int64
	database.DB.Model(&models.PromptVersion{}).
		Where("prompt_id IN ?", []string{p1.ID, p2.ID}).
		Count(&versions)
	assert.Equal(t, int64(0), versions)

	// The unrelated prompt keeps its history
	remaining, err := ListVersions(outsider.ID)
	assert.NoError(t, err)
	assert.Len(t, remaining, 1)

	assert.ErrorIs(t, DeleteCollection(col.ID), ErrCollectionNotFound)
}
