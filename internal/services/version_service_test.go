package services

import (
	"fmt"
	"sync"
	"testing"

	"promptlab-backend/internal/database"
	"promptlab-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	// A single connection so every goroutine sees the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Prompt{}, &models.PromptVersion{}, &models.Collection{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	database.DB = db
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	database.RedisClient = redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return mr
}

func TestRecordEditSequentialNumbering(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Sequencing", "initial prompt content", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, prompt.CurrentVersion)

	for i := 2; i <= 6; i++ {
		v, err := RecordEdit(prompt.ID, fmt.Sprintf("edited prompt content %d", i), "")
		assert.NoError(t, err)
		assert.Equal(t, i, v.VersionNumber)
	}

	versions, err := GetHistory(prompt.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 6)
	for i, v := range versions {
		assert.Equal(t, i+1, v.VersionNumber)
	}
}

func TestRecordEditInvalidContent(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Validation", "initial prompt content", "", nil)
	assert.NoError(t, err)

	_, err = RecordEdit(prompt.ID, "", "")
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = RecordEdit(prompt.ID, "   \t\n  ", "")
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = RecordEdit(prompt.ID, "short", "")
	assert.ErrorIs(t, err, ErrInvalidContent)

	// Rejected edits must not consume version numbers
	max, err := CurrentMaxVersion(prompt.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, max)
}

func TestRecordEditUnknownPrompt(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	_, err := RecordEdit("no-such-prompt", "content long enough", "")
	assert.ErrorIs(t, err, ErrPromptNotFound)

	_, err = AppendVersion("no-such-prompt", "content long enough", "")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestGetHistoryUnknownPrompt(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	_, err := GetHistory("no-such-prompt")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestGetHistoryEmptyIsNotAnError(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	// A prompt row without versions should not occur post-creation, but the
	// contract is an empty list, not a failure.
	bare := models.Prompt{Title: "Bare", Content: "content without a ledger", CurrentVersion: 1}
	assert.NoError(t, database.DB.Create(&bare).Error)

	versions, err := GetHistory(bare.ID)
	assert.NoError(t, err)
	assert.Empty(t, versions)

	max, err := CurrentMaxVersion(bare.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, max)
}

func TestRevertCreatesForwardVersion(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Revert", "version one content", "", nil)
	assert.NoError(t, err)

	_, err = RecordEdit(prompt.ID, "version two content", "")
	assert.NoError(t, err)
	_, err = RecordEdit(prompt.ID, "version three content", "")
	assert.NoError(t, err)

	reverted, err := RevertPrompt(prompt.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 4, reverted.VersionNumber)
	assert.Equal(t, "version one content", reverted.Content)
	assert.Equal(t, "Reverted to version 1", reverted.Description)

	// History is untouched
	versions, err := GetHistory(prompt.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 4)
	assert.Equal(t, "version one content", versions[0].Content)
	assert.Equal(t, "version two content", versions[1].Content)
	assert.Equal(t, "version three content", versions[2].Content)

	var reloaded models.Prompt
	assert.NoError(t, database.DB.First(&reloaded, "id = ?", prompt.ID).Error)
	assert.Equal(t, 4, reloaded.CurrentVersion)
	assert.Equal(t, "version one content", reloaded.Content)
}

func TestRevertUnknownVersion(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Revert", "version one content", "", nil)
	assert.NoError(t, err)

	_, err = RevertPrompt(prompt.ID, 42)
	assert.ErrorIs(t, err, ErrVersionNotFound)

	_, err = RevertPrompt("no-such-prompt", 1)
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestRevertToCurrentVersionStillAppends(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Revert", "version one content", "", nil)
	assert.NoError(t, err)

	v, err := RevertPrompt(prompt.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, v.VersionNumber)
	assert.Equal(t, "version one content", v.Content)
}

func TestDoubleRevertIdempotentInContent(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Revert", "version one content", "", nil)
	assert.NoError(t, err)
	_, err = RecordEdit(prompt.ID, "version two content", "")
	assert.NoError(t, err)

	first, err := RevertPrompt(prompt.ID, 1)
	assert.NoError(t, err)
	second, err := RevertPrompt(prompt.ID, 1)
	assert.NoError(t, err)

	// Two new versions, same content as the target
	assert.Equal(t, 3, first.VersionNumber)
	assert.Equal(t, 4, second.VersionNumber)
	assert.Equal(t, "version one content", first.Content)
	assert.Equal(t, "version one content", second.Content)
}

func TestEditRevertExample(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Example", "content A padded out", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, prompt.CurrentVersion)

	v2, err := RecordEdit(prompt.ID, "content B padded out", "")
	assert.NoError(t, err)
	assert.Equal(t, 2, v2.VersionNumber)

	v3, err := RevertPrompt(prompt.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, v3.VersionNumber)
	assert.Equal(t, "content A padded out", v3.Content)

	var reloaded models.Prompt
	assert.NoError(t, database.DB.First(&reloaded, "id = ?", prompt.ID).Error)
	assert.Equal(t, 3, reloaded.CurrentVersion)
	assert.Equal(t, "content A padded out", reloaded.Content)
}

func TestConcurrentEditsNoLostUpdates(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Concurrent", "initial prompt content", "", nil)
	assert.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := RecordEdit(prompt.ID, fmt.Sprintf("concurrent content %02d", i), "")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	versions, err := GetHistory(prompt.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, writers+1)

	// Distinct and consecutive: 1..51 with no gaps or duplicates
	for i, v := range versions {
		assert.Equal(t, i+1, v.VersionNumber)
	}

	var reloaded models.Prompt
	assert.NoError(t, database.DB.First(&reloaded, "id = ?", prompt.ID).Error)
	assert.Equal(t, writers+1, reloaded.CurrentVersion)
	assert.Equal(t, versions[writers].Content, reloaded.Content)
}

func TestGetVersionReturnsSnapshot(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	defer mr.Close()

	prompt, err := CreatePrompt("Snapshots", "version one content", "", nil)
	assert.NoError(t, err)
	_, err = RecordEdit(prompt.ID, "version two content", "tweak wording")
	assert.NoError(t, err)

	v1, err := GetVersion(prompt.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "version one content", v1.Content)
	assert.Equal(t, "Initial version", v1.Description)

	v2, err := GetVersion(prompt.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, "version two content", v2.Content)
	assert.Equal(t, "tweak wording", v2.Description)

	_, err = GetVersion(prompt.ID, 3)
	assert.ErrorIs(t, err, ErrVersionNotFound)
}
