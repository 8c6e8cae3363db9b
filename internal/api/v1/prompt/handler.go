package prompt

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"promptlab-backend/internal/services"
	"promptlab-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service error kinds onto HTTP statuses. From this
// package's point of view an unknown collection on create/update is a bad
// request, not a missing resource.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPromptNotFound),
		errors.Is(err, services.ErrVersionNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrCollectionNotFound),
		errors.Is(err, services.ErrInvalidContent):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
	}
}

// CreatePrompt godoc
// @Summary Create a new prompt
// @Description Create a prompt; its content is recorded as version 1
// @Tags prompts
// @Accept json
// @Produce json
// @Param request body CreatePromptRequest true "Create Prompt Request"
// @Success 201 {object} utils.Response{data=models.Prompt}
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /prompts [post]
func CreatePrompt(c *gin.Context) {
	var req CreatePromptRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	prompt, err := services.CreatePrompt(req.Title, req.Content, req.Description, req.CollectionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Prompt created successfully", prompt))
}

// ListPrompts godoc
// @Summary List prompts
// @Description Get a paginated list of prompts, newest first, optionally filtered by collection or search term
// @Tags prompts
// @Accept json
// @Produce json
// @Param collection_id query string false "Filter by collection"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} utils.Response{data=PromptListResponse}
// @Failure 500 {object} utils.Response
// @Router /prompts [get]
func ListPrompts(c *gin.Context) {
	collectionID := c.Query("collection_id")
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	prompts, total, err := services.ListPrompts(collectionID, search, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", PromptListResponse{
		Total: total,
		Items: prompts,
	}))
}

// GetPrompt godoc
// @Summary Get a prompt
// @Description Get a prompt by id, including its extracted template variables
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} utils.Response{data=PromptDetail}
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /prompts/{id} [get]
func GetPrompt(c *gin.Context) {
	id := c.Param("id")
	prompt, err := services.GetPrompt(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	detail := PromptDetail{
		Prompt:    *prompt,
		Variables: utils.ExtractVariables(prompt.Content),
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", detail))
}

// UpdatePrompt godoc
// @Summary Update a prompt
// @Description Replace a prompt's fields; the submitted content becomes the next version
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param request body UpdatePromptRequest true "Update Prompt Request"
// @Success 200 {object} utils.Response{data=models.Prompt}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /prompts/{id} [put]
func UpdatePrompt(c *gin.Context) {
	id := c.Param("id")
	var req UpdatePromptRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	prompt, err := services.UpdatePrompt(id, req.Title, req.Content, req.Description, req.CollectionID, req.ChangeNote)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Prompt updated successfully", prompt))
}

// PatchPrompt godoc
// @Summary Partially update a prompt
// @Description Update only the provided fields; omitted fields keep their current values. New content becomes the next version.
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param request body PatchPromptRequest true "Patch Prompt Request"
// @Success 200 {object} utils.Response{data=models.Prompt}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /prompts/{id} [patch]
func PatchPrompt(c *gin.Context) {
	id := c.Param("id")
	var req PatchPromptRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	prompt, err := services.PatchPrompt(id, req.Title, req.Content, req.Description, req.CollectionID, req.ChangeNote)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Prompt updated successfully", prompt))
}

// DeletePrompt godoc
// @Summary Delete a prompt
// @Description Delete a prompt and its whole version history
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /prompts/{id} [delete]
func DeletePrompt(c *gin.Context) {
	id := c.Param("id")
	if err := services.DeletePrompt(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Prompt deleted successfully", nil))
}

// ListVersions godoc
// @Summary List prompt versions
// @Description Get a prompt's version history, oldest first. Content is omitted from the list view.
// @Tags versions
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} utils.Response{data=VersionListResponse}
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /prompts/{id}/versions [get]
func ListVersions(c *gin.Context) {
	id := c.Param("id")
	versions, err := services.GetHistory(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]VersionSummary, 0, len(versions))
	for _, v := range versions {
		items = append(items, VersionSummary{
			VersionNumber: v.VersionNumber,
			CreatedAt:     v.CreatedAt,
			Description:   v.Description,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", VersionListResponse{
		Total: len(items),
		Items: items,
	}))
}

// GetVersion godoc
// @Summary Get a prompt version
// @Description Get a single version of a prompt, including its content snapshot
// @Tags versions
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param number path int true "Version number"
// @Success 200 {object} utils.Response{data=models.PromptVersion}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /prompts/{id}/versions/{number} [get]
func GetVersion(c *gin.Context) {
	id := c.Param("id")
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "version number must be a positive integer"))
		return
	}

	// Check the prompt first so an unknown prompt reads as 404 on the prompt,
	// not on the version.
	if _, err := services.GetPrompt(id); err != nil {
		respondServiceError(c, err)
		return
	}

	version, err := services.GetVersion(id, number)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", version))
}

// RevertPrompt godoc
// @Summary Revert a prompt to an earlier version
// @Description Append a new version whose content copies the target version; history is never rewritten
// @Tags versions
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param request body RevertPromptRequest true "Revert Request"
// @Success 200 {object} utils.Response{data=RevertPromptResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /prompts/{id}/revert [post]
func RevertPrompt(c *gin.Context) {
	id := c.Param("id")
	var req RevertPromptRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	version, err := services.RevertPrompt(id, req.VersionNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Prompt reverted successfully", RevertPromptResponse{
		Message:          fmt.Sprintf("Reverted to version %d", req.VersionNumber),
		NewVersionNumber: version.VersionNumber,
	}))
}
