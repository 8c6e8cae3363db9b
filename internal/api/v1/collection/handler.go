package collection

import (
	"errors"
	"net/http"

	"promptlab-backend/internal/services"
	"promptlab-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// CreateCollection godoc
// @Summary Create a collection
// @Description Create a new collection for grouping prompts
// @Tags collections
// @Accept json
// @Produce json
// @Param request body CreateCollectionRequest true "Create Collection Request"
// @Success 201 {object} utils.Response{data=models.Collection}
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /collections [post]
func CreateCollection(c *gin.Context) {
	var req CreateCollectionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	collection, err := services.CreateCollection(req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Collection created successfully", collection))
}

// ListCollections godoc
// @Summary List collections
// @Description Get all collections
// @Tags collections
// @Accept json
// @Produce json
// @Success 200 {object} utils.Response{data=CollectionListResponse}
// @Failure 500 {object} utils.Response
// @Router /collections [get]
func ListCollections(c *gin.Context) {
	collections, err := services.ListCollections()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", CollectionListResponse{
		Total: len(collections),
		Items: collections,
	}))
}

// GetCollection godoc
// @Summary Get a collection
// @Description Get a collection by id
// @Tags collections
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} utils.Response{data=models.Collection}
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /collections/{id} [get]
func GetCollection(c *gin.Context) {
	id := c.Param("id")
	collection, err := services.GetCollection(id)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", collection))
}

// DeleteCollection godoc
// @Summary Delete a collection
// @Description Delete a collection together with its prompts and their version history
// @Tags collections
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /collections/{id} [delete]
func DeleteCollection(c *gin.Context) {
	id := c.Param("id")
	if err := services.DeleteCollection(id); err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Collection deleted successfully", nil))
}
