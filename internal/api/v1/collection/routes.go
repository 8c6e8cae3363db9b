package collection

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	collections := router.Group("/collections")
	{
		collections.POST("", CreateCollection)
		collections.GET("", ListCollections)
		collections.GET("/:id", GetCollection)
		collections.DELETE("/:id", DeleteCollection)
	}
}
