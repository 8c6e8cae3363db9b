package prompt

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	prompts := router.Group("/prompts")
	{
		prompts.POST("", CreatePrompt)
		prompts.GET("", ListPrompts)
		prompts.GET("/:id", GetPrompt)
		prompts.PUT("/:id", UpdatePrompt)
		prompts.PATCH("/:id", PatchPrompt)
		prompts.DELETE("/:id", DeletePrompt)

		prompts.GET("/:id/versions", ListVersions)
		prompts.GET("/:id/versions/:number", GetVersion)
		prompts.POST("/:id/revert", RevertPrompt)
	}
}
