package api

import (
	"net/http"

	"promptlab-backend/config"
	_ "promptlab-backend/docs"
	"promptlab-backend/internal/api/v1/collection"
	"promptlab-backend/internal/api/v1/prompt"
	"promptlab-backend/internal/database"
	"promptlab-backend/internal/middleware"
	"promptlab-backend/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", HealthCheck)

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := router.Group("/api/v1")
	{
		prompt.RegisterRoutes(v1)
		collection.RegisterRoutes(v1)
	}

	return router, nil
}

// HealthCheck godoc
// @Summary Health check
// @Description Report service status and version
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", HealthResponse{
		Status:  "healthy",
		Version: Version,
	}))
}
