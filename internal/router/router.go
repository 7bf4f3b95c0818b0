// Package router wires handlers, middleware and services into the gin engine.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/weiwangfds/collegenotes/config"
	_ "github.com/weiwangfds/collegenotes/docs" // swagger docs
	"github.com/weiwangfds/collegenotes/internal/handler"
	"github.com/weiwangfds/collegenotes/internal/middleware"
	noteservice "github.com/weiwangfds/collegenotes/internal/service/note"
	"github.com/weiwangfds/collegenotes/internal/service/oss"
	uploadservice "github.com/weiwangfds/collegenotes/internal/service/upload"
	"gorm.io/gorm"
)

// Version reported by /api/status
const Version = "1.0.0"

// Router owns the gin engine
type Router struct {
	engine *gin.Engine
}

// NewRouter builds the engine around an open database and object store
func NewRouter(db *gorm.DB, provider oss.Provider, cfg *config.Config) *Router {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	engine := gin.New()
	if cfg.Server.MaxMultipartMemory > 0 {
		engine.MaxMultipartMemory = cfg.Server.MaxMultipartMemory
	}

	noteService := noteservice.NewNoteService(db)
	uploadService := uploadservice.NewUploadService(noteService, provider, cfg.Upload)

	noteHandler := handler.NewNoteHandler(noteService, uploadService)
	storageHandler := handler.NewStorageHandler(provider, cfg.Storage)
	systemHandler := handler.NewSystemHandler(db, provider, Version)

	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "X-Total-Count", middleware.RequestIDHeader},
		MaxAge:        86400,
	}))
	engine.Use(middleware.ErrorHandler())
	engine.NoRoute(middleware.NoRoute())

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.GET("/", systemHandler.Welcome)
	engine.GET("/health", systemHandler.Health)

	// paths used by the first mobile client
	engine.POST("/upload", noteHandler.LegacyUpload)
	engine.GET("/cloudinary-files", storageHandler.ListFiles)

	api := engine.Group("/api")
	{
		api.GET("/status", systemHandler.Status)

		notes := api.Group("/notes")
		{
			notes.GET("", noteHandler.ListNotes)
			notes.POST("", noteHandler.CreateNote)
			notes.GET("/:id", noteHandler.GetNote)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		api.GET("/storage/files", storageHandler.ListFiles)
		api.GET("/resources", storageHandler.Resources)
	}

	return &Router{engine: engine}
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
