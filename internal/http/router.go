package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"noc-sync/internal/config"
	"noc-sync/internal/handlers"
	"noc-sync/internal/logging"
	"noc-sync/internal/middleware"
	"noc-sync/internal/repos"
)

func NewRouter(cfg config.Config, store *repos.Store, sync *handlers.SyncHandler, export *handlers.ExportHandler, logger *logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.GET("/healthz", func(c *gin.Context) {
		db := "connected"
		if err := store.Ping(); err != nil {
			db = "disconnected"
		}
		c.JSON(200, gin.H{"status": "ok", "database": db, "mode": cfg.Mode})
	})

	api := r.Group("/api/sync")
	api.Use(middleware.Auth(cfg.AuthToken))
	{
		api.POST("/manual", sync.ManualSync)
		api.GET("/history", sync.History)
		api.GET("/status", sync.Status)

		api.GET("/clients", export.Clients)
		api.GET("/pops/:client", export.POPsByClient)
		api.GET("/analysts", export.Analysts)
		api.GET("/shifts", export.Shifts)
		api.GET("/schedules", export.Schedules)
	}
	return r
}
