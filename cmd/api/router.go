package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/invite"
	"github.com/joshu-sajeev/cookbook/internal/queue"
	"github.com/joshu-sajeev/cookbook/internal/recipe"
	"github.com/joshu-sajeev/cookbook/middleware"
)

func newRouter(
	logger *slog.Logger,
	cfg *config.App,
	admins config.AdminSet,
	queueH *queue.QueueHandler,
	inviteH *invite.InviteHandler,
	recipeH *recipe.RecipeHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger), middleware.ErrorHandler())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// A batch makes several extraction calls, so the trigger runs without
	// the per-request timeout.
	r.GET("/api/cron/process-image-queue", middleware.CronAuth(cfg.CronSecret), queueH.Trigger)

	api := r.Group("/api", middleware.TimeoutMiddleware(cfg.RequestTimeout))
	users := api.Group("", middleware.RequireUser())
	admin := api.Group("/admin", middleware.RequireAdmin(admins))

	api.POST("/recipes", recipeH.Create)
	api.POST("/recipes/images", recipeH.UploadImage)
	api.GET("/recipes/:id", recipeH.Get)

	inviteH.RegisterRoutes(api, users, admin)

	admin.GET("/queue", queueH.List)
	admin.GET("/queue/stats", queueH.Stats)

	return r
}
