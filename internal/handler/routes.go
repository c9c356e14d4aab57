package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ideaboard-api/internal/middleware"
	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/service"
)

// Routes groups the API handlers mounted under the API prefix.
type Routes struct {
	Auth      *AuthHandler
	Ideas     *IdeaHandler
	Saved     *SavedIdeaHandler
	Messages  *MessageHandler
	Dashboard *DashboardHandler
}

// Register mounts every endpoint on api. Session tokens are verified by auth.
func (r Routes) Register(api *gin.RouterGroup, auth *service.AuthService) {
	required := middleware.JWT(auth)
	optional := middleware.OptionalJWT(auth)
	authors := middleware.RequireRoles(models.RoleAdmin, models.RoleStudent)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", r.Auth.Login)
	authGroup.GET("/me", required, r.Auth.Me)

	ideas := api.Group("/ideas")
	ideas.GET("", optional, r.Ideas.List)
	ideas.GET("/mine", required, r.Ideas.Mine)
	ideas.GET("/categories", r.Ideas.Categories)
	ideas.GET("/export", optional, r.Ideas.Export)
	ideas.GET("/:id", optional, r.Ideas.Get)
	ideas.POST("", required, authors, r.Ideas.Create)
	ideas.PUT("/:id", required, authors, r.Ideas.Update)
	ideas.DELETE("/:id", required, authors, r.Ideas.Delete)
	ideas.POST("/:id/publish", required, authors, r.Ideas.Publish)
	ideas.POST("/:id/reject", required, middleware.RequireRoles(models.RoleAdmin), r.Ideas.Reject)

	saved := api.Group("/saved-ideas", required, middleware.RequireRoles(models.RoleInvestor))
	saved.GET("", r.Saved.List)
	saved.POST("/:id", r.Saved.Save)
	saved.DELETE("/:id", r.Saved.Remove)

	messages := api.Group("/messages", required)
	messages.GET("/threads", r.Messages.Threads)
	messages.GET("/unread-count", r.Messages.UnreadCount)
	messages.POST("", r.Messages.Send)
	messages.POST("/threads/:counterpart/read", r.Messages.MarkRead)

	api.GET("/dashboard", optional, middleware.WithResponseMeta(), r.Dashboard.Summary)
}
