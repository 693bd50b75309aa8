package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rachnit/blog-backend/internal/config"
	"github.com/rachnit/blog-backend/internal/http/handlers"
	"github.com/rachnit/blog-backend/internal/http/middleware"
	"github.com/rachnit/blog-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	postHandler *handlers.PostHandler,
	feedHandler *handlers.FeedHandler,
	likeHandler *handlers.LikeHandler,
	commentHandler *handlers.CommentHandler,
	notificationHandler *handlers.NotificationHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.Me)
		protected.GET("/users", profileHandler.List)
		protected.GET("/users/:id/profile", middleware.UUIDValidator("id"), profileHandler.Profile)
		protected.POST("/users/:id/follow", middleware.UUIDValidator("id"), profileHandler.Follow)
		protected.DELETE("/users/:id/follow", middleware.UUIDValidator("id"), profileHandler.Unfollow)
		protected.GET("/users/:id/posts", middleware.UUIDValidator("id"), postHandler.UserPosts)

		protected.GET("/posts", feedHandler.Global)
		protected.GET("/posts/feed", feedHandler.Personal)
		protected.GET("/posts/my", postHandler.MyPosts)
		protected.POST("/posts", postHandler.Create)
		protected.GET("/posts/:id", middleware.UUIDValidator("id"), postHandler.Get)
		protected.PUT("/posts/:id", middleware.UUIDValidator("id"), postHandler.Update)
		protected.DELETE("/posts/:id", middleware.UUIDValidator("id"), postHandler.Delete)

		protected.POST("/posts/:id/like", middleware.UUIDValidator("id"), likeHandler.Like)
		protected.GET("/posts/:id/like", middleware.UUIDValidator("id"), likeHandler.Info)
		protected.DELETE("/posts/:id/like", middleware.UUIDValidator("id"), likeHandler.Unlike)

		protected.POST("/posts/:id/comments", middleware.UUIDValidator("id"), commentHandler.Create)
		protected.GET("/posts/:id/comments", middleware.UUIDValidator("id"), commentHandler.List)
		protected.DELETE("/comments/:id", middleware.UUIDValidator("id"), commentHandler.Delete)

		protected.GET("/notifications", notificationHandler.ListUnread)
		protected.GET("/notifications/unread/count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)

		protected.POST("/reports", reportHandler.Submit)

		// Admin routes; the services re-check the role on every call.
		admin := protected.Group("/admin")
		{
			admin.GET("/stats", adminHandler.Stats)

			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", middleware.UUIDValidator("id"), adminHandler.GetUser)
			admin.POST("/users/:id/ban", middleware.UUIDValidator("id"), adminHandler.BanUser)
			admin.POST("/users/:id/unban", middleware.UUIDValidator("id"), adminHandler.UnbanUser)
			admin.GET("/users/:id/reports", middleware.UUIDValidator("id"), adminHandler.UserReports)
			admin.DELETE("/users/:id", middleware.UUIDValidator("id"), adminHandler.DeleteUser)

			admin.GET("/posts", adminHandler.ListPosts)
			admin.GET("/posts/:id", middleware.UUIDValidator("id"), adminHandler.GetPost)
			admin.POST("/posts/:id/hide", middleware.UUIDValidator("id"), adminHandler.HidePost)
			admin.POST("/posts/:id/unhide", middleware.UUIDValidator("id"), adminHandler.UnhidePost)
			admin.DELETE("/posts/:id", middleware.UUIDValidator("id"), adminHandler.DeletePost)

			admin.GET("/reports", adminHandler.ListReports)
			admin.GET("/reports/stats", adminHandler.ReportStats)
			admin.GET("/reports/:id", middleware.UUIDValidator("id"), adminHandler.GetReport)
			admin.PUT("/reports/:id/resolve", middleware.UUIDValidator("id"), adminHandler.ResolveReport)
		}
	}

	return r
}
