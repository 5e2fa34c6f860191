package routes

import (
	"context"
	"net/http"
	"time"

	"heritage-gallery/config"
	adminapi "heritage-gallery/internal/api/admin"
	authapi "heritage-gallery/internal/api/auth"
	"heritage-gallery/internal/api/records"
	"heritage-gallery/internal/api/users"
	"heritage-gallery/internal/app/http/middleware"
	"heritage-gallery/internal/domain/access"
	"heritage-gallery/internal/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const uploaderNameTTL = 5 * time.Minute

func RegisterRoutes(r *gin.Engine, db *gorm.DB, log logging.Logger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/media", config.MEDIA_DIR)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)

	if config.GoogleEnabled() {
		public.GET("/auth/google", authapi.GoogleStart)
		public.GET("/auth/google/callback", authapi.GoogleCallback)
	} else {
		log.Info(context.Background(), "google login disabled")
	}

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser(resourcePaths()))
	auth.POST("/change-password", middleware.SanitizeAndCleanInputMiddleware(), authapi.ChangePassword)

	// Gallery collections
	store := records.NewGormStore(db)
	names := records.NewNameCache(store, uploaderNameTTL, log)
	opts := records.Options{
		PageSize: config.PAGE_SIZE,
		BaseURL:  config.PUBLIC_BASE_URL,
		MediaDir: config.MEDIA_DIR,
	}
	writes := []gin.HandlerFunc{
		middleware.AuthMiddleware(),
		middleware.MaxBodySize(config.MaxUploadBytes()),
		middleware.SanitizeAndCleanInputMiddleware(),
	}
	for _, res := range records.All {
		records.NewHandler(res, store, names, opts, log).Register(r, writes...)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(access.RoleAdmin))
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/users/:id", adminapi.GetUserDetails)
	admin.PATCH("/users/:id/role", middleware.SanitizeAndCleanInputMiddleware(), adminapi.UpdateUserRole)
	admin.GET("/stats", adminapi.GetAdminStats)
}

func resourcePaths() []string {
	out := make([]string, 0, len(records.All))
	for _, res := range records.All {
		out = append(out, res.Path)
	}
	return out
}
