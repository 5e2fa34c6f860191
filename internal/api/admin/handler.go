package admin

import (
	"net/http"
	"time"

	"heritage-gallery/database"
	"heritage-gallery/internal/domain/access"
	"heritage-gallery/internal/domain/content"
	"heritage-gallery/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminStats struct {
	TotalUsers   int            `json:"total_users"`
	UsersPerRole map[string]int `json:"users_per_role"`
	ItemsPerKind map[string]int `json:"items_per_kind"`
	TotalViews   int64          `json:"total_views"`
}

func toAdminUser(u users.User) AdminUser {
	return AdminUser{
		ID:           u.ID,
		Name:         u.Name,
		Lastname:     u.Lastname,
		Email:        u.Email,
		Role:         string(access.ParseRole(u.Role)),
		AuthProvider: u.AuthProvider,
		CreatedAt:    u.CreatedAt,
	}
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminUser, 0, len(all))
	for _, u := range all {
		out = append(out, toAdminUser(u))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/users/:id
func GetUserDetails(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	var user users.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	counts, err := itemsPerKind(c, "user_id = ?", user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  toAdminUser(user),
		"items": counts,
	})
}

// PATCH /admin/users/:id/role
func UpdateUserRole(c *gin.Context) {
	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := access.ParseRole(body.Role)
	if string(role) != body.Role {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be viewer, creator or admin"})
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	var user users.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := db.Model(&user).Update("role", string(role)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	user.Role = string(role)
	c.JSON(http.StatusOK, toAdminUser(user))
}

// GET /admin/stats
func GetAdminStats(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	stats := AdminStats{UsersPerRole: map[string]int{}}

	type roleCount struct {
		Role  string
		Count int
	}
	var roles []roleCount
	if err := db.Model(&users.User{}).Select("role, COUNT(id) as count").Group("role").Scan(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	for _, r := range roles {
		stats.UsersPerRole[string(access.ParseRole(r.Role))] += r.Count
		stats.TotalUsers += r.Count
	}

	kinds, err := itemsPerKind(c, "1 = 1")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	stats.ItemsPerKind = kinds

	if err := db.Model(&content.Item{}).Select("COALESCE(SUM(view_count), 0)").Scan(&stats.TotalViews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func itemsPerKind(c *gin.Context, where string, args ...any) (map[string]int, error) {
	type kindCount struct {
		Kind  string
		Count int
	}
	var rows []kindCount
	err := database.DB.WithContext(c.Request.Context()).
		Model(&content.Item{}).
		Select("kind, COUNT(id) as count").
		Where(where, args...).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := map[string]int{}
	for _, r := range rows {
		out[r.Kind] = r.Count
	}
	return out, nil
}
