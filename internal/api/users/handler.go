package users

import (
	"net/http"

	"heritage-gallery/database"
	"heritage-gallery/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GetCurrentUser answers GET /me from the stored user, so role changes show
// up before the token is refreshed.
func GetCurrentUser(resources []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user users.User
		if err := database.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, BuildMeResponse(user, resources))
	}
}
