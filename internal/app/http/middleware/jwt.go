package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"heritage-gallery/config"
	"heritage-gallery/internal/domain/access"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtKey := []byte(config.JWT_SECRET)
		if len(jwtKey) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(strings.TrimSpace(tokenString), func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok || userIDFloat <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		userID := uint(userIDFloat)

		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		name, _ := claims["name"].(string)
		lastname, _ := claims["lastname"].(string)

		c.Set("user_id", userID)
		c.Set("email", email)
		c.Set("role", role)
		c.Set(actorKey, access.Actor{
			ID:        strconv.FormatUint(uint64(userID), 10),
			FirstName: name,
			LastName:  lastname,
			Role:      access.ParseRole(role),
		})
		c.Next()
	}
}

// CurrentActor is the authenticated actor, or the anonymous one outside
// AuthMiddleware.
func CurrentActor(c *gin.Context) access.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(access.Actor); ok {
			return a
		}
	}
	return access.Actor{}
}

func RequireRole(roles ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if !actor.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		c.Abort()
	}
}
