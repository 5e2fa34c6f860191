package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heritage-gallery/config"
	"heritage-gallery/internal/domain/access"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func authEngine() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, CurrentActor(c))
	})
	r.GET("/admin", AuthMiddleware(), RequireRole(access.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	r := authEngine()

	good := signed(t, "test-secret", jwt.MapClaims{
		"user_id": 7, "email": "ada@example.org", "role": "creator",
		"name": "Ada", "lastname": "Lovelace",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w := get(r, "/me", good)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"7","name":"Ada","lastname":"Lovelace","role":"creator"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", signed(t, "other", jwt.MapClaims{"user_id": 7})).Code)

	expired := signed(t, "test-secret", jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", expired).Code)

	noID := signed(t, "test-secret", jwt.MapClaims{"role": "admin"})
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", noID).Code)
}

func TestRequireRole(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	r := authEngine()

	creator := signed(t, "test-secret", jwt.MapClaims{"user_id": 7, "role": "creator"})
	admin := signed(t, "test-secret", jwt.MapClaims{"user_id": 1, "role": "admin"})

	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", creator).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", admin).Code)
}

func echoBody() *gin.Engine {
	r := gin.New()
	r.Use(MaxBodySize(256), SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Data(http.StatusOK, "text/plain", b)
	})
	return r
}

func post(r http.Handler, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSanitize(t *testing.T) {
	r := echoBody()

	w := post(r, "application/json", `{"title":"<b>Atlas</b>","tags":["<i>maps</i>",3],"year":1570}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Atlas","tags":["maps",3],"year":1570}`, w.Body.String())

	w = post(r, "application/json", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "text/plain", `<b>raw</b>`)
	assert.Equal(t, `<b>raw</b>`, w.Body.String())
}

func TestMaxBodySize(t *testing.T) {
	r := echoBody()
	w := post(r, "text/plain", strings.Repeat("x", 300))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
