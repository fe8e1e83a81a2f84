package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func tokenFor(t *testing.T, role model.UserRole) string {
	t.Helper()
	user := &model.User{Email: "u@example.com", Role: role}
	user.ID = 7
	token, err := util.GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func protectedRouter(roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", AuthMiddleware(testSecret))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return router
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := protectedRouter()

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Token abc").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Bearer not.a.jwt").Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		user := &model.User{Email: "u@example.com", Role: model.Student}
		token, err := util.GenerateJWT(user, "another-secret-another-secret-xx", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Bearer "+token).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(router, "Bearer "+tokenFor(t, model.Student))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":7`)
	})
}

func TestRoleMiddleware(t *testing.T) {
	router := protectedRouter(model.Instructor)

	t.Run("student blocked", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, doRequest(router, "Bearer "+tokenFor(t, model.Student)).Code)
	})

	t.Run("instructor allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doRequest(router, "Bearer "+tokenFor(t, model.Instructor)).Code)
	})

	t.Run("admin passes any role gate", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doRequest(router, "Bearer "+tokenFor(t, model.Admin)).Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", OptionalAuth(testSecret), func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	})

	w := doRequest(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	w = doRequest(router, "Bearer "+tokenFor(t, model.Student))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}
