package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/constants"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/qconnect/clinic-api/internal/service"
	ctxutil "github.com/qconnect/clinic-api/pkg/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthTestRouter(t *testing.T, accessTTL time.Duration) (*gin.Engine, *service.TokenService) {
	t.Helper()

	tokens := service.NewTokenService("middleware-test-secret", accessTTL, time.Hour)

	router := gin.New()
	protected := router.Group("/api/v1")
	protected.Use(Authenticated(tokens, DefaultPolicies()))
	{
		protected.GET("/doctors", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"email": c.GetString(constants.GinKeyUserEmail)})
		})
		protected.POST("/doctors", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{})
		})
		protected.GET("/admin/metrics", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})
		protected.PUT("/users/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})
		protected.GET("/ctx", func(c *gin.Context) {
			userID, ok := ctxutil.GetUserID(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{
				"ctx_user_id": userID,
				"ctx_ok":      ok,
				"header_role": c.Request.Header.Get(constants.HeaderUserRole),
			})
		})
	}

	return router, tokens
}

func issueToken(t *testing.T, tokens *service.TokenService, id uint, role string) string {
	t.Helper()

	token, _, err := tokens.IssueAccessToken(&model.User{
		Model: gorm.Model{ID: id},
		Email: "mw@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticated_MissingToken(t *testing.T) {
	router, _ := newAuthTestRouter(t, 15*time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_TOKEN")
}

func TestAuthenticated_InvalidToken(t *testing.T) {
	router, _ := newAuthTestRouter(t, 15*time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthenticated_ExpiredToken(t *testing.T) {
	router, tokens := newAuthTestRouter(t, -time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, 1, model.RolePatient))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Expired is a distinct code so clients know to refresh, not re-login.
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestAuthenticated_MalformedAuthorizationHeader(t *testing.T) {
	router, _ := newAuthTestRouter(t, 15*time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	router.ServeHTTP(w, req)

	// A presented-but-unusable credential is invalid, not missing.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthenticated_CookieFallback(t *testing.T) {
	router, tokens := newAuthTestRouter(t, 15*time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	req.AddCookie(&http.Cookie{Name: CookieToken, Value: issueToken(t, tokens, 1, model.RolePatient)})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mw@example.com")
}

func TestAuthenticated_HeaderBeatsCookie(t *testing.T) {
	router, tokens := newAuthTestRouter(t, 15*time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, 1, model.RolePatient))
	req.AddCookie(&http.Cookie{Name: CookieToken, Value: "stale-cookie-token"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticated_ForbiddenByPolicy(t *testing.T) {
	router, tokens := newAuthTestRouter(t, 15*time.Minute)
	patient := issueToken(t, tokens, 1, model.RolePatient)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "patient creating doctor", method: http.MethodPost, path: "/api/v1/doctors"},
		{name: "patient reading admin metrics", method: http.MethodGet, path: "/api/v1/admin/metrics"},
		{name: "patient updating another user", method: http.MethodPut, path: "/api/v1/users/99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+patient)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Contains(t, w.Body.String(), "FORBIDDEN")
		})
	}
}

func TestAuthenticated_AllowedByPolicy(t *testing.T) {
	router, tokens := newAuthTestRouter(t, 15*time.Minute)

	tests := []struct {
		name   string
		token  string
		method string
		path   string
		want   int
	}{
		{name: "patient reading doctors", token: issueToken(t, tokens, 1, model.RolePatient), method: http.MethodGet, path: "/api/v1/doctors", want: http.StatusOK},
		{name: "patient updating self", token: issueToken(t, tokens, 5, model.RolePatient), method: http.MethodPut, path: "/api/v1/users/5", want: http.StatusOK},
		{name: "admin creating doctor", token: issueToken(t, tokens, 2, model.RoleAdmin), method: http.MethodPost, path: "/api/v1/doctors", want: http.StatusCreated},
		{name: "admin reading metrics", token: issueToken(t, tokens, 2, model.RoleAdmin), method: http.MethodGet, path: "/api/v1/admin/metrics", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthenticated_InjectsIdentity(t *testing.T) {
	router, tokens := newAuthTestRouter(t, 15*time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ctx", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, 77, model.RolePatient))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ctx_user_id":77`)
	assert.Contains(t, w.Body.String(), `"ctx_ok":true`)
	assert.Contains(t, w.Body.String(), `"header_role":"patient"`)
}
