package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tutor-service/internal/config"
	"tutor-service/internal/utils"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	r := gin.New()
	protected := r.Group("/protected")
	protected.Use(RequireAuth())
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})

	admin := r.Group("/admin")
	admin.Use(RequireAuth(), RequireAdmin())
	admin.GET("/check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(r, "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	r := setupRouter(t)

	token, err := utils.GenerateJWT("user-1", "student")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	w := doRequest(r, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"user_id":"user-1"}` {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestRequireAdmin(t *testing.T) {
	r := setupRouter(t)

	studentToken, _ := utils.GenerateJWT("user-1", "student")
	adminToken, _ := utils.GenerateJWT("user-2", AdminRole)

	req := httptest.NewRequest(http.MethodGet, "/admin/check", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for student, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/check", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin, got %d", w.Code)
	}
}
