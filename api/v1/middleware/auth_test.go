package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"printtrack/internal/auth"
	"printtrack/internal/httpx"
	"printtrack/internal/model"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		httpx.OK(c, gin.H{"uid": c.GetInt("uid"), "role": c.GetString("role")})
	})
	r.GET("/admin", AuthRequired(), AdminOnly(), func(c *gin.Context) {
		httpx.OK(c, nil)
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) (*httptest.ResponseRecorder, httpx.Response) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp httpx.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	auth.InitJWT("test-secret")
	r := newTestRouter()

	w, resp := doRequest(r, "/protected", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if resp.Code != httpx.CodeUnauthorized {
		t.Errorf("expected code %d, got %d", httpx.CodeUnauthorized, resp.Code)
	}
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	auth.InitJWT("test-secret")
	r := newTestRouter()

	w, resp := doRequest(r, "/protected", "not-a-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if resp.Code != httpx.CodeInvalidToken {
		t.Errorf("expected code %d, got %d", httpx.CodeInvalidToken, resp.Code)
	}
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	auth.InitJWT("test-secret")
	r := newTestRouter()

	token, err := auth.GenerateToken(1, "alice", model.RoleUser, time.Now().Add(-time.Minute), "test")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, resp := doRequest(r, "/protected", token)
	if resp.Code != httpx.CodeTokenExpired {
		t.Errorf("expected code %d, got %d", httpx.CodeTokenExpired, resp.Code)
	}
}

func TestAuthRequired_ValidToken(t *testing.T) {
	auth.InitJWT("test-secret")
	r := newTestRouter()

	token, err := auth.GenerateToken(42, "alice", model.RoleUser, time.Now().Add(time.Hour), "test")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w, resp := doRequest(r, "/protected", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp.Code != httpx.CodeSuccess {
		t.Errorf("expected success code, got %d", resp.Code)
	}
}

func TestAdminOnly_RejectsNonAdmin(t *testing.T) {
	auth.InitJWT("test-secret")
	r := newTestRouter()

	token, _ := auth.GenerateToken(2, "bob", model.RoleViewer, time.Now().Add(time.Hour), "test")
	w, resp := doRequest(r, "/admin", token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if resp.Code != httpx.CodeForbidden {
		t.Errorf("expected code %d, got %d", httpx.CodeForbidden, resp.Code)
	}
}

func TestAdminOnly_AllowsAdmin(t *testing.T) {
	auth.InitJWT("test-secret")
	r := newTestRouter()

	token, _ := auth.GenerateToken(1, "root", model.RoleAdmin, time.Now().Add(time.Hour), "test")
	w, _ := doRequest(r, "/admin", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
