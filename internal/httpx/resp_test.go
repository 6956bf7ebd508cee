package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestOK(t *testing.T) {
	r := setupTestRouter()
	r.GET("/test", func(c *gin.Context) {
		OK(c, gin.H{"job_id": 7})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if resp.Code != CodeSuccess {
		t.Errorf("Expected code %d, got %d", CodeSuccess, resp.Code)
	}

	if resp.Message != "success" {
		t.Errorf("Expected message 'success', got '%s'", resp.Message)
	}

	if resp.Data == nil {
		t.Error("Expected data to be non-nil")
	}
}

func TestFail(t *testing.T) {
	r := setupTestRouter()
	r.GET("/test", func(c *gin.Context) {
		Fail(c, http.StatusBadRequest, CodeParamMissing, "pages is required")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Code != CodeParamMissing {
		t.Errorf("Expected code %d, got %d", CodeParamMissing, resp.Code)
	}

	if resp.Data != nil {
		t.Error("Expected data to be nil for error response")
	}
}

func TestFailErr_Duplicate(t *testing.T) {
	r := setupTestRouter()
	r.POST("/test", func(c *gin.Context) {
		FailErr(c, ErrDuplicate("").WithData(gin.H{"job_id": 42}))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status %d, got %d", http.StatusConflict, w.Code)
	}

	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Code != CodeDuplicate {
		t.Errorf("Expected code %d, got %d", CodeDuplicate, resp.Code)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data object, got %T", resp.Data)
	}
	if data["job_id"].(float64) != 42 {
		t.Errorf("Expected job_id 42, got %v", data["job_id"])
	}
}
