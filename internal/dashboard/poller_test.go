package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPoller_Fetch(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/v1/print-jobs"):
			w.Write([]byte(`{"code":0,"message":"success","data":{"items":[
				{"id":1,"username":"alice","pages":5,"total_pages":5},
				{"id":2,"username":"bob","pages":20,"total_pages":20}
			],"total":2,"page":1,"pageSize":500}}`))
		case strings.HasPrefix(r.URL.Path, "/api/v1/reports/overview"):
			w.Write([]byte(`{"code":0,"message":"success","data":{"total_jobs":2,"total_pages":25}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	p := NewPoller(server.URL, "test-token", 500)
	snap, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Expected bearer token header, got %q", gotAuth)
	}

	if len(snap.Jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(snap.Jobs))
	}

	if snap.Overview.TotalPages != 25 {
		t.Errorf("Expected overview total_pages 25, got %d", snap.Overview.TotalPages)
	}
}

func TestPoller_Fetch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":1002,"message":"invalid token","data":null}`))
	}))
	defer server.Close()

	p := NewPoller(server.URL, "bad-token", 500)
	if _, err := p.Fetch(context.Background()); err == nil {
		t.Error("Fetch() should surface an API error envelope")
	}
}
