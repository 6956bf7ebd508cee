package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmit_NullPayloadRejectedNotPanic(t *testing.T) {
	// A literal JSON null decodes into a nil map; the submission must be
	// parked as rejected, never crash the drain. No server is consulted.
	c := New("http://127.0.0.1:0", "pt_testkey")

	res := c.Submit(context.Background(), "sub-1", []byte("null"))
	if res.Outcome != SubmitRejected {
		t.Fatalf("Expected SubmitRejected for null payload, got %v", res.Outcome)
	}
}

func TestSubmit_MalformedPayloadRejected(t *testing.T) {
	c := New("http://127.0.0.1:0", "pt_testkey")

	res := c.Submit(context.Background(), "sub-1", []byte("{not json"))
	if res.Outcome != SubmitRejected {
		t.Fatalf("Expected SubmitRejected for malformed payload, got %v", res.Outcome)
	}
}

func TestSubmit_ConflictMapsToDuplicateWithJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":3002,"message":"duplicate submission","data":{"job_id":77}}`))
	}))
	defer server.Close()

	c := New(server.URL, "pt_testkey")
	res := c.Submit(context.Background(), "sub-1", []byte(`{"document_name":"a.pdf"}`))
	if res.Outcome != SubmitDuplicate {
		t.Fatalf("Expected SubmitDuplicate for 409, got %v", res.Outcome)
	}
	if res.JobID != 77 {
		t.Errorf("Expected original job id 77, got %d", res.JobID)
	}
}

func TestSubmit_ServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":5001,"message":"internal error","data":null}`))
	}))
	defer server.Close()

	c := New(server.URL, "pt_testkey")
	res := c.Submit(context.Background(), "sub-1", []byte(`{"document_name":"a.pdf"}`))
	if res.Outcome != SubmitTransient {
		t.Fatalf("Expected SubmitTransient for 500, got %v", res.Outcome)
	}
}
