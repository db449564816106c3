package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestNewTransportValidation(t *testing.T) {
	if _, err := NewTransport(Config{}); err == nil {
		t.Error("Expected error for missing base URL")
	}

	tr, err := NewTransport(Config{BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tr == nil {
		t.Fatal("Expected transport, got nil")
	}
}

func TestGetQueryParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":1}`))
	}))
	defer server.Close()

	tr, err := NewTransport(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	query := url.Values{"json": []string{"1"}, "cursor": []string{"*"}}
	resp, err := tr.Get(context.Background(), "/appreviews/413150", nil, query)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if gotQuery.Get("json") != "1" {
		t.Errorf("json param = %q, want %q", gotQuery.Get("json"), "1")
	}
	if gotQuery.Get("cursor") != "*" {
		t.Errorf("cursor param = %q, want %q", gotQuery.Get("cursor"), "*")
	}
}

func TestGetJSONBody(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr, err := NewTransport(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	payload := map[string]string{"filter": "recent"}
	if _, err := tr.Get(context.Background(), "/search", payload, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}

	var decoded map[string]string
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("Body is not JSON: %v", err)
	}
	if decoded["filter"] != "recent" {
		t.Errorf("filter = %q, want %q", decoded["filter"], "recent")
	}
}

func TestGetHTTPErrorStatusIsNotTransportError(t *testing.T) {
	// Application-level HTTP errors pass through as responses.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	tr, err := NewTransport(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	resp, err := tr.Get(context.Background(), "/appreviews/1", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error for HTTP 500, got %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if string(resp.Body) != `{"error":"boom"}` {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestGetNetworkErrorIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close() // Connection refused from here on.

	tr, err := NewTransport(Config{BaseURL: addr, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	_, err = tr.Get(context.Background(), "/appreviews/1", nil, nil)
	if err == nil {
		t.Fatal("Expected transport error, got nil")
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", err)
	}
}

func TestGetUserAgentHeader(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr, err := NewTransport(Config{BaseURL: server.URL, UserAgent: "review-harvest-test/0.1"})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	if _, err := tr.Get(context.Background(), "/", nil, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotUA != "review-harvest-test/0.1" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "review-harvest-test/0.1")
	}
}
