package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// flakyTransport fails the first failUntil round trips with a network
// error, then delegates to the default transport.
type flakyTransport struct {
	calls     atomic.Int32
	failUntil int32
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.calls.Add(1) <= f.failUntil {
		return nil, fmt.Errorf("simulated network error")
	}
	return http.DefaultTransport.RoundTrip(req)
}

func newTestExecutor(t *testing.T, serverURL string, failUntil int32, cfg RetryConfig) (*Executor, *flakyTransport) {
	t.Helper()

	tr, err := NewTransport(Config{BaseURL: serverURL})
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	flaky := &flakyTransport{failUntil: failUntil}
	tr.SetHTTPClient(&http.Client{Transport: flaky})

	return NewExecutor(tr, cfg), flaky
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", config.MaxAttempts)
	}
	if config.Delay != 1*time.Second {
		t.Errorf("Delay = %v, want 1s", config.Delay)
	}
}

func TestExecuteSuccessFirstAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":1}`))
	}))
	defer server.Close()

	exec, flaky := newTestExecutor(t, server.URL, 0, RetryConfig{MaxAttempts: 5, Delay: 10 * time.Millisecond})

	resp, err := exec.Execute(context.Background(), "/appreviews/1", nil, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if got := flaky.calls.Load(); got != 1 {
		t.Errorf("Expected 1 attempt, got %d", got)
	}
}

func TestExecuteSuccessAfterFourFailures(t *testing.T) {
	// A transport that fails 4 times then succeeds, under a 5-attempt
	// budget, must return the successful response with no error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":1}`))
	}))
	defer server.Close()

	exec, flaky := newTestExecutor(t, server.URL, 4, RetryConfig{MaxAttempts: 5, Delay: 5 * time.Millisecond})

	resp, err := exec.Execute(context.Background(), "/appreviews/1", nil, nil)
	if err != nil {
		t.Fatalf("Expected success on fifth attempt, got %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if got := flaky.calls.Load(); got != 5 {
		t.Errorf("Expected 5 attempts, got %d", got)
	}
}

func TestExecuteRetriesExhausted(t *testing.T) {
	// A transport that always fails must surface a ConnectionError after
	// exactly MaxAttempts attempts.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	exec, flaky := newTestExecutor(t, server.URL, 1<<30, RetryConfig{MaxAttempts: 5, Delay: 5 * time.Millisecond})

	query := url.Values{"cursor": []string{"*"}}
	_, err := exec.Execute(context.Background(), "/appreviews/1", nil, query)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Expected ConnectionError, got %T: %v", err, err)
	}
	if connErr.Endpoint != "/appreviews/1" {
		t.Errorf("Endpoint = %q, want %q", connErr.Endpoint, "/appreviews/1")
	}
	if connErr.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", connErr.Attempts)
	}
	if connErr.Query.Get("cursor") != "*" {
		t.Errorf("Query not captured in error: %v", connErr.Query)
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected wrapped ErrTransport, got %v", err)
	}
	if got := flaky.calls.Load(); got != 5 {
		t.Errorf("Expected exactly 5 attempts, got %d", got)
	}
}

func TestExecuteFixedDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	delay := 50 * time.Millisecond
	exec, _ := newTestExecutor(t, server.URL, 1<<30, RetryConfig{MaxAttempts: 3, Delay: delay})

	start := time.Now()
	_, _ = exec.Execute(context.Background(), "/appreviews/1", nil, nil)
	elapsed := time.Since(start)

	// 3 attempts means 2 inter-attempt delays.
	if elapsed < 2*delay {
		t.Errorf("Elapsed %v, want at least %v", elapsed, 2*delay)
	}
	if elapsed > 10*delay {
		t.Errorf("Elapsed %v, fixed delay should not grow", elapsed)
	}
}

func TestExecuteHTTPErrorNotRetried(t *testing.T) {
	// Application-level HTTP errors are returned as-is, never retried.
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t, server.URL, 0, RetryConfig{MaxAttempts: 5, Delay: 5 * time.Millisecond})

	resp, err := exec.Execute(context.Background(), "/appreviews/1", nil, nil)
	if err != nil {
		t.Fatalf("Expected response for HTTP 403, got error %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", resp.StatusCode)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("Expected 1 request (no retry on HTTP status), got %d", got)
	}
}

func TestExecuteContextCancelledDuringDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	exec, flaky := newTestExecutor(t, server.URL, 1<<30, RetryConfig{MaxAttempts: 5, Delay: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := exec.Execute(ctx, "/appreviews/1", nil, nil)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
	if elapsed > 1*time.Second {
		t.Errorf("Cancellation took %v, should interrupt the delay", elapsed)
	}
	if got := flaky.calls.Load(); got != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got %d", got)
	}
}

func TestConnectionErrorMessage(t *testing.T) {
	err := &ConnectionError{
		Endpoint: "/appreviews/413150",
		Query:    url.Values{"cursor": []string{"abc"}},
		Attempts: 5,
		Err:      errors.New("dial tcp: connection refused"),
	}

	msg := err.Error()
	for _, want := range []string{"/appreviews/413150", "5 attempts", "cursor", "connection refused"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error message %q missing %q", msg, want)
		}
	}
}
