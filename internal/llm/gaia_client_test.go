package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var testMessages = []Message{
	{Role: "user", Content: "ping"},
	{Role: "assistant", Content: "pong"},
}

// ============================================================================
// Attempt: success paths
// ============================================================================

func TestGaiaClient_Attempt_Success(t *testing.T) {
	t.Parallel()

	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != completionsPath {
			http.Error(w, "unexpected request", http.StatusNotFound)
			return
		}
		if r.Header.Get("Accept") != mimeJSON || r.Header.Get("Content-Type") != mimeJSON {
			http.Error(w, "bad headers", http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", mimeJSON)
		w.Write([]byte(`{"choices":[{"message":{"content":"hi"}}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewGaiaClient(srv.URL+completionsPath, 5*time.Second)
	defer c.Close() //nolint:errcheck

	answer, err := c.Attempt(context.Background(), testMessages)
	if err != nil {
		t.Fatalf("Attempt failed: %v", err)
	}
	if answer != "hi" {
		t.Errorf("expected answer 'hi', got %q", answer)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "user" || got.Messages[1].Content != "pong" {
		t.Errorf("unexpected request body: %+v", got)
	}
}

func TestGaiaClient_Attempt_MalformedSuccessBody_ReturnsSentinel(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"missing choices": `{"id":"x"}`,
		"empty choices":   `{"choices":[]}`,
		"missing message": `{"choices":[{}]}`,
		"missing content": `{"choices":[{"message":{}}]}`,
		"not json":        `<html>ok</html>`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body)) //nolint:errcheck
			}))
			defer srv.Close()

			c := NewGaiaClient(srv.URL, 5*time.Second)
			defer c.Close() //nolint:errcheck

			answer, err := c.Attempt(context.Background(), testMessages)
			if err != nil {
				t.Fatalf("expected success for 200 response, got %v", err)
			}
			if answer != AnswerUnavailable {
				t.Errorf("expected %q, got %q", AnswerUnavailable, answer)
			}
		})
	}
}

// ============================================================================
// Attempt: failure classification
// ============================================================================

func TestGaiaClient_Attempt_Non200_ReturnsStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewGaiaClient(srv.URL, 5*time.Second)
	defer c.Close() //nolint:errcheck

	_, err := c.Attempt(context.Background(), testMessages)
	var attemptErr *AttemptError
	if !errors.As(err, &attemptErr) {
		t.Fatalf("expected *AttemptError, got %v", err)
	}
	if attemptErr.Reason != ReasonStatus || attemptErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("unexpected classification: %+v", attemptErr)
	}
	if attemptErr.Error() != "Status 503" {
		t.Errorf("unexpected message %q", attemptErr.Error())
	}
}

func TestGaiaClient_Attempt_SlowServer_ReturnsTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewGaiaClient(srv.URL, 50*time.Millisecond)
	defer c.Close() //nolint:errcheck

	_, err := c.Attempt(context.Background(), testMessages)
	var attemptErr *AttemptError
	if !errors.As(err, &attemptErr) {
		t.Fatalf("expected *AttemptError, got %v", err)
	}
	if attemptErr.Reason != ReasonTimeout {
		t.Errorf("expected timeout, got %+v", attemptErr)
	}
}

func TestGaiaClient_Attempt_ServerDown_ReturnsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // closed before the attempt

	c := NewGaiaClient(url, 5*time.Second)
	defer c.Close() //nolint:errcheck

	_, err := c.Attempt(context.Background(), testMessages)
	var attemptErr *AttemptError
	if !errors.As(err, &attemptErr) {
		t.Fatalf("expected *AttemptError, got %v", err)
	}
	if attemptErr.Reason != ReasonTransport {
		t.Errorf("expected transport error, got %+v", attemptErr)
	}
	if attemptErr.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}

func TestGaiaClient_Close_Twice(t *testing.T) {
	t.Parallel()

	c := NewGaiaClient("http://localhost:1", time.Second)
	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

// ============================================================================
// EndpointURL
// ============================================================================

func TestEndpointURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, nodeID, domain, want string
		wantErr                    bool
	}{
		{name: "node", nodeID: "0xabc", want: "https://0xabc.gaia.domains/v1/chat/completions"},
		{name: "domain", domain: "llama.example.org", want: "https://llama.example.org/v1/chat/completions"},
		{name: "domain wins", nodeID: "0xabc", domain: "llama.example.org/", want: "https://llama.example.org/v1/chat/completions"},
		{name: "domain with scheme", domain: "http://localhost:8080", want: "http://localhost:8080/v1/chat/completions"},
		{name: "nothing", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := EndpointURL(tc.nodeID, tc.domain)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("EndpointURL: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

// TestGaiaClient_ImplementsAttempter is a compile-time check.
func TestGaiaClient_ImplementsAttempter(t *testing.T) {
	t.Parallel()

	var _ Attempter = &GaiaClient{}
}
