package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerAccept      = "accept"
	headerContentType = "Content-Type"
)

// GaiaClient implements Attempter for a Gaia node chat-completion endpoint.
type GaiaClient struct {
	url       string
	client    *http.Client
	transport *http.Transport
	closeOnce sync.Once
}

// NewGaiaClient creates a client posting to url with the given per-request timeout.
// The client owns its connection pool; call Close when done.
func NewGaiaClient(url string, timeout time.Duration) *GaiaClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &GaiaClient{
		url:       url,
		transport: transport,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// URL returns the endpoint the client posts to.
func (c *GaiaClient) URL() string { return c.url }

// chatRequest is the request payload for the chat-completion endpoint.
type chatRequest struct {
	Messages []Message `json:"messages"`
}

// chatResponse is the response payload. Pointers distinguish missing fields from empty ones.
type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Attempt sends the messages once and classifies the result.
func (c *GaiaClient) Attempt(ctx context.Context, messages []Message) (string, error) {
	data, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return "", &AttemptError{Reason: ReasonTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return "", &AttemptError{Reason: ReasonTransport, Err: err}
	}
	req.Header.Set(headerAccept, mimeJSON)
	req.Header.Set(headerContentType, mimeJSON)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &AttemptError{Reason: ReasonStatus, StatusCode: resp.StatusCode}
	}
	return extractAnswer(body), nil
}

// Close releases pooled connections. Safe to call more than once.
func (c *GaiaClient) Close() error {
	c.closeOnce.Do(c.transport.CloseIdleConnections)
	return nil
}

// extractAnswer pulls choices[0].message.content out of body, or AnswerUnavailable.
func extractAnswer(body []byte) string {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return AnswerUnavailable
	}
	if len(resp.Choices) == 0 {
		return AnswerUnavailable
	}
	msg := resp.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return AnswerUnavailable
	}
	return *msg.Content
}

func classify(err error) *AttemptError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &AttemptError{Reason: ReasonTimeout, Err: err}
	}
	return &AttemptError{Reason: ReasonTransport, Err: err}
}
