// Package llm talks to a single OpenAI-compatible chat-completion endpoint.
package llm

import (
	"context"
	"fmt"
)

// AnswerUnavailable is reported when a 200 response carries no readable answer.
const AnswerUnavailable = "not available"

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant", ...
	Content string `json:"content"` // text content
}

// Attempter performs one request for the given messages.
type Attempter interface {
	// Attempt returns the extracted answer, or an *AttemptError describing why the
	// request should be retried.
	Attempt(ctx context.Context, messages []Message) (string, error)
}

// Reason classifies a failed attempt.
type Reason string

const (
	ReasonStatus    Reason = "status"
	ReasonTimeout   Reason = "timeout"
	ReasonTransport Reason = "transport"
)

// AttemptError is the only error type returned by Attempt. All of its reasons are retryable.
type AttemptError struct {
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *AttemptError) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("Status %d", e.StatusCode)
	case ReasonTimeout:
		return "Timeout"
	default:
		return fmt.Sprintf("Error: %v", e.Err)
	}
}

func (e *AttemptError) Unwrap() error { return e.Err }
