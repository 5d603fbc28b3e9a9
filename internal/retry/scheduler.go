// Package retry runs a turn against the endpoint with a fixed attempt budget and delay.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gaia-bot/internal/conversation"
	"gaia-bot/internal/llm"
)

// separator closes every success record.
var separator = strings.Repeat("=", 50)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result is the terminal outcome of one attempt sequence.
type Result struct {
	Succeeded bool
	Answer    string
	Attempts  int
}

// Scheduler wraps an Attempter with bounded retries.
type Scheduler struct {
	attempter   llm.Attempter
	maxAttempts int
	delay       time.Duration
	logger      *slog.Logger
	sleep       SleepFunc
}

// NewScheduler creates a Scheduler. Negative maxAttempts is treated as zero.
func NewScheduler(attempter llm.Attempter, maxAttempts int, delay time.Duration, logger *slog.Logger) *Scheduler {
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	return &Scheduler{
		attempter:   attempter,
		maxAttempts: maxAttempts,
		delay:       delay,
		logger:      logger,
		sleep:       Sleep,
	}
}

// WithSleep replaces the delay function.
func (s *Scheduler) WithSleep(fn SleepFunc) *Scheduler {
	s.sleep = fn
	return s
}

// Execute attempts the turn until it succeeds or the budget runs out.
// Exhaustion is not an error; the only error returned is ctx's.
func (s *Scheduler) Execute(ctx context.Context, turn conversation.Turn) (Result, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		answer, err := s.attempter.Attempt(ctx, turn.Messages())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{Attempts: attempt}, ctxErr
		}
		if err == nil {
			s.logSuccess(turn.Question(), answer)
			return Result{Succeeded: true, Answer: answer, Attempts: attempt}, nil
		}
		s.logFailure(attempt, err)

		if attempt < s.maxAttempts {
			if err := s.sleep(ctx, s.delay); err != nil {
				return Result{Attempts: attempt}, err
			}
		}
	}
	return Result{Attempts: s.maxAttempts}, nil
}

func (s *Scheduler) logSuccess(question, answer string) {
	s.logger.Info("Question: " + question)
	s.logger.Info("Answer: " + answer)
	s.logger.Info(separator)
}

func (s *Scheduler) logFailure(attempt int, err error) {
	reason := llm.ReasonTransport
	var attemptErr *llm.AttemptError
	if errors.As(err, &attemptErr) {
		reason = attemptErr.Reason
	}

	level := slog.LevelWarn
	if reason == llm.ReasonTransport {
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, "attempt failed",
		"attempt", attempt,
		"total", s.maxAttempts,
		"reason", string(reason),
		"error", err.Error(),
	)
}
