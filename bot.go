package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gaia-bot/internal/conversation"
	"gaia-bot/internal/retry"
)

// TurnGenerator produces a fresh turn per cycle
type TurnGenerator interface {
	Generate() conversation.Turn
}

// TurnExecutor runs one turn through its attempt budget
type TurnExecutor interface {
	Execute(ctx context.Context, turn conversation.Turn) (retry.Result, error)
}

// Bot drives the generate-and-send cycle until its context is cancelled
type Bot struct {
	generator  TurnGenerator
	executor   TurnExecutor
	journal    Journal
	logger     *slog.Logger
	cycleDelay time.Duration
	sleep      retry.SleepFunc
	now        func() time.Time
}

// NewBot creates a Bot
func NewBot(generator TurnGenerator, executor TurnExecutor, journal Journal, cycleDelay time.Duration, logger *slog.Logger) *Bot {
	if journal == nil {
		journal = nopJournal{}
	}
	return &Bot{
		generator:  generator,
		executor:   executor,
		journal:    journal,
		logger:     logger,
		cycleDelay: cycleDelay,
		sleep:      retry.Sleep,
		now:        time.Now,
	}
}

// Run loops forever and returns nil once ctx is cancelled.
// An exhausted turn is not escalated; the next cycle starts as usual.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Bot is running and ready")

	for {
		if err := b.cycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				b.logger.Info("Bot stopped by user")
				return nil
			}
			return err
		}
	}
}

func (b *Bot) cycle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := uuid.New()
	started := b.now()
	turn := b.generator.Generate()
	b.logger.Debug("cycle started", "cycle", id.String(), "role", turn[1].Role)

	res, err := b.executor.Execute(ctx, turn)
	if err != nil {
		return err
	}

	rec := CycleRecord{
		ID:         id,
		StartedAt:  started,
		FinishedAt: b.now(),
		Attempts:   res.Attempts,
		Succeeded:  res.Succeeded,
	}
	if err := b.journal.Record(ctx, rec); err != nil {
		b.logger.Warn("failed to record cycle", "cycle", id.String(), "error", err)
	}

	return b.sleep(ctx, b.cycleDelay)
}
