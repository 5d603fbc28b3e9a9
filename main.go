package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"gaia-bot/internal/conversation"
	"gaia-bot/internal/llm"
	"gaia-bot/internal/logging"
	"gaia-bot/internal/retry"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()
	if *showVersion {
		fmt.Println("gaia-bot version " + version)
		return
	}

	if err := run(); err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
}

func run() error {
	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logger, logCloser, err := logging.New(os.Stdout, config.LogFile, level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// Load word lists
	words, err := LoadWordStore(config.RolesFile, config.PhrasesFile)
	if err != nil {
		logger.Error("Initialization error", "error", err)
		return err
	}

	url, err := llm.EndpointURL(config.NodeID, config.Domain)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journal, err := NewJournal(ctx, config.DatabaseURL)
	if err != nil {
		logger.Error("Initialization error", "error", err)
		return err
	}
	defer journal.Close()

	client := llm.NewGaiaClient(url, config.Timeout)
	defer client.Close()

	generator := conversation.NewGenerator(words.Roles, words.Phrases, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	scheduler := retry.NewScheduler(client, config.RetryCount, config.RetryDelay, logger)
	bot := NewBot(generator, scheduler, journal, config.CycleDelay, logger)

	logger.Info("Bot initialized successfully",
		"endpoint", client.URL(),
		"roles", len(words.Roles),
		"phrases", len(words.Phrases),
		"retry_count", config.RetryCount,
		"retry_delay", config.RetryDelay.String(),
		"timeout", config.Timeout.String(),
	)

	return bot.Run(ctx)
}
