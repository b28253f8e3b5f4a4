// Package main seeds the database with quotes and questions from a JSON
// file, typically the scraping batch job's output. Quote ingestion is
// idempotent on (content, author), so re-running the seed only inserts
// what is new; questions are appended as given.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/harulog/harulog/internal/config"
	"github.com/harulog/harulog/internal/model"
	"github.com/harulog/harulog/internal/repository/sqlite"
	"github.com/harulog/harulog/internal/service"
)

type seedFile struct {
	Quotes    []model.Quote `json:"quotes"`
	Questions []string      `json:"questions"`
}

func main() {
	_ = godotenv.Load()

	path := flag.String("file", "seed.json", "path to the seed data file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	data, err := os.ReadFile(*path)
	if err != nil {
		logger.Error("failed to read seed file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		logger.Error("failed to parse seed file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	quotes := service.NewQuoteService(db.Quotes(), logger)
	questions := service.NewQuestionService(db.Questions(), logger)

	created, err := quotes.CreateMany(ctx, seed.Quotes)
	if err != nil {
		logger.Error("quote ingestion failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	added := 0
	for _, text := range seed.Questions {
		if _, err := questions.AddQuestion(ctx, text); err != nil {
			logger.Warn("skipping question", slog.String("error", err.Error()))
			continue
		}
		added++
	}

	logger.Info("seed complete",
		slog.Int("quotesCreated", created),
		slog.Int("quotesInFile", len(seed.Quotes)),
		slog.Int("questionsAdded", added),
	)
}
