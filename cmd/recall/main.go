// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/embedcache"
	"github.com/poiesic/recall/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Personal memory store with hybrid search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Store a memory record",
				Action:    addCommand,
				ArgsUsage: "CONTENT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Memory type (general, work, personal, learning, idea, reminder)",
						Value: "general",
					},
					&cli.StringFlag{
						Name:  "summary",
						Usage: "Optional short summary",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag for the record (repeatable)",
					},
					&cli.IntFlag{
						Name:  "importance",
						Usage: "Importance from 1 (lowest) to 10 (highest)",
						Value: 5,
					},
					&cli.TimestampFlag{
						Name:   "scheduled",
						Usage:  "Scheduled date in RFC 3339 form (e.g. 2025-08-11T14:30:00Z)",
						Layout: time.RFC3339,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search stored memories with a natural-language query",
				Action:    searchCommand,
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.BoolFlag{
						Name:  "lexical-only",
						Usage: "Skip the embedding provider and match on text alone",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of results to return",
						Value: 10,
					},
					&cli.DurationFlag{
						Name:  "embed-timeout",
						Usage: "Per-query embedding timeout before degrading to lexical scoring",
						Value: 10 * time.Second,
					},
				},
			},
			{
				Name:   "suggest",
				Usage:  "Show what the stored corpus can be searched for",
				Action: suggestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "warm",
				Usage:  "Embed every stored record that lacks an embedding",
				Action: warmCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embeddings",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", c.String("log-level"))
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	content := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if content == "" {
		return fmt.Errorf("content is required")
	}

	store, err := recall.Open(c.String("db"), recall.WithoutProvider())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	record := &core.MemoryRecord{
		Content:    content,
		Summary:    c.String("summary"),
		Tags:       c.StringSlice("tag"),
		Type:       core.ParseMemoryType(c.String("type")),
		Importance: c.Int("importance"),
	}
	if ts := c.Timestamp("scheduled"); ts != nil && !ts.IsZero() {
		scheduled := ts.UTC()
		record.ScheduledDate = &scheduled
	}

	added, err := store.Remember(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}

	fmt.Printf("Stored memory %d (%s)\n", added[0].Id, added[0].Type)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	storeOpts := []recall.StoreOption{}
	if c.Bool("lexical-only") {
		storeOpts = append(storeOpts, recall.WithoutProvider())
	} else {
		storeOpts = append(storeOpts, recall.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithModel(c.String("embedding-model")),
			ai.WithTimeout(c.Duration("embed-timeout")),
		)))
	}

	store, err := recall.Open(c.String("db"), storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	opts := search.DefaultOptions()
	opts.TopK = c.Int("top-k")

	outcome, err := store.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printOutcome(outcome)
	return nil
}

func printOutcome(outcome *core.SearchOutcome) {
	if outcome.IsNoMatch() {
		fmt.Println("No matching memories.")
		for _, suggestion := range outcome.Suggestions {
			fmt.Printf("  - %s\n", suggestion)
		}
		return
	}

	fmt.Printf("Method: %s\n", outcome.Method)
	for i, result := range outcome.Results {
		record := result.Record
		fmt.Printf("%2d. [%.3f] %s\n", i+1, result.FinalScore, record.Content)
		if record.Summary != "" {
			fmt.Printf("    summary: %s\n", record.Summary)
		}
		if record.ScheduledDate != nil {
			fmt.Printf("    scheduled: %s\n", record.ScheduledDate.Format(time.RFC3339))
		}
		if len(result.MatchedTerms) > 0 {
			fmt.Printf("    matched: %s\n", strings.Join(result.MatchedTerms, ", "))
		}
	}
}

func suggestCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := recall.Open(c.String("db"), recall.WithoutProvider())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	records, err := store.Repository().ListMemories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list memories: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No memories stored yet.")
		return nil
	}

	stats := search.ComputeCorpusStats(records)

	fmt.Printf("%d memories stored.\n", len(records))
	if len(stats.Tags) > 0 {
		tags := make([]string, 0, len(stats.Tags))
		for tag := range stats.Tags {
			tags = append(tags, tag)
		}
		sort.Slice(tags, func(i, j int) bool {
			if stats.Tags[tags[i]] != stats.Tags[tags[j]] {
				return stats.Tags[tags[i]] > stats.Tags[tags[j]]
			}
			return tags[i] < tags[j]
		})
		fmt.Println("Tags:")
		for _, tag := range tags {
			fmt.Printf("  %s (%d)\n", tag, stats.Tags[tag])
		}
	}
	if len(stats.Types) > 0 {
		fmt.Println("Types:")
		for _, memoryType := range core.MemoryTypes {
			if count := stats.Types[memoryType]; count > 0 {
				fmt.Printf("  %s (%d)\n", memoryType, count)
			}
		}
	}
	return nil
}

func warmCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Int("max-retries") <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	store, err := recall.Open(c.String("db"), recall.WithAIConfig(ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	warmOpts := []embedcache.WarmerOption{
		embedcache.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if c.Int("pool-size") > 0 {
		warmOpts = append(warmOpts, embedcache.WithPoolSize(c.Int("pool-size")))
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	stats, err := store.Warm(ctx, warmOpts...)
	if err != nil {
		return fmt.Errorf("warming failed: %w", err)
	}

	fmt.Printf("Embedded: %d\nSkipped: %d\nFailed: %d\n", stats.Embedded, stats.Skipped, stats.Failed)
	return nil
}
