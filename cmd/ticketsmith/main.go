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
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/ticketsmith/ai"
	"github.com/poiesic/ticketsmith/ai/openai"
	"github.com/poiesic/ticketsmith/chunk"
	"github.com/poiesic/ticketsmith/core"
	"github.com/poiesic/ticketsmith/pipeline"
	"github.com/poiesic/ticketsmith/sink"
	"github.com/poiesic/ticketsmith/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "ticketsmith",
		Usage: "Turn unstructured notes into validated, de-duplicated tickets",
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
				Name:      "run",
				Usage:     "Extract tickets from text files (or stdin if no files are given)",
				ArgsUsage: "[files...]",
				Action:    runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB directory; when set, the batch is archived there",
					},
					&cli.StringFlag{
						Name:  "extractor-host",
						Usage: "Extraction service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "extractor-model",
						Usage:    "Extraction model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "API token for the extraction service",
						Value: "none",
					},
					&cli.StringFlag{
						Name:  "owners",
						Usage: "Comma-separated team roster for ticket assignment",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent extraction workers (0 = auto)",
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Extraction attempts per chunk, including repairs",
						Value: pipeline.DefaultMaxAttempts,
					},
					&cli.IntFlag{
						Name:  "chunk-budget",
						Usage: "Maximum chunk size",
						Value: chunk.DefaultBudget,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap carried between adjacent chunks",
					},
					&cli.BoolFlag{
						Name:  "token-chunks",
						Usage: "Measure chunk size in model tokens instead of characters",
					},
					&cli.Float64Flag{
						Name:  "failure-threshold",
						Usage: "Abort when more than this fraction of chunks fails",
						Value: pipeline.DefaultFailureThreshold,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff on service errors",
						Value: pipeline.DefaultRetryBaseDelay,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall run timeout (0 = none)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full batch as JSON instead of a summary",
					},
				},
			},
			{
				Name:   "batches",
				Usage:  "List archived batches, most recent first",
				Action: batchesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of batches to list",
						Value: 20,
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Print one archived batch as JSON",
				ArgsUsage: "run-id",
				Action:    showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB directory",
						Required: true,
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
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	sources, err := readSources(c.Args().Slice())
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("extractor-host")),
		ai.WithModel(c.String("extractor-model")),
		ai.WithToken(c.String("token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	cfg := pipeline.DefaultConfig()
	cfg.ChunkBudget = c.Int("chunk-budget")
	cfg.ChunkOverlap = c.Int("chunk-overlap")
	if c.Bool("token-chunks") {
		cfg.ChunkUnit = chunk.UnitTokens
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.Workers = workers
	}
	cfg.MaxAttempts = c.Int("max-attempts")
	cfg.RetryBaseDelay = c.Duration("retry-delay")
	cfg.FailureThreshold = c.Float64("failure-threshold")
	cfg.Timeout = c.Duration("timeout")
	if owners := c.String("owners"); owners != "" {
		cfg.Roster = parseRoster(owners)
	}

	extractor, err := openai.NewTaskExtractor(aiConfig, cfg.Roster, cfg.Labels)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	p, err := pipeline.NewPipeline(extractor, cfg, pipeline.WithProgressWriter(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	fmt.Fprintf(os.Stderr, "Extractor host: %s\n", aiConfig.ExtractorHost)
	fmt.Fprintf(os.Stderr, "Extractor model: %s\n", aiConfig.ExtractorModel)
	fmt.Fprintf(os.Stderr, "Sources: %d\n", len(sources))
	fmt.Fprintln(os.Stderr)

	result, err := p.Run(ctx, sources...)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if dbPath := c.String("db"); dbPath != "" {
		repo, err := badger.NewBatchRepository(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer repo.Close()

		archive := sink.NewArchive(repo)
		if err := archive.Commit(ctx, result.Batch); err != nil {
			return fmt.Errorf("failed to archive batch: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Archived batch %d to %s\n", result.Batch.RunID, dbPath)
	}

	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(presentBatch(result.Batch))
	}

	printSummary(os.Stdout, result)
	return nil
}

func batchesCommand(c *cli.Context) error {
	repo, err := badger.NewBatchRepository(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	batches, err := repo.ListBatches(context.Background(), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}

	for _, batch := range batches {
		fmt.Printf("%d  %s  %d tickets\n",
			batch.RunID, batch.CreatedAt.Format(time.RFC3339), len(batch.Records))
	}
	return nil
}

func showCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one run ID argument")
	}
	runID, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", c.Args().First(), err)
	}

	repo, err := badger.NewBatchRepository(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	batch, err := repo.GetBatch(context.Background(), core.ID(runID))
	if err != nil {
		return fmt.Errorf("failed to get batch: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(presentBatch(batch))
}

// readSources loads each named file, or stdin when no files are given.
func readSources(paths []string) ([]pipeline.Source, error) {
	if len(paths) == 0 {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []pipeline.Source{{Name: "stdin", Text: string(text)}}, nil
	}

	sources := make([]pipeline.Source, 0, len(paths))
	for _, path := range paths {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		sources = append(sources, pipeline.Source{
			Name: filepath.Base(path),
			Text: string(text),
		})
	}
	return sources, nil
}

func parseRoster(owners string) core.TeamRoster {
	var roster core.TeamRoster
	for _, name := range strings.Split(owners, ",") {
		if name = strings.TrimSpace(name); name != "" {
			roster = append(roster, name)
		}
	}
	return roster
}

// printSummary renders one line per ticket plus run diagnostics.
func printSummary(w io.Writer, result *pipeline.Result) {
	for _, record := range result.Batch.Records {
		fmt.Fprintln(w, formatRecord(&record))
	}

	fmt.Fprintf(w, "\n%d tickets from %d chunks (run %d)\n",
		len(result.Batch.Records), result.ChunkCount, result.Batch.RunID)

	for _, refusal := range result.Refusals {
		fmt.Fprintf(w, "skipped %s#%d: %s\n", refusal.Source, refusal.ChunkIndex, refusal.Reason)
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(w, "failed %s#%d: %s\n", failure.Source, failure.ChunkIndex, failure.Kind)
	}
}

// formatRecord renders a ticket as "[Label] Title (Priority, owner)".
// The leading label mirrors how the tickets land on a board.
func formatRecord(record *core.FinalizedRecord) string {
	label := "?"
	if len(record.Labels) > 0 {
		label = record.Labels[0].String()
	}
	return fmt.Sprintf("[%s] %s (%s, %s)", label, record.Title, record.Priority, record.Owner)
}

// presentation shapes for JSON output; enums render as names, not numbers.

type ticketJSON struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Owner       string         `json:"owner"`
	Priority    string         `json:"priority"`
	Labels      []string       `json:"labels"`
	Provenance  []string       `json:"provenance"`
	Conflicts   []conflictJSON `json:"conflicts,omitempty"`
}

type conflictJSON struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
	Winner string   `json:"winner"`
	Reason string   `json:"reason"`
}

type batchJSON struct {
	RunID     uint64       `json:"run_id"`
	CreatedAt time.Time    `json:"created_at"`
	Tickets   []ticketJSON `json:"tickets"`
}

func presentBatch(batch *core.TicketBatch) batchJSON {
	out := batchJSON{
		RunID:     uint64(batch.RunID),
		CreatedAt: batch.CreatedAt,
		Tickets:   make([]ticketJSON, 0, len(batch.Records)),
	}
	for _, record := range batch.Records {
		labels := make([]string, 0, len(record.Labels))
		for _, l := range record.Labels {
			labels = append(labels, l.String())
		}
		provenance := make([]string, 0, len(record.MergedProvenance))
		for _, p := range record.MergedProvenance {
			provenance = append(provenance, p.String())
		}
		conflicts := make([]conflictJSON, 0, len(record.Conflicts))
		for _, entry := range record.Conflicts {
			conflicts = append(conflicts, conflictJSON(entry))
		}
		out.Tickets = append(out.Tickets, ticketJSON{
			Title:       record.Title,
			Description: record.Description,
			Owner:       record.Owner,
			Priority:    record.Priority.String(),
			Labels:      labels,
			Provenance:  provenance,
			Conflicts:   conflicts,
		})
	}
	return out
}
