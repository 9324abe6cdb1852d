package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/ticketsmith/core"
	"github.com/poiesic/ticketsmith/pipeline"
)

func TestSetupLogger(t *testing.T) {
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error { return nil },
	}

	require.NoError(t, app.Run([]string{"ticketsmith"}))
	require.NoError(t, app.Run([]string{"ticketsmith", "--log-level", "DEBUG"}))

	err := app.Run([]string{"ticketsmith", "--log-level", "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func sampleRecord() core.FinalizedRecord {
	return core.FinalizedRecord{
		Title:       "Fix login page crash",
		Description: "The login page crashes on iOS at startup.",
		Owner:       "alice",
		Priority:    core.PriorityHigh,
		Labels:      []core.Label{core.LabelBug, core.LabelTechDebt},
		MergedProvenance: []core.Provenance{
			{Source: "notes.txt", ChunkIndex: 0, Attempt: 1},
		},
	}
}

func TestParseRoster(t *testing.T) {
	assert.Equal(t, core.TeamRoster{"alice", "bob"}, parseRoster("alice, bob"))
	assert.Equal(t, core.TeamRoster{"alice"}, parseRoster("alice,,"))
	assert.Nil(t, parseRoster(""))
}

func TestFormatRecord(t *testing.T) {
	record := sampleRecord()
	assert.Equal(t, "[Bug] Fix login page crash (High, alice)", formatRecord(&record))

	record.Labels = nil
	assert.Equal(t, "[?] Fix login page crash (High, alice)", formatRecord(&record))
}

func TestPrintSummary(t *testing.T) {
	result := &pipeline.Result{
		Batch: &core.TicketBatch{
			RunID:   42,
			Records: []core.FinalizedRecord{sampleRecord()},
		},
		Refusals: []pipeline.ChunkRefusal{
			{Source: "notes.txt", ChunkIndex: 3, Reason: "no actionable task"},
		},
		Failures: []pipeline.ChunkFailure{
			{Source: "notes.txt", ChunkIndex: 5, Kind: pipeline.FailureSchemaRepairExhausted},
		},
		ChunkCount: 6,
	}

	var buf bytes.Buffer
	printSummary(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "[Bug] Fix login page crash")
	assert.Contains(t, out, "1 tickets from 6 chunks")
	assert.Contains(t, out, "skipped notes.txt#3: no actionable task")
	assert.Contains(t, out, "failed notes.txt#5: schema-repair-exhausted")
}

func TestPresentBatchRendersEnumsAsNames(t *testing.T) {
	record := sampleRecord()
	record.Conflicts = []core.ConflictEntry{
		{Field: "priority", Values: []string{"High", "Low"}, Winner: "High", Reason: "safety-first"},
	}
	batch := &core.TicketBatch{
		RunID:     7,
		CreatedAt: time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC),
		Records:   []core.FinalizedRecord{record},
	}

	data, err := json.Marshal(presentBatch(batch))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	tickets := decoded["tickets"].([]any)
	require.Len(t, tickets, 1)
	ticket := tickets[0].(map[string]any)
	assert.Equal(t, "High", ticket["priority"])
	assert.Equal(t, []any{"Bug", "TechDebt"}, ticket["labels"])
	assert.Equal(t, []any{"notes.txt#0@1"}, ticket["provenance"])
	require.Len(t, ticket["conflicts"], 1)
}
