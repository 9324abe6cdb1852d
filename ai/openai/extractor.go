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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ticketsmith/ai"
	"github.com/poiesic/ticketsmith/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// TaskExtractor implements ai.TaskExtractor using OpenAI-compatible chat APIs.
type TaskExtractor struct {
	client       llms.Model
	systemPrompt string
	logger       *slog.Logger
}

// rawTask is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type rawTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Owner       string   `json:"owner"`
	Priority    string   `json:"priority"`
	Labels      []string `json:"labels"`
}

// extraction is the wrapper structure for the LLM's JSON response.
type extraction struct {
	Tasks   []rawTask `json:"tasks"`
	Refusal *string   `json:"refusal"`
}

// newTaskExtractor is an internal constructor that returns the concrete type.
func newTaskExtractor(config *ai.Config, roster core.TeamRoster, labels core.LabelTaxonomy) (*TaskExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &TaskExtractor{
		client:       client,
		systemPrompt: buildSystemPrompt(roster, labels),
		logger:       slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewTaskExtractor creates a task extractor using the provided configuration
// and the run's reference sets, which are embedded in the prompt so the model
// knows the legal owners and labels up front.
//
// Returns ai.TaskExtractor interface to enforce abstraction.
func NewTaskExtractor(config *ai.Config, roster core.TeamRoster, labels core.LabelTaxonomy) (ai.TaskExtractor, error) {
	return newTaskExtractor(config, roster, labels)
}

// Extract runs one extraction call against the chat API.
//
// Unparseable output is reported as ai.ErrMalformedResponse and is never
// retried here: the caller owns the repair loop and must see every failed
// attempt to build its repair instructions. Transport errors pass through
// unchanged.
func (e *TaskExtractor) Extract(ctx context.Context, req ai.Request) (*ai.Extraction, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(e.systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(req.ChunkText),
			},
		},
	}
	if req.RepairHint != "" {
		content = append(content, llms.MessageContent{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildRepairPrompt(req.RepairHint)),
			},
		})
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		e.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model")
		return nil, fmt.Errorf("%w: model returned no choices", ai.ErrMalformedResponse)
	}

	// Strip markdown code fences if present
	responseText := strings.TrimSpace(response.Choices[0].Content)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	// Try to repair common JSON issues
	responseText = repairJSON(responseText)

	var result extraction
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		e.logger.Warn("error parsing extractor response",
			"response", responseText,
			"err", err)
		return nil, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}

	if result.Refusal != nil && *result.Refusal != "" {
		e.logger.Debug("extractor refused", "reason", *result.Refusal)
		return &ai.Extraction{Refusal: &ai.Refusal{Reason: *result.Refusal}}, nil
	}

	candidates := make([]ai.RawCandidate, len(result.Tasks))
	for i, task := range result.Tasks {
		candidates[i] = ai.RawCandidate{
			Title:       task.Title,
			Description: task.Description,
			Owner:       task.Owner,
			Priority:    task.Priority,
			Labels:      task.Labels,
		}
	}

	e.logger.Debug("extracted candidates", "count", len(candidates))
	return &ai.Extraction{Candidates: candidates}, nil
}
