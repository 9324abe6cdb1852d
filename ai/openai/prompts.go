package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/ticketsmith/core"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {
            "type": "string",
            "maxLength": 80
          },
          "description": {
            "type": "string"
          },
          "owner": {
            "type": "string"
          },
          "priority": {
            "type": "string",
            "enum": ["Critical", "High", "Low"]
          },
          "labels": {
            "type": "array",
            "items": {
              "type": "string",
              "enum": ["Bug", "Feature", "Docs", "TechDebt"]
            },
            "minItems": 1
          }
        },
        "required": ["title", "description", "owner", "priority", "labels"],
        "additionalProperties": false
      }
    },
    "refusal": {
      "type": ["string", "null"]
    }
  },
  "required": ["tasks"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You are a Project Manager. Extract actionable work items from the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Each title must begin with an imperative verb (Fix, Add, Update, ...) and stay under 80 characters.
- Each description must restate the task using the source text's own words.
- Owner must be one of the team members listed below, or exactly "Unassigned" when the text names nobody: %s.
- Priority must be exactly one of: Critical, High, Low.
- Labels must be a non-empty subset of: %s.
- Extract only tasks that are explicitly requested or clearly implied. Do not invent tasks.
- If the text contains no actionable task, return "tasks": [].
- If the text is too ambiguous to extract from responsibly, return "tasks": [] and set "refusal" to a one-sentence reason. Never guess.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "The checkout button is 404ing on mobile devices! Sarah should look at it today."
Output:
{
  "tasks": [
    {
      "title": "Fix checkout button 404 on mobile",
      "description": "The checkout button is returning a 404 on mobile devices.",
      "owner": "Sarah",
      "priority": "High",
      "labels": ["Bug"]
    }
  ],
  "refusal": null
}

Example (no actionable task):
Input: "Great standup everyone, see you tomorrow."
Output:
{
  "tasks": [],
  "refusal": null
}

Example (ambiguous input):
Input: "Make sure the thing works."
Output:
{
  "tasks": [],
  "refusal": "The request does not say which thing or what working means."
}`

const repairPromptTemplate = `!!! PREVIOUS ATTEMPTS FAILED !!!
Your previous output was rejected with this feedback:
%s

STRICT INSTRUCTION: You must fix these issues in your new output.`

// buildSystemPrompt creates the system prompt with the response schema and
// the run's reference sets embedded.
func buildSystemPrompt(roster core.TeamRoster, labels core.LabelTaxonomy) string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.String()
	}
	return fmt.Sprintf(extractionPromptTemplate,
		extractionResponseSchema,
		strings.Join(roster, ", "),
		strings.Join(names, ", "))
}

// buildRepairPrompt wraps accumulated validation feedback the way the
// extractor expects to receive corrections.
func buildRepairPrompt(hint string) string {
	return fmt.Sprintf(repairPromptTemplate, hint)
}
