// Package llm wraps the generative-text backends used for summaries and
// grounded chat. Every backend returns raw model text; callers decode the
// structured JSON they asked for with Decode.
package llm

import (
	"context"
	"encoding/json"
	"errors"

	"propertyinsights/utils"

	"github.com/rotisserie/eris"
)

const (
	TaskSummary = "summary"
	TaskChat    = "chat"
)

// ErrMalformedOutput is returned when a reply does not contain the requested JSON.
var ErrMalformedOutput = errors.New("llm: malformed structured output")

// Field is one string property of the requested JSON object.
type Field struct {
	Name        string
	Description string
}

// Schema describes a flat JSON object whose properties are all required strings.
type Schema struct {
	Fields []Field
}

// Request is a single-turn structured generation request.
type Request struct {
	Task   string
	System string
	Prompt string
	Schema Schema
	// Inputs carries the structured values the prompt was rendered from.
	Inputs map[string]string
}

// Backend generates text for a request.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Decode extracts the JSON object from raw and unmarshals it into v.
func Decode(raw string, v any) error {
	jsonStr := utils.ExtractJSON(raw)
	if jsonStr == "" {
		return eris.Wrap(ErrMalformedOutput, "no JSON object in reply")
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return eris.Wrapf(ErrMalformedOutput, "decode reply: %v", err)
	}
	return nil
}
