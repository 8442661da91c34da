package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiBackend calls Google Gemini with JSON-constrained output.
type GeminiBackend struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiBackend creates the Gemini client. Call Close when done.
func NewGeminiBackend(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, eris.New("gemini: GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: failed to create client")
	}
	logger.Info("llm: Gemini backend configured", zap.String("model", model))
	return &GeminiBackend{client: client, model: model, logger: logger}, nil
}

func (g *GeminiBackend) Name() string { return "gemini" }

// Close releases the underlying client.
func (g *GeminiBackend) Close() error {
	return g.client.Close()
}

func (g *GeminiBackend) Generate(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if len(req.Schema.Fields) > 0 {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGenaiSchema(req.Schema)
	}

	g.logger.Debug("llm: sending Gemini request", zap.String("task", req.Task), zap.Int("prompt_chars", len(req.Prompt)))
	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		g.logger.Error("llm: Gemini request failed", zap.String("task", req.Task), zap.Error(err))
		return "", eris.Wrap(err, "gemini: generate content")
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", eris.Wrap(ErrMalformedOutput, "gemini: no content received")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", eris.Wrap(ErrMalformedOutput, "gemini: no text content received")
	}
	return sb.String(), nil
}

func toGenaiSchema(s Schema) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(s.Fields)),
	}
	for _, f := range s.Fields {
		schema.Properties[f.Name] = &genai.Schema{Type: genai.TypeString, Description: f.Description}
		schema.Required = append(schema.Required, f.Name)
	}
	return schema
}
