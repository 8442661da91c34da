package llm

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go/v2"
	oaioption "github.com/openai/openai-go/v2/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// OpenAIBackend calls the OpenAI chat completions API.
type OpenAIBackend struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIBackend configures a client for apiKey; baseURL may be empty.
func NewOpenAIBackend(apiKey, model, baseURL string, logger *zap.Logger) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, eris.New("openai: OPENAI_API_KEY is not set")
	}
	opts := []oaioption.RequestOption{oaioption.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, oaioption.WithBaseURL(baseURL))
	}
	logger.Info("llm: OpenAI backend configured", zap.String("model", model))
	return &OpenAIBackend{client: openai.NewClient(opts...), model: model, logger: logger}, nil
}

func (o *OpenAIBackend) Name() string { return "openai" }

func (o *OpenAIBackend) Generate(ctx context.Context, req Request) (string, error) {
	system := req.System
	if len(req.Schema.Fields) > 0 {
		system = strings.TrimSpace(system + "\n\n" + schemaInstruction(req.Schema))
	}

	o.logger.Debug("llm: sending OpenAI request", zap.String("task", req.Task), zap.Int("prompt_chars", len(req.Prompt)))
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(req.Prompt),
		},
	})
	if err != nil {
		o.logger.Error("llm: OpenAI request failed", zap.String("task", req.Task), zap.Error(err))
		return "", eris.Wrap(err, "openai: chat completion")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", eris.Wrap(ErrMalformedOutput, "openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// schemaInstruction spells out the JSON shape for backends without native
// schema support.
func schemaInstruction(s Schema) string {
	var sb strings.Builder
	sb.WriteString("Respond with a single minified JSON object and nothing else, with exactly these string properties:")
	for _, f := range s.Fields {
		sb.WriteString("\n- \"")
		sb.WriteString(f.Name)
		sb.WriteString("\": ")
		sb.WriteString(f.Description)
	}
	return sb.String()
}
