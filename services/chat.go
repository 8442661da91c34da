package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"propertyinsights/llm"
	"propertyinsights/models"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RefusalMessage is returned verbatim when the summary cannot answer a question.
const RefusalMessage = "I do not have enough information in the summary to answer that question."

var (
	ErrEmptyQuestion = errors.New("question must not be empty")
	ErrNoReport      = errors.New("no report content available")
)

var chatSchema = llm.Schema{Fields: []llm.Field{
	{Name: "botResponse", Description: "The answer to the user's question, taken only from the executive summary."},
}}

const chatSystemInstruction = "You are a highly specialised assistant. Your only function is to answer questions " +
	"based exclusively on the provided executive summary of a property redevelopment report. " +
	"Do not use external knowledge, make assumptions, or infer anything not explicitly stated in the summary. " +
	"If the question cannot be answered from the summary, respond with exactly: \"" + RefusalMessage + "\" and nothing else."

// BuildChatPrompt renders the single-turn chat prompt.
func BuildChatPrompt(reportContext, question string) string {
	return fmt.Sprintf("Here is the executive summary:\n---\n%s\n---\n\nUser's question: %s\n\nYour answer:", reportContext, question)
}

// ChatAssistant answers questions grounded in a report summary. Each call is
// independent; no earlier turns are sent to the backend.
type ChatAssistant struct {
	backend llm.Backend
	logger  *zap.Logger
}

func NewChatAssistant(backend llm.Backend, logger *zap.Logger) *ChatAssistant {
	return &ChatAssistant{backend: backend, logger: logger}
}

func (a *ChatAssistant) Answer(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	question := strings.TrimSpace(req.UserQuestion)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if strings.TrimSpace(req.ReportContext) == "" {
		return nil, ErrNoReport
	}

	raw, err := a.backend.Generate(ctx, llm.Request{
		Task:   llm.TaskChat,
		System: chatSystemInstruction,
		Prompt: BuildChatPrompt(req.ReportContext, question),
		Schema: chatSchema,
		Inputs: map[string]string{
			llm.InputReportContext: req.ReportContext,
			llm.InputUserQuestion:  question,
			llm.InputRefusal:       RefusalMessage,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "chat generation failed")
	}

	var out models.ChatResponse
	if err := llm.Decode(raw, &out); err != nil {
		return nil, err
	}
	out.BotResponse = normalizeRefusal(out.BotResponse)
	if out.BotResponse == "" {
		return nil, eris.Wrap(llm.ErrMalformedOutput, "chat reply is empty")
	}
	return &out, nil
}

// normalizeRefusal collapses any reply carrying the refusal sentence to the
// exact sentence.
func normalizeRefusal(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.Contains(reply, RefusalMessage) {
		return RefusalMessage
	}
	return reply
}
