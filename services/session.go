package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"propertyinsights/models"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatErrorMessage is appended as the bot reply when a chat turn fails.
const ChatErrorMessage = "Sorry, I encountered an error. Please try again."

// ErrStaleGeneration marks a result that a newer generation superseded.
var ErrStaleGeneration = errors.New("result superseded by a newer report generation")

// ReportSession holds the report currently on display together with the
// state derived from it: chat history, podcast audio and narration.
// Installing or clearing a report resets all derived state.
type ReportSession struct {
	mu       sync.Mutex
	ids      *snowflake.Node
	latest   int64
	revision uint64
	report   *models.Report
	chat     []models.ChatMessage
	podcast  *models.PodcastAudioResponse

	assistant *ChatAssistant
	podcasts  *PodcastService
	narrator  *Narrator
	logger    *zap.Logger
}

func NewReportSession(ids *snowflake.Node, assistant *ChatAssistant, podcasts *PodcastService, narrator *Narrator, logger *zap.Logger) *ReportSession {
	return &ReportSession{
		ids:       ids,
		assistant: assistant,
		podcasts:  podcasts,
		narrator:  narrator,
		logger:    logger,
	}
}

// Begin tags a new generation. Only the most recent tag may install a report.
func (s *ReportSession) Begin() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Generate under the lock so ids are stored in the order they were issued.
	s.latest = s.ids.Generate().Int64()
	return s.latest
}

// Complete installs report if id is still the latest generation.
func (s *ReportSession) Complete(id int64, report *models.Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.latest {
		s.logger.Info("Discarding stale report", zap.Int64("generation", id), zap.Int64("latest", s.latest))
		return false
	}
	s.install(report)
	return true
}

// Fail clears the displayed report if id is still the latest generation, so
// an old summary is never left on screen after a failed generation.
func (s *ReportSession) Fail(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.latest {
		return false
	}
	s.install(nil)
	return true
}

func (s *ReportSession) install(report *models.Report) {
	s.report = report
	s.revision++
	s.chat = nil
	s.podcast = nil
	s.narrator.Stop()
}

// Current returns the displayed report, or nil.
func (s *ReportSession) Current() *models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Summary returns the displayed executive summary, or "".
func (s *ReportSession) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *ReportSession) summaryLocked() string {
	if s.report == nil {
		return ""
	}
	return s.report.Summary
}

// History returns a copy of the chat history.
func (s *ReportSession) History() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// Ask records the question, asks the assistant and records the reply. When the
// assistant fails a ChatErrorMessage reply is recorded and the error returned
// alongside it. Replies for a summary that has since changed are dropped.
func (s *ReportSession) Ask(ctx context.Context, question string) (*models.ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	s.mu.Lock()
	summary := s.summaryLocked()
	if summary == "" {
		s.mu.Unlock()
		return nil, ErrNoReport
	}
	revision := s.revision
	s.chat = append(s.chat, models.ChatMessage{ID: uuid.NewString(), Role: models.ChatRoleUser, Text: question})
	s.mu.Unlock()

	resp, err := s.assistant.Answer(ctx, models.ChatRequest{ReportContext: summary, UserQuestion: question})

	s.mu.Lock()
	defer s.mu.Unlock()
	if revision != s.revision {
		return nil, ErrStaleGeneration
	}
	reply := models.ChatMessage{ID: uuid.NewString(), Role: models.ChatRoleBot}
	if err != nil {
		s.logger.Error("Chat turn failed", zap.Error(err))
		reply.Text = ChatErrorMessage
	} else {
		reply.Text = resp.BotResponse
	}
	s.chat = append(s.chat, reply)
	return &reply, err
}

// Podcast returns the cached audio for the current summary, converting it on
// first use. The boolean reports a cache hit.
func (s *ReportSession) Podcast(ctx context.Context) (*models.PodcastAudioResponse, bool, error) {
	s.mu.Lock()
	summary := s.summaryLocked()
	if summary == "" {
		s.mu.Unlock()
		return nil, false, ErrNoReport
	}
	if s.podcast != nil {
		cached := *s.podcast
		s.mu.Unlock()
		return &cached, true, nil
	}
	revision := s.revision
	s.mu.Unlock()

	audio, err := s.podcasts.Convert(ctx, models.PodcastAudioRequest{Text: summary})
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if revision != s.revision {
		return nil, false, ErrStaleGeneration
	}
	s.podcast = audio
	return audio, false, nil
}

// ClearPodcast drops the cached audio.
func (s *ReportSession) ClearPodcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.podcast = nil
}

// ToggleReadAloud starts, pauses or resumes narration of the summary.
// The session lock is held throughout so a report installed concurrently
// cannot be overtaken by narration of the summary it replaced.
func (s *ReportSession) ToggleReadAloud(ctx context.Context) (NarrationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := s.summaryLocked()
	if summary == "" {
		return s.narrator.State(), ErrNoReport
	}
	return s.narrator.Toggle(ctx, summary)
}

func (s *ReportSession) Narrator() *Narrator {
	return s.narrator
}
