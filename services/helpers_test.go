package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"propertyinsights/llm"
	"propertyinsights/models"
	"propertyinsights/providers"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedMock() *providers.MockSource {
	return &providers.MockSource{
		Now:    func() time.Time { return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC) },
		Random: func() float64 { return 0.5 },
	}
}

// failingSource fails the flood and school lookups on demand.
type failingSource struct {
	*providers.MockSource
	floodErr  error
	schoolErr error
}

func (f *failingSource) FloodRisk(ctx context.Context, postcode string) (*models.FloodRiskData, error) {
	if f.floodErr != nil {
		return nil, f.floodErr
	}
	return f.MockSource.FloodRisk(ctx, postcode)
}

func (f *failingSource) Schools(ctx context.Context, postcode string) ([]models.School, error) {
	if f.schoolErr != nil {
		return nil, f.schoolErr
	}
	return f.MockSource.Schools(ctx, postcode)
}

// stubBackend returns a fixed reply and records requests.
type stubBackend struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []llm.Request
	// gate, when set, blocks Generate until it is closed.
	gate chan struct{}
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Generate(ctx context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return s.reply, s.err
}

func (s *stubBackend) lastRequest() llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

// recordingEngine records SpeechEngine calls.
type recordingEngine struct {
	mu       sync.Mutex
	calls    []string
	spoken   []string
	speakErr error
}

func (r *recordingEngine) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recordingEngine) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingEngine) Speak(_ context.Context, text string) error {
	r.record("speak")
	r.mu.Lock()
	r.spoken = append(r.spoken, text)
	r.mu.Unlock()
	return r.speakErr
}

func (r *recordingEngine) LastSpoken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.spoken) == 0 {
		return ""
	}
	return r.spoken[len(r.spoken)-1]
}
func (r *recordingEngine) Pause() error  { r.record("pause"); return nil }
func (r *recordingEngine) Resume() error { r.record("resume"); return nil }
func (r *recordingEngine) Cancel() error { r.record("cancel"); return nil }
func (r *recordingEngine) StartListening(context.Context) error {
	r.record("listen")
	return nil
}
func (r *recordingEngine) StopListening() error { r.record("unlisten"); return nil }

// countingTTS counts conversions.
type countingTTS struct {
	mu    sync.Mutex
	count int
	err   error
}

func (c *countingTTS) Synthesize(context.Context, string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	if c.err != nil {
		return "", c.err
	}
	return SilentWAVDataURI, nil
}

func (c *countingTTS) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

var errBoom = errors.New("boom")

func newTestSession(t *testing.T, backend llm.Backend, tts TextToSpeech) (*ReportSession, *recordingEngine) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logger := zap.NewNop()
	engine := &recordingEngine{}
	s := NewReportSession(node,
		NewChatAssistant(backend, logger),
		NewPodcastService(tts, logger),
		NewNarrator(engine, logger),
		logger,
	)
	return s, engine
}

func installReport(t *testing.T, s *ReportSession, summary string) int64 {
	t.Helper()
	id := s.Begin()
	require.True(t, s.Complete(id, &models.Report{ID: id, Postcode: "SW1A 1AA", Summary: summary}))
	return id
}
