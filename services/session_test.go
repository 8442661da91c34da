package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"propertyinsights/llm"
	"propertyinsights/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDiscardsStaleCompletion(t *testing.T) {
	s, _ := newTestSession(t, &stubBackend{}, MockTTS{})

	first := s.Begin()
	second := s.Begin()
	assert.Greater(t, second, first)

	assert.False(t, s.Complete(first, &models.Report{ID: first, Summary: "old"}))
	assert.Nil(t, s.Current())

	assert.True(t, s.Complete(second, &models.Report{ID: second, Summary: "new"}))
	assert.Equal(t, "new", s.Summary())

	// A late failure of the superseded generation changes nothing.
	assert.False(t, s.Fail(first))
	assert.Equal(t, "new", s.Summary())
}

func TestSessionConcurrentBeginKeepsNewestLatest(t *testing.T) {
	s, _ := newTestSession(t, &stubBackend{}, MockTTS{})

	for round := 0; round < 200; round++ {
		ids := make([]int64, 8)
		var wg sync.WaitGroup
		for i := range ids {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ids[i] = s.Begin()
			}()
		}
		wg.Wait()

		newest := ids[0]
		for _, id := range ids[1:] {
			if id > newest {
				newest = id
			}
		}
		for _, id := range ids {
			if id != newest {
				assert.False(t, s.Complete(id, &models.Report{ID: id, Summary: "stale"}))
			}
		}
		require.True(t, s.Complete(newest, &models.Report{ID: newest, Summary: "newest"}), "round %d", round)
	}
}

func TestSessionFailClearsDisplayedReport(t *testing.T) {
	s, _ := newTestSession(t, &stubBackend{}, MockTTS{})
	installReport(t, s, "summary one")

	id := s.Begin()
	assert.True(t, s.Fail(id))
	assert.Nil(t, s.Current())
	assert.Equal(t, "", s.Summary())
}

func TestSessionChatResetsOnNewSummary(t *testing.T) {
	backend := &stubBackend{reply: `{"botResponse":"Very Low."}`}
	s, _ := newTestSession(t, backend, MockTTS{})

	for round := 1; round <= 3; round++ {
		installReport(t, s, "summary")
		assert.Empty(t, s.History())
		for i := 0; i < round; i++ {
			_, err := s.Ask(context.Background(), "What is the flood risk?")
			require.NoError(t, err)
		}
		assert.Len(t, s.History(), 2*round)
	}

	installReport(t, s, "another summary")
	assert.Empty(t, s.History())
}

func TestSessionAskRecordsTurns(t *testing.T) {
	s, _ := newTestSession(t, &stubBackend{reply: `{"botResponse":"Very Low."}`}, MockTTS{})
	installReport(t, s, "Flood risk is Very Low.")

	reply, err := s.Ask(context.Background(), " What is the flood risk? ")
	require.NoError(t, err)
	assert.Equal(t, models.ChatRoleBot, reply.Role)
	assert.Equal(t, "Very Low.", reply.Text)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, models.ChatRoleUser, history[0].Role)
	assert.Equal(t, "What is the flood risk?", history[0].Text)
	assert.NotEmpty(t, history[0].ID)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestSessionAskBackendErrorAppendsApology(t *testing.T) {
	s, _ := newTestSession(t, &stubBackend{err: errBoom}, MockTTS{})
	installReport(t, s, "summary")

	reply, err := s.Ask(context.Background(), "Anything?")
	assert.ErrorIs(t, err, errBoom)
	require.NotNil(t, reply)
	assert.Equal(t, ChatErrorMessage, reply.Text)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, ChatErrorMessage, history[1].Text)
}

func TestSessionAskValidation(t *testing.T) {
	s, _ := newTestSession(t, &stubBackend{}, MockTTS{})

	_, err := s.Ask(context.Background(), "Anything?")
	assert.ErrorIs(t, err, ErrNoReport)

	installReport(t, s, "summary")
	_, err = s.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, s.History())
}

func TestSessionDropsReplyForReplacedSummary(t *testing.T) {
	backend := &stubBackend{reply: `{"botResponse":"late"}`, gate: make(chan struct{})}
	s, _ := newTestSession(t, backend, MockTTS{})
	installReport(t, s, "first summary")

	done := make(chan error, 1)
	go func() {
		_, err := s.Ask(context.Background(), "Question?")
		done <- err
	}()

	require.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return len(backend.requests) == 1
	}, time.Second, time.Millisecond)

	installReport(t, s, "second summary")
	close(backend.gate)

	assert.ErrorIs(t, <-done, ErrStaleGeneration)
	assert.Empty(t, s.History())
}

func TestSessionPodcastCache(t *testing.T) {
	tts := &countingTTS{}
	s, _ := newTestSession(t, &stubBackend{}, tts)

	_, _, err := s.Podcast(context.Background())
	assert.ErrorIs(t, err, ErrNoReport)

	installReport(t, s, "summary")
	audio, cached, err := s.Podcast(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, SilentWAVDataURI, audio.AudioDataURI)

	_, cached, err = s.Podcast(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, tts.Count())

	s.ClearPodcast()
	_, cached, err = s.Podcast(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, tts.Count())

	installReport(t, s, "new summary")
	_, cached, err = s.Podcast(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, tts.Count())
}

func TestSessionPodcastFailureIsNotCached(t *testing.T) {
	tts := &countingTTS{err: errBoom}
	s, _ := newTestSession(t, &stubBackend{}, tts)
	installReport(t, s, "summary")

	_, _, err := s.Podcast(context.Background())
	assert.ErrorIs(t, err, errBoom)

	tts.mu.Lock()
	tts.err = nil
	tts.mu.Unlock()
	_, cached, err := s.Podcast(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestSessionReadAloudStopsOnNewReport(t *testing.T) {
	s, engine := newTestSession(t, &stubBackend{}, MockTTS{})

	_, err := s.ToggleReadAloud(context.Background())
	assert.ErrorIs(t, err, ErrNoReport)

	installReport(t, s, "summary")
	state, err := s.ToggleReadAloud(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NarrationSpeaking, state)

	installReport(t, s, "new summary")
	assert.Equal(t, NarrationIdle, s.Narrator().State())
	assert.Equal(t, []string{"cancel", "speak", "cancel"}, engine.Calls())
}

func TestSessionReadAloudNeverNarratesReplacedSummary(t *testing.T) {
	s, engine := newTestSession(t, &stubBackend{}, MockTTS{})
	installReport(t, s, "summary 0")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 200; i++ {
			id := s.Begin()
			s.Complete(id, &models.Report{ID: id, Summary: fmt.Sprintf("summary %d", i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 400; i++ {
			_, _ = s.ToggleReadAloud(context.Background())
		}
	}()
	wg.Wait()

	// Installing stops narration, so anything still playing was started
	// from the summary now on display.
	if s.Narrator().State() != NarrationIdle {
		assert.Equal(t, s.Summary(), engine.LastSpoken())
	}

	state, err := s.ToggleReadAloud(context.Background())
	require.NoError(t, err)
	if state == NarrationSpeaking {
		assert.Equal(t, "summary 200", engine.LastSpoken())
	}
}

func TestSessionEndToEndWithLocalBackend(t *testing.T) {
	s, _ := newTestSession(t, llm.NewLocalBackend(), MockTTS{})
	summary, err := NewSummaryGenerator(llm.NewLocalBackend(), s.logger).Generate(context.Background(), mockContext(t))
	require.NoError(t, err)
	installReport(t, s, summary.Summary)

	reply, err := s.Ask(context.Background(), "What is the flood risk?")
	require.NoError(t, err)
	assert.NotEqual(t, RefusalMessage, reply.Text)
	assert.Contains(t, reply.Text, "Very Low")

	reply, err = s.Ask(context.Background(), "Is there a swimming pool?")
	require.NoError(t, err)
	assert.Equal(t, RefusalMessage, reply.Text)
}
