package services

import (
	"context"
	"testing"
	"time"

	"propertyinsights/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedTTS string

func (f fixedTTS) Synthesize(context.Context, string) (string, error) { return string(f), nil }

func TestMockTTS(t *testing.T) {
	uri, err := MockTTS{}.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, SilentWAVDataURI, uri)

	started := time.Now()
	uri, err = MockTTS{Delay: 10 * time.Millisecond}.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, SilentWAVDataURI, uri)
	assert.GreaterOrEqual(t, time.Since(started), 10*time.Millisecond)
}

func TestMockTTSHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MockTTS{Delay: time.Hour}.Synthesize(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPodcastServiceConvert(t *testing.T) {
	svc := NewPodcastService(MockTTS{}, zap.NewNop())

	out, err := svc.Convert(context.Background(), models.PodcastAudioRequest{Text: "summary"})
	require.NoError(t, err)
	assert.Equal(t, SilentWAVDataURI, out.AudioDataURI)

	_, err = svc.Convert(context.Background(), models.PodcastAudioRequest{Text: " "})
	assert.ErrorIs(t, err, ErrNoReport)
}

func TestPodcastServiceRejectsNonAudioURI(t *testing.T) {
	svc := NewPodcastService(fixedTTS("data:text/plain;base64,aGk="), zap.NewNop())
	_, err := svc.Convert(context.Background(), models.PodcastAudioRequest{Text: "summary"})
	assert.Error(t, err)

	svc = NewPodcastService(fixedTTS("data:audio/mp3;base64,AAAA"), zap.NewNop())
	out, err := svc.Convert(context.Background(), models.PodcastAudioRequest{Text: "summary"})
	require.NoError(t, err)
	assert.Equal(t, "data:audio/mp3;base64,AAAA", out.AudioDataURI)
}
