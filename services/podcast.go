package services

import (
	"context"
	"strings"
	"time"

	"propertyinsights/models"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SilentWAVDataURI is the empty WAV clip produced by MockTTS.
const SilentWAVDataURI = "data:audio/wav;base64,UklGRiQAAABXQVZFZm10IBAAAAABAAEARKwAAIhYAQACABAAZGF0YQAAAAA="

// TextToSpeech converts text into a data:audio/<mime>;base64,<data> URI.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// MockTTS waits Delay and returns a silent clip.
type MockTTS struct {
	Delay time.Duration
}

func (m MockTTS) Synthesize(ctx context.Context, text string) (string, error) {
	if m.Delay <= 0 {
		return SilentWAVDataURI, nil
	}
	timer := time.NewTimer(m.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return SilentWAVDataURI, nil
	}
}

type PodcastService struct {
	tts    TextToSpeech
	logger *zap.Logger
}

func NewPodcastService(tts TextToSpeech, logger *zap.Logger) *PodcastService {
	return &PodcastService{tts: tts, logger: logger}
}

// Convert synthesises the text and checks the result is an audio data URI.
func (p *PodcastService) Convert(ctx context.Context, req models.PodcastAudioRequest) (*models.PodcastAudioResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrNoReport
	}
	started := time.Now()
	uri, err := p.tts.Synthesize(ctx, req.Text)
	if err != nil {
		return nil, eris.Wrap(err, "podcast synthesis failed")
	}
	if !strings.HasPrefix(uri, "data:audio/") || !strings.Contains(uri, ";base64,") {
		return nil, eris.Errorf("podcast synthesis returned an unexpected URI prefix %.24q", uri)
	}
	p.logger.Info("Podcast audio generated", zap.Duration("took", time.Since(started)), zap.Int("uri_chars", len(uri)))
	return &models.PodcastAudioResponse{AudioDataURI: uri}, nil
}
