package services

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SpeechEngine is the text-to-speech and speech recognition capability
// behind read-aloud.
type SpeechEngine interface {
	Speak(ctx context.Context, text string) error
	Pause() error
	Resume() error
	Cancel() error
	StartListening(ctx context.Context) error
	StopListening() error
}

type NarrationState string

const (
	NarrationIdle     NarrationState = "idle"
	NarrationSpeaking NarrationState = "speaking"
	NarrationPaused   NarrationState = "paused"
)

// Narrator drives a SpeechEngine through idle -> speaking <-> paused -> idle.
type Narrator struct {
	mu        sync.Mutex
	engine    SpeechEngine
	state     NarrationState
	listening bool
	logger    *zap.Logger
}

func NewNarrator(engine SpeechEngine, logger *zap.Logger) *Narrator {
	return &Narrator{engine: engine, state: NarrationIdle, logger: logger}
}

func (n *Narrator) State() NarrationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Narrator) Listening() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.listening
}

// Toggle starts reading text when idle, pauses while speaking and resumes
// when paused. Any engine error returns the narrator to idle.
func (n *Narrator) Toggle(ctx context.Context, text string) (NarrationState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	switch n.state {
	case NarrationIdle:
		if text == "" {
			return n.state, ErrNoReport
		}
		// A new read always replaces whatever the engine was doing.
		if err = n.engine.Cancel(); err == nil {
			err = n.engine.Speak(ctx, text)
		}
		if err == nil {
			n.state = NarrationSpeaking
		}
	case NarrationSpeaking:
		if err = n.engine.Pause(); err == nil {
			n.state = NarrationPaused
		}
	case NarrationPaused:
		if err = n.engine.Resume(); err == nil {
			n.state = NarrationSpeaking
		}
	}
	if err != nil {
		n.state = NarrationIdle
		n.logger.Warn("Speech engine error", zap.Error(err))
		return n.state, eris.Wrap(err, "could not read the report aloud")
	}
	return n.state, nil
}

// Stop cancels any utterance.
func (n *Narrator) Stop() NarrationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != NarrationIdle {
		if err := n.engine.Cancel(); err != nil {
			n.logger.Warn("Speech engine cancel failed", zap.Error(err))
		}
	}
	n.state = NarrationIdle
	return n.state
}

// Finished records that the engine reached the end of the utterance.
func (n *Narrator) Finished() NarrationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = NarrationIdle
	return n.state
}

func (n *Narrator) StartListening(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listening {
		return nil
	}
	if err := n.engine.StartListening(ctx); err != nil {
		return eris.Wrap(err, "could not start speech recognition")
	}
	n.listening = true
	return nil
}

func (n *Narrator) StopListening() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.listening {
		return nil
	}
	n.listening = false
	if err := n.engine.StopListening(); err != nil {
		return eris.Wrap(err, "could not stop speech recognition")
	}
	return nil
}

// LogSpeechEngine stands in for an audio device on a headless server and
// records each engine call in the log.
type LogSpeechEngine struct {
	Logger *zap.Logger
}

func (e LogSpeechEngine) Speak(_ context.Context, text string) error {
	e.Logger.Info("speech: speak", zap.Int("chars", len(text)))
	return nil
}

func (e LogSpeechEngine) Pause() error {
	e.Logger.Info("speech: pause")
	return nil
}

func (e LogSpeechEngine) Resume() error {
	e.Logger.Info("speech: resume")
	return nil
}

func (e LogSpeechEngine) Cancel() error {
	e.Logger.Debug("speech: cancel")
	return nil
}

func (e LogSpeechEngine) StartListening(context.Context) error {
	e.Logger.Info("speech: listening started")
	return nil
}

func (e LogSpeechEngine) StopListening() error {
	e.Logger.Info("speech: listening stopped")
	return nil
}
