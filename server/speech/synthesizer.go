package speech

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/semaphore"

	"github.com/rayahq/raya/internal/profile"
)

// Synthesizer converts reply text into playable audio.
type Synthesizer struct {
	client *openai.Client
	model  string
	voice  string

	// sem limits concurrent synthesis requests to keep memory bounded when
	// several replies are spoken back to back.
	sem *semaphore.Weighted
}

// NewSynthesizer creates a speech synthesizer from the server profile.
func NewSynthesizer(p *profile.Profile) *Synthesizer {
	clientConfig := openai.DefaultConfig(p.AIAPIKey)
	if p.AIBaseURL != "" {
		clientConfig.BaseURL = p.AIBaseURL
	}
	return &Synthesizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  p.SpeechSynthesisModel,
		voice:  p.SpeechSynthesisVoice,
		sem:    semaphore.NewWeighted(2),
	}
}

// Synthesize renders the text as MP3 audio held in memory.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "failed to acquire synthesis slot")
	}
	defer s.sem.Release(1)

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to synthesize speech")
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read synthesized audio")
	}
	return audio, nil
}
