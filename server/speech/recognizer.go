// Package speech wraps the speech-to-text and text-to-speech collaborators.
// Both are single blocking calls to an external OpenAI-compatible service;
// their failures are surfaced as non-fatal notices and never abort a session.
package speech

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/rayahq/raya/internal/profile"
)

const requestTimeout = 30 * time.Second

// Recognizer converts captured audio into text.
type Recognizer struct {
	client *openai.Client
	model  string
}

// NewRecognizer creates a speech recognizer from the server profile.
func NewRecognizer(p *profile.Profile) *Recognizer {
	clientConfig := openai.DefaultConfig(p.AIAPIKey)
	if p.AIBaseURL != "" {
		clientConfig.BaseURL = p.AIBaseURL
	}
	return &Recognizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  p.SpeechRecognitionModel,
	}
}

// Recognize transcribes the audio stream. The filename hints the container
// format to the service (e.g. "speech.webm"). An empty transcript is a
// no-match, not an error.
func (r *Recognizer) Recognize(ctx context.Context, audio io.Reader, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := r.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    r.model,
		Reader:   audio,
		FilePath: filename,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to transcribe audio")
	}
	return resp.Text, nil
}
