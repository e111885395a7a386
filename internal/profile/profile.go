package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where raya stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// AI configuration. The same OpenAI-compatible endpoint serves chat
	// completion, speech recognition and speech synthesis.
	AIAPIKey    string // RAYA_AI_API_KEY
	AIBaseURL   string // RAYA_AI_BASE_URL (default: https://api.openai.com/v1)
	AIChatModel string // RAYA_AI_CHAT_MODEL (default: gpt-4o-mini)

	// Speech configuration
	SpeechRecognitionModel string // RAYA_SPEECH_RECOGNITION_MODEL (default: whisper-1)
	SpeechSynthesisModel   string // RAYA_SPEECH_SYNTHESIS_MODEL (default: tts-1)
	SpeechSynthesisVoice   string // RAYA_SPEECH_SYNTHESIS_VOICE (default: alloy)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads the AI and speech configuration from environment variables.
func (p *Profile) FromEnv() {
	p.AIAPIKey = os.Getenv("RAYA_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("RAYA_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIChatModel = getEnvOrDefault("RAYA_AI_CHAT_MODEL", "gpt-4o-mini")
	p.SpeechRecognitionModel = getEnvOrDefault("RAYA_SPEECH_RECOGNITION_MODEL", "whisper-1")
	p.SpeechSynthesisModel = getEnvOrDefault("RAYA_SPEECH_SYNTHESIS_MODEL", "tts-1")
	p.SpeechSynthesisVoice = getEnvOrDefault("RAYA_SPEECH_SYNTHESIS_VOICE", "alloy")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("raya_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	return nil
}
