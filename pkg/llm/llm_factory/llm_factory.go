package llm_factory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ionut-t/nlsql/internal/config"
	"github.com/ionut-t/nlsql/pkg/llm"
	"github.com/ionut-t/nlsql/pkg/llm/genai"
	"github.com/ionut-t/nlsql/pkg/llm/ollama"
)

var (
	ErrInvalidProvider    = errors.New("unsupported LLM provider")
	ErrMissingCredentials = errors.New("missing provider credentials")
)

// providerCredentials holds the environment variable values for the hosted providers
type providerCredentials struct {
	geminiAPIKey      string
	vertexAIProjectID string
	vertexAILocation  string
}

func loadCredentials() *providerCredentials {
	return &providerCredentials{
		geminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		vertexAIProjectID: os.Getenv("VERTEXAI_PROJECT_ID"),
		vertexAILocation:  os.Getenv("VERTEXAI_LOCATION"),
	}
}

// validateProvider checks if credentials exist for the specified provider
func (c *providerCredentials) validateProvider(provider string) error {
	switch provider {
	case "ollama":
	case "gemini":
		if c.geminiAPIKey == "" {
			return fmt.Errorf("%w for Gemini: GEMINI_API_KEY not set", ErrMissingCredentials)
		}
	case "vertexai":
		missing := []string{}
		if c.vertexAIProjectID == "" {
			missing = append(missing, "VERTEXAI_PROJECT_ID")
		}
		if c.vertexAILocation == "" {
			missing = append(missing, "VERTEXAI_LOCATION")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w for Vertex AI: %s not set", ErrMissingCredentials, strings.Join(missing, " and "))
		}
	default:
		return fmt.Errorf("%w: %s (supported: ollama, gemini, vertexai)", ErrInvalidProvider, provider)
	}

	return nil
}

// New builds the generator selected by cfg. Ollama is the default.
func New(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = "ollama"
	}

	creds := loadCredentials()
	if err := creds.validateProvider(provider); err != nil {
		return nil, err
	}

	switch provider {
	case "gemini":
		return genai.NewGemini(ctx, creds.geminiAPIKey, cfg.Options())
	case "vertexai":
		return genai.NewVertexAI(ctx, creds.vertexAIProjectID, creds.vertexAILocation, cfg.Options())
	default:
		return ollama.New(ollama.BaseURL(cfg.OllamaHost, cfg.OllamaPort), cfg.Options())
	}
}
