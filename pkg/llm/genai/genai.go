package genai

import (
	"context"
	"errors"
	"fmt"

	"github.com/ionut-t/nlsql/pkg/llm"
	"google.golang.org/genai"
)

// GenAI generates queries through the Gemini API or Vertex AI. System
// messages become the system instruction; the remaining messages are sent
// as conversation contents.
type GenAI struct {
	Client       *genai.Client
	Options      llm.Options
	ProviderName string
}

var _ llm.Generator = (*GenAI)(nil)

func NewGemini(ctx context.Context, apiKey string, opts llm.Options) (*GenAI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GenAI{Client: client, Options: opts, ProviderName: "Gemini"}, nil
}

func NewVertexAI(ctx context.Context, projectID, location string, opts llm.Options) (*GenAI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &GenAI{Client: client, Options: opts, ProviderName: "Vertex AI"}, nil
}

func (g *GenAI) Model() string {
	return g.Options.Model
}

func (g *GenAI) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	if g.Options.Model == "" {
		return "", llm.Errorf(llm.StageGenerating, "no %s model specified", g.ProviderName)
	}

	if len(messages) == 0 {
		return "", llm.NewGenerationError(llm.StageGenerating, llm.ErrEmptyPrompt)
	}

	system, contents := split(messages)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(g.Options.Temperature)),
	}
	if system != nil {
		config.SystemInstruction = system
	}

	result, err := g.Client.Models.GenerateContent(ctx, g.Options.Model, contents, config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", llm.NewGenerationError(llm.StageGenerating, errors.New(apiErr.Message))
		}

		return "", llm.NewGenerationError(llm.StageGenerating, err)
	}

	if result == nil {
		return "", llm.Errorf(llm.StageGenerating, "received nil response from %s", g.ProviderName)
	}

	return result.Text(), nil
}

func split(messages []llm.Message) (*genai.Content, []*genai.Content) {
	var parts []*genai.Part
	contents := make([]*genai.Content, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			parts = append(parts, genai.NewPartFromText(m.Content))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	if len(parts) == 0 {
		return nil, contents
	}

	return &genai.Content{Parts: parts}, contents
}
