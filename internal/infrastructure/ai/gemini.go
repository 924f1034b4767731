package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/doeshing/scrnstr/internal/domain"
)

// GeminiClassifier sends the capture and the instruction prompt to Gemini.
type GeminiClassifier struct {
	client *genai.Client
	model  string
	prompt string
}

// NewGeminiClassifier creates a Gemini-backed classifier. The API key is
// read from model.AuthEnvVar, falling back to GEMINI_API_KEY.
func NewGeminiClassifier(ctx context.Context, model domain.ModelDefinition, prompt string) (*GeminiClassifier, error) {
	apiKey := getAPIKey(model, domain.DefaultGeminiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s", valueOr(model.AuthEnvVar, domain.DefaultGeminiKeyEnv))
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClassifier{
		client: client,
		model:  valueOr(model.ModelID, domain.DefaultGeminiModel),
		prompt: prompt,
	}, nil
}

func (g *GeminiClassifier) Name() string {
	return "gemini:" + g.model
}

func (g *GeminiClassifier) Classify(ctx context.Context, in domain.ClassificationInput) (domain.ClassificationResult, error) {
	var parts []*genai.Part
	if in.IsImage() {
		mimeType := valueOr(in.MIMEType, "image/png")
		parts = append(parts, genai.NewPartFromBytes(in.Image, mimeType), genai.NewPartFromText(g.prompt))
	} else {
		parts = append(parts, genai.NewPartFromText(textInstruction(g.prompt, in.Text)))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: gemini request: %v", domain.ErrClassification, err)
	}
	text := resp.Text()
	if text == "" {
		return domain.ClassificationResult{}, fmt.Errorf("%w: empty gemini response", domain.ErrClassification)
	}
	return ParseClassification(text)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
