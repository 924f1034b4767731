// Package ai provides the classifier backends and the shared response
// contract.
//
// Two backends are supported:
//   - gemini: the multimodal Gemini API through google.golang.org/genai
//   - http: any chat-completions style endpoint shaped by the model's
//     APIFormat configuration (image sent as a data URL)
//
// Both backends send the same instruction prompt and parse the reply with
// ParseClassification.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// ====================================================================================
// Factory
// ====================================================================================

// Factory creates classifiers from configuration. It keeps one HTTP client
// shared by every classifier it builds.
type Factory struct {
	httpClient *http.Client
}

// NewFactory creates a factory with a configured HTTP client.
func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
}

// ForSettings builds the classifier selected by settings.Backend.
func (f *Factory) ForSettings(ctx context.Context, settings domain.ClassifierSettings) (ports.Classifier, error) {
	prompt := strings.TrimSpace(settings.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("classifier prompt is empty")
	}
	switch settings.Backend {
	case domain.BackendGemini, "":
		return NewGeminiClassifier(ctx, settings.Model, prompt)
	case domain.BackendHTTP:
		return newHTTPClassifier(settings.Model, prompt, f.httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported classifier backend: %s", settings.Backend)
	}
}

// ====================================================================================
// Response contract
// ====================================================================================

type rawClassification struct {
	Category        *json.RawMessage `json:"category"`
	Data            json.RawMessage  `json:"data"`
	SuggestedAction *json.RawMessage `json:"suggested_action"`
}

// ParseClassification turns a model reply into a result. A single leading
// ```json or ``` fence and a trailing ``` fence are removed first. category
// is required and must be a string; data must be an object when present;
// suggested_action defaults to "". Every failure wraps
// domain.ErrClassification.
func ParseClassification(reply string) (domain.ClassificationResult, error) {
	cleaned := stripCodeFence(reply)

	var raw rawClassification
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: response is not a JSON object: %v", domain.ErrClassification, err)
	}
	if raw.Category == nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: missing category", domain.ErrClassification)
	}
	var category string
	if err := json.Unmarshal(*raw.Category, &category); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: category is not a string", domain.ErrClassification)
	}

	fields := domain.NewFields()
	if len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, &fields); err != nil {
			return domain.ClassificationResult{}, fmt.Errorf("%w: data: %v", domain.ErrClassification, err)
		}
	}

	var suggested string
	if raw.SuggestedAction != nil && string(*raw.SuggestedAction) != "null" {
		if err := json.Unmarshal(*raw.SuggestedAction, &suggested); err != nil {
			return domain.ClassificationResult{}, fmt.Errorf("%w: suggested_action is not a string", domain.ErrClassification)
		}
	}

	return domain.ClassificationResult{
		Category:        category,
		Fields:          fields,
		SuggestedAction: suggested,
	}, nil
}

// stripCodeFence removes one markdown fence around the reply.
func stripCodeFence(reply string) string {
	cleaned := strings.TrimSpace(reply)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// textInstruction wraps free text so the image prompt applies to it.
func textInstruction(prompt, text string) string {
	return fmt.Sprintf("%s\n\nThe content to classify is the following text instead of a screenshot:\n%s", prompt, text)
}

// getAPIKey retrieves the API key from the configured environment variable.
func getAPIKey(model domain.ModelDefinition, fallbackEnv string) string {
	for _, name := range []string{model.AuthEnvVar, fallbackEnv} {
		if name == "" {
			continue
		}
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
