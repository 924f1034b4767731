package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// httpClassifier is a configuration-driven chat-completions classifier.
// Provider differences live in the model's APIFormat.
type httpClassifier struct {
	model      domain.ModelDefinition
	prompt     string
	httpClient *http.Client
}

func newHTTPClassifier(model domain.ModelDefinition, prompt string, client *http.Client) ports.Classifier {
	return &httpClassifier{
		model:      model,
		prompt:     prompt,
		httpClient: client,
	}
}

func (p *httpClassifier) Name() string {
	return "http:" + valueOr(p.model.Name, p.model.ModelID)
}

func (p *httpClassifier) Classify(ctx context.Context, in domain.ClassificationInput) (domain.ClassificationResult, error) {
	requestBody, err := p.buildRequestBody(in)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: build request: %v", domain.ErrClassification, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.model.Endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: create HTTP request: %v", domain.ErrClassification, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if err := p.setAuthHeaders(httpReq); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %v", domain.ErrClassification, err)
	}
	for key, value := range p.model.APIFormat.ExtraHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: HTTP request failed: %v", domain.ErrClassification, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return domain.ClassificationResult{}, fmt.Errorf("%w: HTTP %d: %s", domain.ErrClassification, resp.StatusCode, resp.Status)
	}

	body, err := readBody(resp)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: read response body: %v", domain.ErrClassification, err)
	}

	content, err := p.parseResponse(body)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: parse response: %v", domain.ErrClassification, err)
	}
	return ParseClassification(content)
}

// buildRequestBody sends one user message: image parts as a data URL
// followed by the instruction, or the instruction with the text appended.
func (p *httpClassifier) buildRequestBody(in domain.ClassificationInput) ([]byte, error) {
	var content interface{}
	if in.IsImage() {
		mimeType := valueOr(in.MIMEType, "image/png")
		dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(in.Image)
		content = []map[string]interface{}{
			{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
			{"type": "text", "text": p.prompt},
		}
	} else {
		content = textInstruction(p.prompt, in.Text)
	}

	request := map[string]interface{}{
		"model": p.model.ModelID,
		"messages": []map[string]interface{}{
			{"role": "user", "content": content},
		},
	}
	if p.model.MaxTokens > 0 {
		request["max_tokens"] = p.model.MaxTokens
	}
	return json.Marshal(request)
}

// setAuthHeaders configures authentication based on the model's APIFormat.
// Endpoints without AuthEnvVar (local servers) are called unauthenticated.
func (p *httpClassifier) setAuthHeaders(req *http.Request) error {
	if p.model.AuthEnvVar == "" {
		return nil
	}
	apiKey := getAPIKey(p.model, "")
	if apiKey == "" {
		return fmt.Errorf("missing API key: set %s environment variable", p.model.AuthEnvVar)
	}
	format := p.model.APIFormat
	req.Header.Set(format.GetAuthHeaderName(), format.GetAuthHeaderPrefix()+apiKey)
	return nil
}

// parseResponse extracts the generated text using the configured JSON path.
func (p *httpClassifier) parseResponse(body []byte) (string, error) {
	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshal JSON: %w", err)
	}

	path := p.model.APIFormat.GetResponseJSONPath()
	content, err := extractJSONPath(response, path)
	if err != nil {
		return "", fmt.Errorf("extract from path '%s': %w", path, err)
	}
	return strings.TrimSpace(content), nil
}

// extractJSONPath extracts a string value from a nested JSON structure.
// Supported paths: "field", "field.nested", "field[0]", "field[0].nested.field"
func extractJSONPath(data map[string]interface{}, path string) (string, error) {
	var current interface{} = data

	for _, part := range parseJSONPath(path) {
		switch part.kind {
		case "field":
			obj, ok := current.(map[string]interface{})
			if !ok {
				return "", fmt.Errorf("expected object at '%s'", part.value)
			}
			var found bool
			current, found = obj[part.value]
			if !found {
				return "", fmt.Errorf("field '%s' not found", part.value)
			}
		case "index":
			arr, ok := current.([]interface{})
			if !ok {
				return "", fmt.Errorf("expected array at index %s", part.value)
			}
			var idx int
			if _, err := fmt.Sscanf(part.value, "%d", &idx); err != nil {
				return "", fmt.Errorf("invalid index %q", part.value)
			}
			if idx < 0 || idx >= len(arr) {
				return "", fmt.Errorf("index %d out of bounds (len=%d)", idx, len(arr))
			}
			current = arr[idx]
		}
	}

	if str, ok := current.(string); ok {
		return str, nil
	}
	return "", fmt.Errorf("final value is not a string: %T", current)
}

type pathPart struct {
	kind  string // "field" or "index"
	value string
}

// parseJSONPath converts "choices[0].message.content" into path parts.
func parseJSONPath(path string) []pathPart {
	var parts []pathPart
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, pathPart{kind: "field", value: current.String()})
			current.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		switch ch := path[i]; ch {
		case '.':
			flush()
		case '[':
			flush()
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				parts = append(parts, pathPart{kind: "index", value: path[i+1 : j]})
				i = j
			}
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return parts
}
