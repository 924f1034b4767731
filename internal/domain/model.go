package domain

// Classifier backends.
const (
	BackendGemini = "gemini"
	BackendHTTP   = "http"
)

// ModelDefinition describes the model endpoint used for classification.
// Backend "gemini" only needs ModelID and AuthEnvVar; backend "http" talks
// to any chat-completions style endpoint shaped by APIFormat.
type ModelDefinition struct {
	Name       string    `yaml:"name"`
	Endpoint   string    `yaml:"endpoint,omitempty"`
	AuthEnvVar string    `yaml:"auth_env_var"`
	ModelID    string    `yaml:"model_id"`
	MaxTokens  int       `yaml:"max_tokens,omitempty"`
	APIFormat  APIFormat `yaml:"api_format,omitempty"`
}

// APIFormat shapes requests and responses for the http backend. All fields
// are optional; zero values select the OpenAI-compatible format.
type APIFormat struct {
	AuthHeaderName   string            `yaml:"auth_header_name,omitempty"`
	AuthHeaderPrefix string            `yaml:"auth_header_prefix,omitempty"`
	ResponseJSONPath string            `yaml:"response_json_path,omitempty"`
	ExtraHeaders     map[string]string `yaml:"extra_headers,omitempty"`
}

const (
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "
	DefaultResponsePath     = "choices[0].message.content"
)

// GetAuthHeaderName returns the authentication header name with default fallback.
func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return f.AuthHeaderName
}

// GetAuthHeaderPrefix returns the header prefix. A custom header name with no
// prefix means the key is sent bare.
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderName != "" && f.AuthHeaderPrefix == "" {
		return ""
	}
	if f.AuthHeaderPrefix == "" {
		return DefaultAuthHeaderPrefix
	}
	return f.AuthHeaderPrefix
}

// GetResponseJSONPath returns where the generated text lives in the response.
func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath == "" {
		return DefaultResponsePath
	}
	return f.ResponseJSONPath
}
