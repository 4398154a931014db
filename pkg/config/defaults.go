package config

const (
	defaultListen    = ":3000"
	defaultProvider  = "openai"
	defaultModel     = "gpt-3.5-turbo"
	defaultRAGTarget = "http://127.0.0.1:8000"

	defaultOpenAIBaseURL     = "https://api.openai.com/v1"
	defaultAzureAPIVersion   = "2024-02-15-preview"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterSiteURL = "http://localhost"
	defaultOpenRouterAppName = "AI Chat Emotion Web"

	defaultClientTarget = "http://localhost:3000"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	mcp := true
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultListen,
			MCP:    &mcp,
		},
		Chat: ChatConfig{
			Provider: defaultProvider,
			Model:    defaultModel,
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				BaseURL: defaultOpenAIBaseURL,
			},
			Azure: AzureConfig{
				APIVersion: defaultAzureAPIVersion,
			},
			OpenRouter: OpenRouterConfig{
				BaseURL: defaultOpenRouterBaseURL,
				SiteURL: defaultOpenRouterSiteURL,
				AppName: defaultOpenRouterAppName,
			},
		},
		RAG: RAGConfig{
			Target: defaultRAGTarget,
		},
		Client: ClientConfig{
			Target: defaultClientTarget,
		},
	}
}
