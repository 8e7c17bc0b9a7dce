package settings

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/BrowserOS/internal/models"
)

// MockOverride is a partial provider description supplied by a developer.
// Zero-valued fields fall back to the built-in provider's values.
type MockOverride struct {
	Name         string
	Type         models.ProviderType
	BaseURL      string
	APIKey       string
	ModelID      string
	Capabilities *models.ProviderCapabilities
	ModelConfig  *models.ModelConfig
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int64) *models.FlexInt64 {
	f := models.FlexInt64(v)
	return &f
}

func floatPtr(v float64) *models.FlexFloat64 {
	f := models.FlexFloat64(v)
	return &f
}

// mockCatalog returns one representative provider per type, used when a
// developer selects a mock by type hint instead of supplying an override.
func mockCatalog() map[models.ProviderType]models.Provider {
	now := time.Now().UTC()
	entry := func(t models.ProviderType, name, baseURL, modelID string, images bool, contextWindow int64) models.Provider {
		return models.Provider{
			ID:        "mock-" + string(t),
			Name:      name,
			Type:      t,
			IsDefault: true,
			APIKey:    "mock-api-key",
			BaseURL:   baseURL,
			ModelID:   modelID,
			Capabilities: &models.ProviderCapabilities{
				SupportsImages: boolPtr(images),
			},
			ModelConfig: &models.ModelConfig{
				ContextWindow: intPtr(contextWindow),
				Temperature:   floatPtr(0.7),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	return map[models.ProviderType]models.Provider{
		models.ProviderTypeBuiltIn: BuiltInProvider(),
		models.ProviderTypeOpenAI: entry(models.ProviderTypeOpenAI,
			"Mock OpenAI", "https://api.openai.com/v1", "gpt-4o", true, 128000),
		models.ProviderTypeOpenAICompatible: entry(models.ProviderTypeOpenAICompatible,
			"Mock OpenAI Compatible", "http://localhost:8000/v1", "local-model", false, 32000),
		models.ProviderTypeAnthropic: entry(models.ProviderTypeAnthropic,
			"Mock Anthropic", "https://api.anthropic.com", "claude-sonnet-4-20250514", true, 200000),
		models.ProviderTypeGoogleGemini: entry(models.ProviderTypeGoogleGemini,
			"Mock Gemini", "https://generativelanguage.googleapis.com", "gemini-2.0-flash", true, 1000000),
		models.ProviderTypeOllama: entry(models.ProviderTypeOllama,
			"Mock Ollama", "http://localhost:11434", "llama3.1", false, 8192),
		models.ProviderTypeOpenRouter: entry(models.ProviderTypeOpenRouter,
			"Mock OpenRouter", "https://openrouter.ai/api/v1", "openrouter/auto", true, 128000),
		models.ProviderTypeCustom: entry(models.ProviderTypeCustom,
			"Mock Custom", "http://localhost:9000", "custom-model", false, 16000),
	}
}

// mergeOverride builds a provider from a partial override layered over the
// built-in defaults. Unspecified fields keep the built-in values.
func mergeOverride(override MockOverride) models.Provider {
	p := BuiltInProvider()
	p.ID = "mock-" + uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if override.Name != "" {
		p.Name = override.Name
	}
	if override.Type != "" {
		p.Type = override.Type
		p.IsBuiltIn = override.Type == models.ProviderTypeBuiltIn
	}
	if override.BaseURL != "" {
		p.BaseURL = override.BaseURL
	}
	if override.APIKey != "" {
		p.APIKey = override.APIKey
	}
	if override.ModelID != "" {
		p.ModelID = override.ModelID
	}
	if override.Capabilities != nil {
		caps := *override.Capabilities
		p.Capabilities = &caps
	}
	if override.ModelConfig != nil {
		mc := *override.ModelConfig
		p.ModelConfig = &mc
	}
	return p
}
