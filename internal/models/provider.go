package models

import (
	"time"
)

// ProviderType enumerates supported provider types.
type ProviderType string

const (
	ProviderTypeBuiltIn          ProviderType = "builtin"
	ProviderTypeOpenAI           ProviderType = "openai"
	ProviderTypeOpenAICompatible ProviderType = "openai_compatible"
	ProviderTypeAnthropic        ProviderType = "anthropic"
	ProviderTypeGoogleGemini     ProviderType = "google_gemini"
	ProviderTypeOllama           ProviderType = "ollama"
	ProviderTypeOpenRouter       ProviderType = "openrouter"
	ProviderTypeCustom           ProviderType = "custom"
)

// KnownProviderTypes returns every member of the ProviderType enumeration.
func KnownProviderTypes() []ProviderType {
	return []ProviderType{
		ProviderTypeBuiltIn,
		ProviderTypeOpenAI,
		ProviderTypeOpenAICompatible,
		ProviderTypeAnthropic,
		ProviderTypeGoogleGemini,
		ProviderTypeOllama,
		ProviderTypeOpenRouter,
		ProviderTypeCustom,
	}
}

// IsValid reports whether t is a member of the closed enumeration.
func (t ProviderType) IsValid() bool {
	for _, known := range KnownProviderTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ProviderCapabilities describes optional provider feature flags.
// A nil flag means the capability is unknown.
type ProviderCapabilities struct {
	SupportsImages *bool `json:"supportsImages,omitempty"`
}

// ModelConfig holds optional per-provider model tuning. Both fields accept
// either a JSON number or a textual numeral (values edited through UI
// controls arrive as strings).
type ModelConfig struct {
	ContextWindow *FlexInt64   `json:"contextWindow,omitempty"`
	Temperature   *FlexFloat64 `json:"temperature,omitempty"`
}

// Provider is one configured AI provider instance.
type Provider struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Type         ProviderType          `json:"type"`
	IsDefault    bool                  `json:"isDefault"`
	IsBuiltIn    bool                  `json:"isBuiltIn"`
	BaseURL      string                `json:"baseUrl,omitempty"`
	APIKey       string                `json:"apiKey,omitempty"`
	ModelID      string                `json:"modelId,omitempty"`
	Capabilities *ProviderCapabilities `json:"capabilities,omitempty"`
	ModelConfig  *ModelConfig          `json:"modelConfig,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// Clone returns a deep copy of the provider.
func (p Provider) Clone() Provider {
	out := p
	if p.Capabilities != nil {
		caps := *p.Capabilities
		if p.Capabilities.SupportsImages != nil {
			v := *p.Capabilities.SupportsImages
			caps.SupportsImages = &v
		}
		out.Capabilities = &caps
	}
	if p.ModelConfig != nil {
		mc := *p.ModelConfig
		if p.ModelConfig.ContextWindow != nil {
			v := *p.ModelConfig.ContextWindow
			mc.ContextWindow = &v
		}
		if p.ModelConfig.Temperature != nil {
			v := *p.ModelConfig.Temperature
			mc.Temperature = &v
		}
		out.ModelConfig = &mc
	}
	return out
}

// ProvidersConfig is the aggregate persisted configuration: an ordered
// provider collection plus the id of the default provider. Order is display
// order only.
type ProvidersConfig struct {
	DefaultProviderID string     `json:"defaultProviderId"`
	Providers         []Provider `json:"providers"`
}

// FindProvider returns the provider with the given id, if present.
func (c *ProvidersConfig) FindProvider(id string) (*Provider, bool) {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i], true
		}
	}
	return nil, false
}

// NormalizeDefaults recomputes every isDefault flag from DefaultProviderID,
// overwriting whatever was persisted. With a dangling DefaultProviderID the
// result is a collection with no default marked.
func (c *ProvidersConfig) NormalizeDefaults() {
	for i := range c.Providers {
		c.Providers[i].IsDefault = c.Providers[i].ID == c.DefaultProviderID
	}
}

// DefaultProvider returns the provider referenced by DefaultProviderID.
func (c *ProvidersConfig) DefaultProvider() (*Provider, bool) {
	return c.FindProvider(c.DefaultProviderID)
}

// Clone returns a deep copy of the configuration.
func (c *ProvidersConfig) Clone() *ProvidersConfig {
	out := &ProvidersConfig{
		DefaultProviderID: c.DefaultProviderID,
		Providers:         make([]Provider, len(c.Providers)),
	}
	for i := range c.Providers {
		out.Providers[i] = c.Providers[i].Clone()
	}
	return out
}
