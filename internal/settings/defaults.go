package settings

import (
	"time"

	"github.com/mandalnilabja/BrowserOS/internal/models"
)

// BuiltInProviderID is the stable id of the zero-configuration provider.
const BuiltInProviderID = "browseros-builtin"

// BuiltInProvider synthesizes the always-available built-in provider: no
// credentials, no base URL, timestamps set to the moment of synthesis. It is
// the universal fallback and must never fail or touch I/O.
func BuiltInProvider() models.Provider {
	now := time.Now().UTC()
	return models.Provider{
		ID:        BuiltInProviderID,
		Name:      "BrowserOS AI",
		Type:      models.ProviderTypeBuiltIn,
		IsDefault: true,
		IsBuiltIn: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BuiltInConfig wraps the built-in provider in a single-provider
// configuration with defaultProviderId pointing to it.
func BuiltInConfig() *models.ProvidersConfig {
	return &models.ProvidersConfig{
		DefaultProviderID: BuiltInProviderID,
		Providers:         []models.Provider{BuiltInProvider()},
	}
}
