// Package schema validates raw persisted payloads against the provider
// configuration schema. Validation is total and side-effect free: no I/O, no
// mutation of inputs. Numeric coercion (string numerals from UI controls)
// happens during decoding via the models flex types; everything after that is
// type and range checking.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/mandalnilabja/BrowserOS/internal/models"
)

// ValidationError describes why a payload failed schema validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid payload: %s", e.Reason)
	}
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Temperature bounds, inclusive.
const (
	TemperatureMin = 0.0
	TemperatureMax = 2.0
)

// ParseProvider decodes and validates a single provider payload.
func ParseProvider(data []byte) (*models.Provider, error) {
	var p models.Provider
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, invalid("", "not a provider object: %v", err)
	}
	if err := ValidateProvider(&p, ""); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseProvidersConfig decodes and validates a full configuration payload.
func ParseProvidersConfig(data []byte) (*models.ProvidersConfig, error) {
	var cfg models.ProvidersConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, invalid("", "not a providers config object: %v", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateProvider checks a decoded provider. field prefixes error paths when
// the provider is nested in a collection.
func ValidateProvider(p *models.Provider, field string) error {
	path := func(name string) string {
		if field == "" {
			return name
		}
		return field + "." + name
	}

	if p.ID == "" {
		return invalid(path("id"), "must not be empty")
	}
	if p.Name == "" {
		return invalid(path("name"), "must not be empty")
	}
	if !p.Type.IsValid() {
		return invalid(path("type"), "unknown provider type %q", string(p.Type))
	}
	if p.ModelConfig != nil && p.ModelConfig.Temperature != nil {
		temp := p.ModelConfig.Temperature.Float64()
		if temp < TemperatureMin || temp > TemperatureMax {
			return invalid(path("modelConfig.temperature"),
				"%g is outside [%g, %g]", temp, TemperatureMin, TemperatureMax)
		}
	}
	if p.ModelConfig != nil && p.ModelConfig.ContextWindow != nil {
		if p.ModelConfig.ContextWindow.Int64() <= 0 {
			return invalid(path("modelConfig.contextWindow"), "must be positive")
		}
	}
	return nil
}

// ValidateConfig checks a decoded configuration. Duplicate provider ids make
// the whole configuration malformed; a defaultProviderId that references no
// provider is left for the reader to resolve and is not a schema error.
func ValidateConfig(cfg *models.ProvidersConfig) error {
	if cfg.Providers == nil {
		return invalid("providers", "must be present")
	}

	seen := make(map[string]struct{}, len(cfg.Providers))
	builtIns := 0
	for i := range cfg.Providers {
		field := fmt.Sprintf("providers[%d]", i)
		if err := ValidateProvider(&cfg.Providers[i], field); err != nil {
			return err
		}
		id := cfg.Providers[i].ID
		if _, dup := seen[id]; dup {
			return invalid("providers", "duplicate provider id %q", id)
		}
		seen[id] = struct{}{}
		if cfg.Providers[i].IsBuiltIn {
			builtIns++
		}
	}
	if builtIns > 1 {
		return invalid("providers", "%d providers marked built-in, at most one allowed", builtIns)
	}
	return nil
}
