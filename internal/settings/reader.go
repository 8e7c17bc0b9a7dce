// Package settings resolves which AI provider configuration is authoritative
// for this instance. Resolution queries a layered set of possibly-absent
// backing stores, validates whatever they hold, and degrades to well-defined
// fallbacks; the two public read operations never fail.
package settings

import (
	"context"
	"sync"

	"github.com/mandalnilabja/BrowserOS/internal/audit"
	"github.com/mandalnilabja/BrowserOS/internal/crypto"
	"github.com/mandalnilabja/BrowserOS/internal/logging"
	"github.com/mandalnilabja/BrowserOS/internal/models"
	"github.com/mandalnilabja/BrowserOS/internal/schema"
	"github.com/mandalnilabja/BrowserOS/internal/store"
)

// Options configures a Reader.
type Options struct {
	// DevMode enables the mock provider path. It is an explicit switch from
	// configuration, never inferred from missing data.
	DevMode bool

	// MockProviderHint selects a mock catalog entry by provider type when no
	// explicit override has been set. Ignored outside dev mode.
	MockProviderHint string

	// Audit receives a record for every resolution decision. Defaults to the
	// noop sink.
	Audit audit.Sink

	// KeyBox decrypts apiKey values stored encrypted at rest. Optional.
	KeyBox *crypto.KeyBox

	Logger *logging.Logger
}

// Reader orchestrates provider settings resolution.
type Reader struct {
	stores   *store.Layered
	log      *logging.Logger
	audit    audit.Sink
	devMode  bool
	mockHint models.ProviderType
	keys     *crypto.KeyBox

	// Process-wide mock override. Written only by SetMockProvider, read once
	// per resolution, reset only by restart.
	mockMu sync.Mutex
	mock   *models.Provider
}

// NewReader creates a Reader over the given layered sources.
func NewReader(stores *store.Layered, opts Options) *Reader {
	log := opts.Logger
	if log == nil {
		log = logging.New("settings")
	}
	sink := opts.Audit
	if sink == nil {
		sink = audit.NewNoopSink()
	}
	return &Reader{
		stores:   stores,
		log:      log,
		audit:    sink,
		devMode:  opts.DevMode,
		mockHint: models.ProviderType(opts.MockProviderHint),
		keys:     opts.KeyBox,
	}
}

// SetMockProvider installs a process-lifetime mock override, merged over the
// built-in defaults. Outside dev mode the call is a logged no-op; mock data
// must never reach a production path. Reports whether the override was
// applied.
func (r *Reader) SetMockProvider(override MockOverride) bool {
	if !r.devMode {
		r.log.Warn("mock provider ignored: not running in development mode")
		return false
	}

	p := mergeOverride(override)
	r.mockMu.Lock()
	r.mock = &p
	r.mockMu.Unlock()

	r.log.Info("mock provider set", "name", p.Name, "type", string(p.Type))
	return true
}

// ReadDefaultProvider resolves the provider referenced by defaultProviderId.
// Every failure mode degrades to the dev-mode mock (when configured) or the
// built-in provider; the operation never fails.
func (r *Reader) ReadDefaultProvider(ctx context.Context) models.Provider {
	const op = audit.OpReadDefaultProvider

	res, err := r.stores.Read(ctx, store.ProvidersKey)
	if err != nil {
		r.log.Debug("no persisted provider configuration", "error", err)
		return r.fallbackProvider(op, "", "no persisted configuration")
	}

	cfg, verr := schema.ParseProvidersConfig(res.Payload)
	if verr != nil {
		r.log.Warn("persisted provider configuration is malformed",
			"source", res.Source, "error", verr)
		return r.fallbackProvider(op, res.Source, verr.Error())
	}

	p, ok := cfg.DefaultProvider()
	if !ok {
		r.log.Warn("defaultProviderId references no provider",
			"source", res.Source, "defaultProviderId", cfg.DefaultProviderID)
		return r.fallbackProvider(op, res.Source, "defaultProviderId references no provider")
	}

	out := p.Clone()
	out.IsDefault = true
	r.decryptAPIKey(&out)
	r.enqueueAudit(op, res.Source, audit.OutcomeResolved, "")
	return out
}

// ReadAllProviders resolves the full provider configuration. A valid persisted
// configuration comes back with every isDefault flag recomputed from
// defaultProviderId and with the built-in provider synthesized into the
// collection when missing. Any failure yields the single-provider built-in
// configuration; the operation never fails.
func (r *Reader) ReadAllProviders(ctx context.Context) *models.ProvidersConfig {
	const op = audit.OpReadAllProviders

	res, err := r.stores.Read(ctx, store.ProvidersKey)
	if err != nil {
		r.log.Debug("no persisted provider configuration", "error", err)
		r.enqueueAudit(op, "", audit.OutcomeFallbackBuiltIn, "no persisted configuration")
		return BuiltInConfig()
	}

	cfg, verr := schema.ParseProvidersConfig(res.Payload)
	if verr != nil {
		r.log.Warn("persisted provider configuration is malformed",
			"source", res.Source, "error", verr)
		r.enqueueAudit(op, res.Source, audit.OutcomeFallbackBuiltIn, verr.Error())
		return BuiltInConfig()
	}

	if !hasBuiltIn(cfg) {
		builtIn := BuiltInProvider()
		builtIn.IsDefault = false
		cfg.Providers = append(cfg.Providers, builtIn)
	}
	cfg.NormalizeDefaults()
	for i := range cfg.Providers {
		r.decryptAPIKey(&cfg.Providers[i])
	}

	r.enqueueAudit(op, res.Source, audit.OutcomeResolved, "")
	return cfg
}

// fallbackProvider returns the mock when dev mode has one configured,
// otherwise the built-in provider.
func (r *Reader) fallbackProvider(op, source, reason string) models.Provider {
	if r.devMode {
		if mock, ok := r.mockProvider(); ok {
			r.enqueueAudit(op, source, audit.OutcomeFallbackMock, reason)
			return mock
		}
	}
	r.enqueueAudit(op, source, audit.OutcomeFallbackBuiltIn, reason)
	return BuiltInProvider()
}

// mockProvider captures the override atomically, falling back to the catalog
// entry selected by the type hint.
func (r *Reader) mockProvider() (models.Provider, bool) {
	r.mockMu.Lock()
	override := r.mock
	r.mockMu.Unlock()

	if override != nil {
		return override.Clone(), true
	}
	if r.mockHint == "" {
		return models.Provider{}, false
	}
	entry, ok := mockCatalog()[r.mockHint]
	if !ok {
		r.log.Warn("unknown mock provider hint", "hint", string(r.mockHint))
		return models.Provider{}, false
	}
	return entry, true
}

func (r *Reader) decryptAPIKey(p *models.Provider) {
	if r.keys == nil || !crypto.IsEncrypted(p.APIKey) {
		return
	}
	plain, err := r.keys.Open(p.APIKey)
	if err != nil {
		r.log.Warn("failed to decrypt apiKey, leaving stored value",
			"provider", p.ID, "error", err)
		return
	}
	p.APIKey = plain
}

func (r *Reader) enqueueAudit(op, source, outcome, reason string) {
	if err := r.audit.Enqueue(audit.NewRecord(op, source, outcome, reason)); err != nil {
		r.log.Debug("audit enqueue failed", "error", err)
	}
}

func hasBuiltIn(cfg *models.ProvidersConfig) bool {
	for i := range cfg.Providers {
		if cfg.Providers[i].IsBuiltIn {
			return true
		}
	}
	return false
}
