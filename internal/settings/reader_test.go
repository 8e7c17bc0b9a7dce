package settings

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/BrowserOS/internal/audit"
	"github.com/mandalnilabja/BrowserOS/internal/crypto"
	"github.com/mandalnilabja/BrowserOS/internal/models"
	"github.com/mandalnilabja/BrowserOS/internal/store"
)

// stubSource serves a fixed payload, or an error when payload is nil.
type stubSource struct {
	payload []byte
	err     error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Read(ctx context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func readerOver(payload string, opts Options) *Reader {
	var sources []store.Source
	if payload != "" {
		sources = append(sources, &stubSource{payload: []byte(payload)})
	}
	return NewReader(store.NewLayered(nil, sources...), opts)
}

const persistedConfig = `{
	"defaultProviderId": "anthropic-1",
	"providers": [
		{
			"id": "browseros-builtin", "name": "BrowserOS AI", "type": "builtin",
			"isDefault": true, "isBuiltIn": true,
			"createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-01-01T00:00:00Z"
		},
		{
			"id": "anthropic-1", "name": "Claude", "type": "anthropic",
			"isDefault": false, "isBuiltIn": false,
			"baseUrl": "https://api.anthropic.com", "apiKey": "sk-ant",
			"modelId": "claude-sonnet-4-20250514",
			"modelConfig": {"contextWindow": "200000", "temperature": "1.5"},
			"createdAt": "2026-02-01T00:00:00Z", "updatedAt": "2026-02-01T00:00:00Z"
		}
	]
}`

func TestReadDefaultProvider_FromPersistedConfig(t *testing.T) {
	r := readerOver(persistedConfig, Options{})

	p := r.ReadDefaultProvider(context.Background())

	assert.Equal(t, "anthropic-1", p.ID)
	assert.Equal(t, models.ProviderTypeAnthropic, p.Type)
	assert.True(t, p.IsDefault)
	assert.False(t, p.IsBuiltIn)
	// String numerals arrived coerced.
	assert.Equal(t, int64(200000), p.ModelConfig.ContextWindow.Int64())
	assert.Equal(t, 1.5, p.ModelConfig.Temperature.Float64())
}

func TestReadDefaultProvider_EmptyStore(t *testing.T) {
	r := readerOver("", Options{})

	p := r.ReadDefaultProvider(context.Background())

	assert.True(t, p.IsBuiltIn)
	assert.True(t, p.IsDefault)
	assert.Empty(t, p.APIKey)
	assert.Empty(t, p.BaseURL)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestReadDefaultProvider_MalformedPayload(t *testing.T) {
	r := readerOver(`{"defaultProviderId": 42}`, Options{})

	p := r.ReadDefaultProvider(context.Background())
	assert.True(t, p.IsBuiltIn)
}

func TestReadDefaultProvider_DanglingDefaultID(t *testing.T) {
	payload := `{
		"defaultProviderId": "gone",
		"providers": [
			{"id": "p1", "name": "P1", "type": "openai", "isDefault": true,
			 "createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-01-01T00:00:00Z"}
		]
	}`
	r := readerOver(payload, Options{})

	p := r.ReadDefaultProvider(context.Background())
	assert.True(t, p.IsBuiltIn, "dangling defaultProviderId falls back to built-in")
}

func TestReadDefaultProvider_MalformedFallbackStoreValue(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	require.NoError(t, mr.Set(store.ProvidersKey, `{definitely not json`))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	layered := store.NewLayered(nil, store.NewFallbackStore(client))
	r := NewReader(layered, Options{})

	// Must degrade to the built-in provider, not raise.
	p := r.ReadDefaultProvider(context.Background())
	assert.True(t, p.IsBuiltIn)
}

func TestReadAllProviders_NormalizesDefaults(t *testing.T) {
	// Persisted flags are wrong on purpose: builtin claims default, the
	// referenced provider does not.
	r := readerOver(persistedConfig, Options{})

	cfg := r.ReadAllProviders(context.Background())

	require.Len(t, cfg.Providers, 2)
	defaults := 0
	for _, p := range cfg.Providers {
		if p.IsDefault {
			defaults++
			assert.Equal(t, cfg.DefaultProviderID, p.ID)
		}
	}
	assert.Equal(t, 1, defaults, "exactly one provider carries isDefault")
}

func TestReadAllProviders_EmptyStore(t *testing.T) {
	r := readerOver("", Options{})

	cfg := r.ReadAllProviders(context.Background())

	require.Len(t, cfg.Providers, 1)
	assert.True(t, cfg.Providers[0].IsBuiltIn)
	assert.Equal(t, cfg.DefaultProviderID, cfg.Providers[0].ID)
	assert.True(t, cfg.Providers[0].IsDefault)
}

func TestReadAllProviders_DanglingDefaultKeepsCollection(t *testing.T) {
	payload := `{
		"defaultProviderId": "gone",
		"providers": [
			{"id": "p1", "name": "P1", "type": "openai", "isDefault": true,
			 "createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-01-01T00:00:00Z"},
			{"id": "p2", "name": "P2", "type": "ollama", "isDefault": true,
			 "createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-01-01T00:00:00Z"}
		]
	}`
	r := readerOver(payload, Options{})

	cfg := r.ReadAllProviders(context.Background())

	// The collection survives with every default flag zeroed; only the
	// synthesized built-in is added.
	ids := make([]string, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		assert.False(t, p.IsDefault)
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "p1")
	assert.Contains(t, ids, "p2")
	assert.Contains(t, ids, BuiltInProviderID)
}

func TestReadAllProviders_SynthesizesBuiltIn(t *testing.T) {
	payload := `{
		"defaultProviderId": "p1",
		"providers": [
			{"id": "p1", "name": "P1", "type": "openai", "isDefault": true,
			 "createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-01-01T00:00:00Z"}
		]
	}`
	r := readerOver(payload, Options{})

	cfg := r.ReadAllProviders(context.Background())

	require.Len(t, cfg.Providers, 2)
	builtIn, found := cfg.FindProvider(BuiltInProviderID)
	require.True(t, found)
	assert.True(t, builtIn.IsBuiltIn)
	assert.False(t, builtIn.IsDefault)
}

func TestSetMockProvider_DevMode(t *testing.T) {
	r := readerOver("", Options{DevMode: true})

	applied := r.SetMockProvider(MockOverride{Name: "Test", Type: models.ProviderTypeOpenAI})
	require.True(t, applied)

	p := r.ReadDefaultProvider(context.Background())
	assert.Equal(t, "Test", p.Name)
	assert.Equal(t, models.ProviderTypeOpenAI, p.Type)
	// Unspecified fields keep the built-in defaults.
	assert.Empty(t, p.BaseURL)
	assert.Empty(t, p.APIKey)
	assert.True(t, p.IsDefault)
}

func TestSetMockProvider_IgnoredOutsideDevMode(t *testing.T) {
	r := readerOver("", Options{DevMode: false})

	applied := r.SetMockProvider(MockOverride{Name: "Test", Type: models.ProviderTypeOpenAI})
	assert.False(t, applied)

	// Subsequent reads are unaffected.
	p := r.ReadDefaultProvider(context.Background())
	assert.True(t, p.IsBuiltIn)
	assert.NotEqual(t, "Test", p.Name)
}

func TestReadDefaultProvider_MockHint(t *testing.T) {
	r := readerOver("", Options{DevMode: true, MockProviderHint: "ollama"})

	p := r.ReadDefaultProvider(context.Background())
	assert.Equal(t, models.ProviderTypeOllama, p.Type)
	assert.Equal(t, "http://localhost:11434", p.BaseURL)
}

func TestReadDefaultProvider_MockHintIgnoredOutsideDevMode(t *testing.T) {
	r := readerOver("", Options{DevMode: false, MockProviderHint: "ollama"})

	p := r.ReadDefaultProvider(context.Background())
	assert.True(t, p.IsBuiltIn)
}

func TestReadDefaultProvider_PersistedConfigBeatsMock(t *testing.T) {
	r := readerOver(persistedConfig, Options{DevMode: true})
	r.SetMockProvider(MockOverride{Name: "Test"})

	p := r.ReadDefaultProvider(context.Background())
	assert.Equal(t, "anthropic-1", p.ID, "mock only serves the fallback path")
}

func TestReader_AuditRecords(t *testing.T) {
	sink := audit.NewMemorySink()
	r := readerOver("", Options{Audit: sink})

	r.ReadDefaultProvider(context.Background())
	r.ReadAllProviders(context.Background())

	records := sink.Records()
	require.Len(t, records, 2)
	assert.Equal(t, audit.OpReadDefaultProvider, records[0].Operation)
	assert.Equal(t, audit.OutcomeFallbackBuiltIn, records[0].Outcome)
	assert.Equal(t, audit.OpReadAllProviders, records[1].Operation)
	assert.NotEmpty(t, records[0].ID)
}

func TestReader_AuditResolved(t *testing.T) {
	sink := audit.NewMemorySink()
	r := readerOver(persistedConfig, Options{Audit: sink})

	r.ReadDefaultProvider(context.Background())

	records := sink.Records()
	require.Len(t, records, 1)
	assert.Equal(t, audit.OutcomeResolved, records[0].Outcome)
	assert.Equal(t, "stub", records[0].Source)
}

func TestReader_DecryptsAPIKeyAtRest(t *testing.T) {
	keys, err := crypto.NewKeyBox([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	sealed, err := keys.Seal("sk-live-secret")
	require.NoError(t, err)

	payload := `{
		"defaultProviderId": "p1",
		"providers": [
			{"id": "p1", "name": "P1", "type": "openai", "isDefault": true,
			 "apiKey": "` + sealed + `",
			 "createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-01-01T00:00:00Z"}
		]
	}`
	r := readerOver(payload, Options{KeyBox: keys})

	p := r.ReadDefaultProvider(context.Background())
	assert.Equal(t, "sk-live-secret", p.APIKey)

	cfg := r.ReadAllProviders(context.Background())
	def, found := cfg.DefaultProvider()
	require.True(t, found)
	assert.Equal(t, "sk-live-secret", def.APIKey)
}
