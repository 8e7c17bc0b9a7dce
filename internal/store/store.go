// Package store reads persisted provider settings from a layered set of
// backing sources. Each source answers a read with a payload, ErrNotFound, or
// a host error; the layered adapter tries sources in order and is strictly
// read-only against all of them.
package store

import (
	"context"
	"errors"

	"github.com/mandalnilabja/BrowserOS/internal/logging"
)

// ProvidersKey is the well-known preference name under which the settings
// surface persists the provider configuration, in both backing stores.
const ProvidersKey = "browseros.providers"

// Source is one backing store for persisted settings. Read returns the raw
// JSON payload for the key, ErrNotFound when the source holds no value,
// ErrUnavailable when the capability is absent, or a wrapped host error.
type Source interface {
	Name() string
	Read(ctx context.Context, key string) ([]byte, error)
}

// ReadResult carries a payload together with the source that produced it.
type ReadResult struct {
	Source  string
	Payload []byte
}

// Layered tries an explicit ordered list of sources. The order is the
// fallback order: a miss, an absent capability, or a host error on one source
// falls through to the next.
type Layered struct {
	sources []Source
	log     *logging.Logger
}

// NewLayered creates a layered reader over the given sources, tried in the
// order supplied.
func NewLayered(log *logging.Logger, sources ...Source) *Layered {
	if log == nil {
		log = logging.New("store")
	}
	return &Layered{sources: sources, log: log}
}

// Read returns the payload from the first source that yields one. When every
// source misses or fails, the result is ErrNotFound: absence of configuration
// is expected on first run and host failures degrade to absence. Host errors
// are logged at error level before falling through.
func (l *Layered) Read(ctx context.Context, key string) (ReadResult, error) {
	for _, src := range l.sources {
		payload, err := src.Read(ctx, key)
		if err == nil {
			return ReadResult{Source: src.Name(), Payload: payload}, nil
		}

		switch {
		case errors.Is(err, ErrNotFound):
			l.log.Debug("source has no value", "source", src.Name(), "key", key)
		case errors.Is(err, ErrUnavailable):
			l.log.Debug("source unavailable", "source", src.Name(), "key", key)
		default:
			l.log.Error("source read failed", "source", src.Name(), "key", key, "error", err)
		}
	}
	return ReadResult{}, ErrNotFound
}

// Sources returns the names of the configured sources in fallback order.
func (l *Layered) Sources() []string {
	names := make([]string, len(l.sources))
	for i, src := range l.sources {
		names[i] = src.Name()
	}
	return names
}
