package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/mandalnilabja/BrowserOS/internal/audit"
	"github.com/mandalnilabja/BrowserOS/internal/auth"
	"github.com/mandalnilabja/BrowserOS/internal/config"
	"github.com/mandalnilabja/BrowserOS/internal/crypto"
	"github.com/mandalnilabja/BrowserOS/internal/logging"
	"github.com/mandalnilabja/BrowserOS/internal/models"
	"github.com/mandalnilabja/BrowserOS/internal/settings"
	"github.com/mandalnilabja/BrowserOS/internal/store"
)

// Dependencies aggregates the services the HTTP layer needs, so main can
// shut them down in order.
type Dependencies struct {
	Reader  *settings.Reader
	Sources *store.Layered
	Audit   audit.Sink

	cfg   *config.Config
	db    *sqlx.DB
	redis *redis.Client
	log   *logging.Logger
}

// Close releases store connections and flushes the audit sink.
func (d *Dependencies) Close(ctx context.Context) {
	if sink, ok := d.Audit.(interface{ Shutdown(context.Context) error }); ok {
		if err := sink.Shutdown(ctx); err != nil {
			d.log.Error("failed to shut down audit sink", "error", err)
		}
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.db != nil {
		_ = d.db.Close()
	}
}

// NewRouter wires up the layered stores, the settings reader, and the read
// API routes. Both backing stores are optional: a store that cannot be
// reached is left out of the fallback chain rather than failing startup.
func NewRouter(cfg *config.Config) (*http.ServeMux, *Dependencies, error) {
	log := logging.New("httpapi")
	deps := &Dependencies{cfg: cfg, log: log, Audit: audit.NewNoopSink()}

	var sources []store.Source

	if cfg.Database.URL != "" {
		db, err := store.OpenDB(store.DBConfig{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			log.Warn("preference database unreachable, continuing without it", "error", err)
		} else {
			deps.db = db
			sources = append(sources, store.NewPreferenceStore(db, store.PreferenceStoreOptions{
				CacheSize: cfg.Cache.Size,
				CacheTTL:  cfg.Cache.TTL,
			}))
		}
	}

	if cfg.Redis.Address != "" {
		client, err := store.NewRedisClient(store.RedisConfig{
			Address:      cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Warn("fallback store unreachable, continuing without it", "error", err)
		} else {
			deps.redis = client
			sources = append(sources, store.NewFallbackStore(client))
		}
	}

	deps.Sources = store.NewLayered(logging.New("store"), sources...)

	if cfg.Audit.Enabled {
		sink, err := audit.NewS3Sink(context.Background(), audit.S3SinkConfig{
			Bucket:        cfg.Audit.S3Bucket,
			Region:        cfg.Audit.S3Region,
			Prefix:        cfg.Audit.S3Prefix,
			InstanceName:  cfg.Audit.InstanceName,
			BufferSize:    cfg.Audit.BufferSize,
			FlushSize:     cfg.Audit.FlushSize,
			FlushInterval: cfg.Audit.FlushInterval,
		})
		if err != nil {
			log.Warn("audit sink disabled", "error", err)
		} else {
			deps.Audit = sink
		}
	}

	var keys *crypto.KeyBox
	if cfg.EncryptionKey != "" {
		var err error
		keys, err = crypto.NewKeyBoxFromBase64(cfg.EncryptionKey)
		if err != nil {
			log.Warn("invalid encryption key, apiKey decryption disabled", "error", err)
		}
	}

	deps.Reader = settings.NewReader(deps.Sources, settings.Options{
		DevMode:          cfg.Dev.Enabled,
		MockProviderHint: cfg.Dev.MockProvider,
		Audit:            deps.Audit,
		KeyBox:           keys,
	})

	mux := http.NewServeMux()
	protected := jwtMiddleware(cfg.JWTSecret)

	mux.HandleFunc("/healthz", deps.handleHealth)
	mux.HandleFunc("/v1/auth/token", deps.handleAuthToken)
	mux.Handle("/v1/providers", protected(http.HandlerFunc(deps.handleProviders)))
	mux.Handle("/v1/providers/default", protected(http.HandlerFunc(deps.handleDefaultProvider)))

	return mux, deps, nil
}

func (d *Dependencies) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"sources": d.Sources.Sources(),
	})
}

// handleAuthToken exchanges the admin access token for a short-lived JWT.
func (d *Dependencies) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	accessToken := r.Header.Get("X-Access-Token")
	if accessToken == "" {
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			accessToken = body.Token
		}
	}
	if accessToken == "" {
		respondWithError(w, http.StatusBadRequest, "Access token is required")
		return
	}

	if err := auth.CheckAccessToken(accessToken, d.cfg.AdminTokenHash); err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid access token")
		return
	}

	token, exp, err := auth.GenerateJWT("admin", d.cfg.JWTSecret)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error generating token: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"exp":   exp,
	})
}

func (d *Dependencies) handleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	cfg := d.Reader.ReadAllProviders(r.Context())
	for i := range cfg.Providers {
		redactProvider(&cfg.Providers[i])
	}
	respondWithJSON(w, http.StatusOK, cfg)
}

func (d *Dependencies) handleDefaultProvider(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	provider := d.Reader.ReadDefaultProvider(r.Context())
	redactProvider(&provider)
	respondWithJSON(w, http.StatusOK, provider)
}

// redactProvider masks credentials before they leave the service.
func redactProvider(p *models.Provider) {
	if p.APIKey != "" {
		p.APIKey = "***"
	}
}
