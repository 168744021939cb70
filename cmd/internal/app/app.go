// Package app wires the Clubhouse runtime: config, logging, stores, metrics,
// the HTML site, and the live feed gateway.
package app

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"time"

	"clubhouse/cmd/identity"
	"clubhouse/cmd/internal/auth"
	"clubhouse/cmd/internal/auth/session"
	"clubhouse/cmd/internal/forum"
	"clubhouse/cmd/internal/live"
	"clubhouse/cmd/internal/web"
	"clubhouse/cmd/security/password"
	"clubhouse/cmd/security/token"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a small app-level lifecycle abstraction so DB-backed resources can
// be closed gracefully.
type Store interface {
	Close(ctx context.Context) error
}

type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

type dbStore struct {
	pool *pgxpool.Pool
}

func (s dbStore) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// App is the Clubhouse runtime: it owns the HTTP server wiring and the
// long-lived service dependencies.
type App struct {
	cfg Config
	log Logger

	store Store

	dbPool    *pgxpool.Pool
	dbEnabled bool

	metrics *Metrics
	site    *web.Handler
	feed    *live.Gateway
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	st, dbPool, dbEnabled, stores, err := newStores(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	closeOnErr := func(err error) (*App, error) {
		_ = st.Close(context.Background())
		return nil, err
	}

	hashCfg, err := password.FromEnv()
	if err != nil {
		return closeOnErr(err)
	}
	hasher := password.NewLimiter(hashCfg, int64(EnvInt("CLUBHOUSE_HASH_MAX_CONCURRENT", 4)))

	signer, err := newSigner(cfg, log)
	if err != nil {
		return closeOnErr(err)
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return closeOnErr(err)
	}
	sessions, err := session.NewManager(sessCfg, signer, stores.sessions, stores.users)
	if err != nil {
		return closeOnErr(err)
	}

	verifier, err := auth.NewVerifier(stores.users, hasher)
	if err != nil {
		return closeOnErr(err)
	}
	registrar, err := auth.NewRegistrar(stores.users, hasher)
	if err != nil {
		return closeOnErr(err)
	}
	club, err := auth.NewClub(cfg.ClubSecret, stores.users)
	if err != nil {
		return closeOnErr(err)
	}

	metrics := NewMetrics()

	hub := live.NewHub(log)
	feed := live.NewGateway(log, live.FromEnv(), hub, sessions)

	forumSvc := forum.NewService(log, stores.messages, hub)

	site, err := web.NewHandler(log, verifier, registrar, club, sessions, forumSvc, metrics)
	if err != nil {
		return closeOnErr(err)
	}

	return &App{
		cfg:       cfg,
		log:       log,
		store:     st,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		metrics:   metrics,
		site:      site,
		feed:      feed,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.site, a.feed, a.metrics)

	handler := WithSecurityHeaders(mux)
	handler = WithRequestMetrics(handler, a.metrics)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.store.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// stores bundles the three persistence interfaces the services depend on.
type stores struct {
	users    identity.Store
	sessions session.Store
	messages forum.Store
}

// newStores decides between Postgres-backed persistence and the in-memory dev
// stores. The returned Store owns the pool lifecycle.
func newStores(ctx context.Context, cfg Config, log Logger) (Store, *pgxpool.Pool, bool, stores, error) {
	if cfg.DatabaseURL == "" {
		if !cfg.DevMode {
			return nil, nil, false, stores{}, errors.New("CLUBHOUSE_DATABASE_URL is required outside dev mode")
		}

		log.Info("db.disabled.inmemory_store")
		users := identity.NewMemoryStore()
		return nopStore{}, nil, false, stores{
			users:    users,
			sessions: session.NewMemoryStore(),
			messages: forum.NewMemoryStore(users),
		}, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, stores{}, err
	}

	log.Info("db.enabled.postgres_store")

	users, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, false, stores{}, err
	}
	messages, err := forum.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, false, stores{}, err
	}

	return dbStore{pool: pool}, pool, true, stores{
		users:    users,
		sessions: session.NewPostgresStore(pool),
		messages: messages,
	}, nil
}

// newSigner loads the session signing key. Outside dev mode the key is
// mandatory (ValidateSecurityConfig enforces it before New runs); in dev mode
// a missing key degrades to an ephemeral one, which invalidates sessions on
// restart.
func newSigner(cfg Config, log Logger) (*token.Signer, error) {
	key, err := token.KeyFromEnv(32)
	if err == nil {
		return token.NewSigner(key)
	}

	if !cfg.DevMode {
		return nil, err
	}

	ephemeral := make([]byte, 32)
	if _, err := rand.Read(ephemeral); err != nil {
		return nil, err
	}
	log.Warn("session.key.ephemeral", "reason", "CLUBHOUSE_SESSION_HMAC_KEY not set in dev mode")
	return token.NewSigner(ephemeral)
}
