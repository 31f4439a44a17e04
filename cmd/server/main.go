package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/provider"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/spf13/afero"

	"reelist/config"
	"reelist/handlers"
	"reelist/internal/database"
	"reelist/internal/logging"
	"reelist/services/accounts"
	"reelist/services/catalog"
	"reelist/services/watchlist"
	"reelist/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log)

	db, err := database.New(database.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN})
	if err != nil {
		slog.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	accountsSvc, err := accounts.NewService(db)
	if err != nil {
		slog.Error("failed to initialise accounts", "err", err)
		os.Exit(1)
	}

	store, err := newStore(cfg.Storage, db)
	if err != nil {
		slog.Error("failed to initialise watchlist store", "err", err)
		os.Exit(1)
	}

	authSvc := newAuthService(cfg, accountsSvc)
	catalogClient := catalog.NewClient(cfg.Catalog)

	r := utils.NewRouter()

	authRoutes, avatarRoutes := authSvc.Handlers()
	r.PathPrefix("/auth").Handler(authRoutes)
	r.PathPrefix("/avatar").Handler(avatarRoutes)

	api := r.PathPrefix("/api").Subrouter()
	handlers.NewMoviesHandler(catalogClient).Register(api)
	handlers.NewAccountsHandler(accountsSvc).Register(api)

	m := authSvc.Middleware()
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(m.Auth)
	handlers.NewWatchlistHandler(store).Register(protected)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening", "addr", cfg.Server.Addr, "backend", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}

// newStore picks the watchlist backend: the shared SQL database or
// device-local JSON files.
func newStore(cfg config.StorageConfig, db *database.DB) (watchlist.Store, error) {
	if cfg.Backend == config.BackendLocal {
		return watchlist.NewLocalStore(afero.NewOsFs(), cfg.DataDir)
	}
	return watchlist.NewSQLStore(db), nil
}

// newAuthService builds the session layer: JWT cookies signed with the
// configured secret, credentials checked against the account registry.
func newAuthService(cfg *config.Settings, accountsSvc *accounts.Service) *auth.Service {
	if err := os.MkdirAll(cfg.Auth.AvatarDir, 0755); err != nil {
		slog.Warn("failed to create avatar directory", "dir", cfg.Auth.AvatarDir, "err", err)
	}

	svc := auth.NewService(auth.Opts{
		SecretReader: token.SecretFunc(func(aud string) (string, error) {
			return cfg.Auth.Secret, nil
		}),
		TokenDuration:  cfg.Auth.TokenDuration,
		CookieDuration: cfg.Auth.CookieDuration,
		Issuer:         "reelist",
		URL:            cfg.Server.PublicURL,
		AvatarStore:    avatar.NewLocalFS(cfg.Auth.AvatarDir),
		DisableXSRF:    true,
	})

	svc.AddDirectProvider("local", provider.CredCheckerFunc(func(user, password string) (bool, error) {
		_, err := accountsSvc.Check(context.Background(), user, password)
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}))

	return svc
}
