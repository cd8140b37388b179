package main

import (
	"context"
	"errors"
	"net/http"

	adapthttp "nutrilog/internal/adapter/http"
	"nutrilog/internal/adapter/openai"
	"nutrilog/internal/adapter/postgres"
	"nutrilog/internal/app"
	"nutrilog/internal/config"
	"nutrilog/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	sessionRepo := postgres.NewSessionRepo(db)

	var nutrition domain.NutritionClient
	if cfg.OpenAIAPIKey != "" {
		nutrition = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		log.Warn("OPENAI_API_KEY not set; quick-add AI fallback disabled")
	}

	authSvc := app.NewAuthService(db, sessionRepo)
	foodSvc := app.NewFoodService(db)
	portionSvc := app.NewPortionService(db, db)
	lookupSvc := app.NewLookupService(db, nutrition, log)
	quickAddSvc := app.NewQuickAddService(lookupSvc, portionSvc)
	totalsSvc := app.NewTotalsService(db)

	oidcCfg := adapthttp.OIDCConfig{}
	if cfg.OIDCIssuer != "" {
		provider, err := oidc.NewProvider(context.Background(), cfg.OIDCIssuer)
		if err != nil {
			log.Fatal("oidc provider", zap.Error(err))
		}
		oidcCfg = adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: &oauth2.Config{
				ClientID:     cfg.OIDCClientID,
				ClientSecret: cfg.OIDCClientSecret,
				RedirectURL:  cfg.OIDCRedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			},
		}
	}

	h := adapthttp.New(authSvc, foodSvc, portionSvc, quickAddSvc, totalsSvc, oidcCfg, log).Handler()
	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("serve", zap.Error(err))
	}
}
