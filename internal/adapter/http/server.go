// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"nutrilog/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the optional SSO configuration.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth     *app.AuthService
	foods    *app.FoodService
	portions *app.PortionService
	quickAdd *app.QuickAddService
	totals   *app.TotalsService
	oidc     OIDCConfig
	log      *zap.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, foods *app.FoodService, portions *app.PortionService,
	quickAdd *app.QuickAddService, totals *app.TotalsService, oidc OIDCConfig, log *zap.Logger) *Server {
	return &Server{
		auth:     auth,
		foods:    foods,
		portions: portions,
		quickAdd: quickAdd,
		totals:   totals,
		oidc:     oidc,
		log:      log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/register", s.handleRegister)
	api.HandleFunc("/login", s.handleLogin)
	api.HandleFunc("/logout", s.handleLogout)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/foods", s.handleFoods)
	protected.HandleFunc("/foods/", s.handleFoodByID)
	protected.HandleFunc("/portions", s.handlePortions)
	protected.HandleFunc("/portions/quick-add", s.handleQuickAdd)
	protected.HandleFunc("/portions/", s.handlePortionByID)
	protected.HandleFunc("/daily-totals", s.handleDailyTotals)
	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(root)
}
