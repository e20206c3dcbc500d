package adapthttp

import (
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"dietprogram/internal/app"
	"dietprogram/internal/metrics"
)

// Services bundles the application services the API drives.
type Services struct {
	Auth      *app.AuthService
	Profile   *app.ProfileService
	Foods     *app.FoodService
	Meals     *app.MealService
	Plans     *app.PlanService
	Progress  *app.ProgressService
	Dashboard *app.DashboardService
	Charts    *app.ChartsService
}

// OIDCConfig holds the single sign-on client. The zero value disables SSO.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc        Services
	oidcConfig OIDCConfig
	webDir     string
	log        logrus.FieldLogger
	metrics    *metrics.Metrics
	limiter    *RateLimiter
	now        func() time.Time
}

// New creates a Server wired to the given application services.
func New(svc Services, webDir string, log logrus.FieldLogger, m *metrics.Metrics, limiter *RateLimiter) *Server {
	return &Server{svc: svc, webDir: webDir, log: log, metrics: m, limiter: limiter, now: time.Now}
}

// WithOIDC enables single sign-on.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.loggingMiddleware, s.metricsMiddleware)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
	})
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
	})
	if s.limiter != nil {
		api.Use(s.limiter.Handler)
	}

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/config", s.handleConfig).Methods(http.MethodGet)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	api.HandleFunc("/calorie-goal", s.handleCalorieGoal).Methods(http.MethodPost)

	api.Handle("/profile", s.authed(s.handleGetProfile)).Methods(http.MethodGet)
	api.Handle("/profile", s.authed(s.handleUpdateProfile)).Methods(http.MethodPut)

	// The food catalog and public diet plans are readable without a session.
	api.HandleFunc("/foods", s.handleListFoods).Methods(http.MethodGet)
	api.HandleFunc("/foods/categories", s.handleFoodCategories).Methods(http.MethodGet)
	api.HandleFunc("/foods/{id:[0-9]+}", s.handleGetFood).Methods(http.MethodGet)
	api.HandleFunc("/diet-plans", s.handleListPlans).Methods(http.MethodGet)
	api.HandleFunc("/diet-plans/{id:[0-9]+}", s.handleGetPlan).Methods(http.MethodGet)

	api.Handle("/meals", s.authed(s.handleRecordMeal)).Methods(http.MethodPost)
	api.Handle("/meals", s.authed(s.handleListMeals)).Methods(http.MethodGet)

	api.Handle("/progress", s.authed(s.handleSaveProgress)).Methods(http.MethodPost)
	api.Handle("/progress", s.authed(s.handleListProgress)).Methods(http.MethodGet)
	api.Handle("/progress/latest-weight", s.authed(s.handleLatestWeight)).Methods(http.MethodGet)

	api.Handle("/dashboard", s.authed(s.handleDashboard)).Methods(http.MethodGet)
	api.Handle("/charts/daily", s.authed(s.handleChartsDaily)).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(spaFromDisk(s.webDir))

	return withNoCache(r)
}
