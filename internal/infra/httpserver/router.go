package httpserver

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appai "github.com/lisquant/valuation/internal/application/ai"
	appanalyses "github.com/lisquant/valuation/internal/application/analyses"
	appauth "github.com/lisquant/valuation/internal/application/auth"
	domai "github.com/lisquant/valuation/internal/domain/ai"
	domanalyses "github.com/lisquant/valuation/internal/domain/analyses"
	"github.com/lisquant/valuation/internal/domain/users"
	"github.com/lisquant/valuation/internal/middleware"
	"github.com/lisquant/valuation/web"
)

// Deps collects everything the router serves.
type Deps struct {
	Auth     *appauth.Service
	Analyses *appanalyses.Service
	AI       *appai.Service

	Metrics        *middleware.Metrics
	HealthCheckers []middleware.HealthChecker

	CookieTTL      time.Duration
	CookieSecure   bool
	AllowedOrigins []string
}

type Router struct {
	authSvc     *appauth.Service
	analysesSvc *appanalyses.Service
	aiSvc       *appai.Service
	metrics     *middleware.Metrics

	cookieTTL    time.Duration
	cookieSecure bool
}

// sessionVerifier adapts the auth service to the session middleware.
type sessionVerifier struct {
	svc *appauth.Service
}

func (v sessionVerifier) VerifySession(token string) (*middleware.Session, error) {
	claims, err := v.svc.Verify(token)
	if err != nil {
		return nil, err
	}
	return &middleware.Session{UserID: claims.UserID, Username: claims.Username}, nil
}

func NewRouter(d Deps) http.Handler {
	r := &Router{
		authSvc:     d.Auth,
		analysesSvc: d.Analyses,
		aiSvc:       d.AI,
		metrics:     d.Metrics,

		cookieTTL:    d.CookieTTL,
		cookieSecure: d.CookieSecure,
	}

	mux := chi.NewRouter()

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	if d.Metrics != nil {
		mux.Use(d.Metrics.MetricsMiddleware)
	}
	mux.Use(middleware.SessionAuth(sessionVerifier{svc: d.Auth}))
	mux.Use(middleware.RateLimitMiddleware(30, 1))

	mux.Get("/health", middleware.HealthHandler(d.HealthCheckers...))
	if d.Metrics != nil {
		mux.Get("/metrics", d.Metrics.MetricsHandler())
	}

	mux.Get("/", r.handleIndex)
	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Assets)))

	mux.Post("/register", r.wrap(r.handleRegister))
	mux.Post("/login", r.wrap(r.handleLogin))
	mux.Post("/logout", r.wrap(r.handleLogout))
	mux.Get("/check_auth", r.wrap(r.handleCheckAuth))

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Get("/analyses", r.wrap(r.handleListAnalyses))
	mux.Get("/analyses/{id}/download", r.wrap(r.handleDownload))

	mux.Post("/ai/commentary", r.wrap(r.handleCommentary))
	mux.Get("/ai/commentary", r.wrap(r.handleCommentaryLatest))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks client input errors so wrap can answer 400.
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string { return e.msg }

func badRequest(err error) error { return badRequestError{msg: err.Error()} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var br badRequestError
		switch {
		case errors.As(err, &br):
			http.Error(w, br.msg, http.StatusBadRequest)
		case errors.Is(err, domanalyses.ErrEmptyTicker):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, appauth.ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, users.ErrDuplicateUsername):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, sql.ErrNoRows),
			errors.Is(err, users.ErrNotFound),
			errors.Is(err, domanalyses.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domai.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		case errors.Is(err, domanalyses.ErrTemplateMissing):
			http.Error(w, "valuation template is not available", http.StatusInternalServerError)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
