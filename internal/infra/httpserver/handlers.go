package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lisquant/valuation/internal/middleware"
	"github.com/lisquant/valuation/web"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authState struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Error         string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (r *Router) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(r.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (r *Router) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// unauthenticated answers with the structured body the page controller keys
// on to open the login modal and park the pending ticker.
func (r *Router) unauthenticated(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusUnauthorized, authState{
		Authenticated: false,
		Error:         "authentication required",
	})
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	page, err := web.Assets.ReadFile("index.html")
	if err != nil {
		http.Error(w, "page not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// POST /register
// Body: {"username": "...", "password": "..."}
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body credentials
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(fmt.Errorf("invalid request body"))
	}
	username, err := middleware.ValidateUsername(body.Username)
	if err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidatePassword(body.Password); err != nil {
		return badRequest(err)
	}

	u, token, err := r.authSvc.Register(req.Context(), username, body.Password)
	if err != nil {
		return err
	}

	r.setSessionCookie(w, token)
	return writeJSON(w, http.StatusCreated, authState{Authenticated: true, Username: u.Username})
}

// POST /login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body credentials
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(fmt.Errorf("invalid request body"))
	}
	if body.Username == "" || body.Password == "" {
		return badRequest(fmt.Errorf("username and password are required"))
	}

	u, token, err := r.authSvc.Login(req.Context(), body.Username, body.Password)
	if err != nil {
		return err
	}

	r.setSessionCookie(w, token)
	return writeJSON(w, http.StatusOK, authState{Authenticated: true, Username: u.Username})
}

// POST /logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	r.clearSessionCookie(w)
	return writeJSON(w, http.StatusOK, authState{Authenticated: false})
}

// GET /check_auth
func (r *Router) handleCheckAuth(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.SessionFromContext(req.Context())
	if sess == nil {
		return writeJSON(w, http.StatusOK, authState{Authenticated: false})
	}
	return writeJSON(w, http.StatusOK, authState{Authenticated: true, Username: sess.Username})
}

// POST /analyze
// Form field: ticker. Unauthenticated callers get 401 with a structured body
// rather than a redirect, so the client can stash the ticker and retry after
// login.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.SessionFromContext(req.Context())
	if sess == nil {
		return r.unauthenticated(w)
	}

	// FormValue parses both urlencoded and multipart bodies; browsers
	// submit the latter via FormData.
	ticker, err := middleware.ValidateTicker(req.FormValue("ticker"))
	if err != nil {
		return badRequest(err)
	}

	if r.metrics != nil {
		r.metrics.AnalysisStarted()
	}
	a, err := r.analysesSvc.Run(req.Context(), sess.UserID, ticker)
	if r.metrics != nil {
		r.metrics.AnalysisFinished(err)
	}
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, a)
}

// GET /analyses?limit=20
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.SessionFromContext(req.Context())
	if sess == nil {
		return r.unauthenticated(w)
	}

	limit := middleware.ValidateLimit(req.URL.Query().Get("limit"))
	list, err := r.analysesSvc.List(req.Context(), sess.UserID, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /analyses/{id}/download
func (r *Router) handleDownload(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.SessionFromContext(req.Context())
	if sess == nil {
		return r.unauthenticated(w)
	}

	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return badRequest(fmt.Errorf("invalid analysis id"))
	}

	url, err := r.analysesSvc.DownloadURL(req.Context(), sess.UserID, id)
	if err != nil {
		return err
	}

	http.Redirect(w, req, url, http.StatusFound)
	return nil
}

// POST /ai/commentary
// Body: {"analysis_id": <id>}
func (r *Router) handleCommentary(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.SessionFromContext(req.Context())
	if sess == nil {
		return r.unauthenticated(w)
	}

	var body struct {
		AnalysisID int64 `json:"analysis_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(fmt.Errorf("invalid request body"))
	}
	if body.AnalysisID == 0 {
		return badRequest(fmt.Errorf("analysis_id is required"))
	}

	artifactURL, err := r.analysesSvc.DownloadURL(req.Context(), sess.UserID, body.AnalysisID)
	if err != nil {
		return err
	}

	c, err := r.aiSvc.CommentAndStore(req.Context(), sess.UserID, body.AnalysisID, artifactURL)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, c)
}

// GET /ai/commentary?analysis_id=
func (r *Router) handleCommentaryLatest(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.SessionFromContext(req.Context())
	if sess == nil {
		return r.unauthenticated(w)
	}

	id, err := strconv.ParseInt(req.URL.Query().Get("analysis_id"), 10, 64)
	if err != nil {
		return badRequest(fmt.Errorf("invalid analysis_id"))
	}

	c, err := r.aiSvc.Latest(req.Context(), sess.UserID, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}
