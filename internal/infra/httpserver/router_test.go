package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appai "github.com/lisquant/valuation/internal/application/ai"
	appanalyses "github.com/lisquant/valuation/internal/application/analyses"
	appauth "github.com/lisquant/valuation/internal/application/auth"
	domanalyses "github.com/lisquant/valuation/internal/domain/analyses"
	"github.com/lisquant/valuation/internal/domain/commentary"
	"github.com/lisquant/valuation/internal/domain/marketdata"
	"github.com/lisquant/valuation/internal/domain/users"
	"github.com/lisquant/valuation/internal/middleware"
)

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

type fakeUserRepo struct {
	users  map[string]*users.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*users.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, username, passwordHash string) (*users.User, error) {
	if _, exists := r.users[username]; exists {
		return nil, users.ErrDuplicateUsername
	}
	r.nextID++
	u := &users.User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	r.users[username] = u
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

type fakeAnalysisRepo struct {
	created []*domanalyses.Analysis
	nextID  int64
}

func (r *fakeAnalysisRepo) Create(ctx context.Context, a *domanalyses.Analysis) error {
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakeAnalysisRepo) Get(ctx context.Context, userID, id int64) (*domanalyses.Analysis, error) {
	for _, a := range r.created {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return nil, domanalyses.ErrNotFound
}

func (r *fakeAnalysisRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*domanalyses.Analysis, error) {
	var out []*domanalyses.Analysis
	for i := len(r.created) - 1; i >= 0; i-- {
		if r.created[i].UserID == userID {
			out = append(out, r.created[i])
		}
	}
	return out, nil
}

type fakeFetcher struct {
	calls int
}

func (f *fakeFetcher) FetchFundamentals(ctx context.Context, ticker string) (marketdata.Fundamentals, error) {
	f.calls++
	return marketdata.Fundamentals{"SALES_REV_TURN": marketdata.Series{2020: marketdata.Number(1)}}, nil
}

type fakeWriter struct{}

func (fakeWriter) Populate(templatePath, outputPath, ticker string, f marketdata.Fundamentals) error {
	return os.WriteFile(outputPath, []byte("xlsx"), 0o644)
}

type fakeStore struct{}

func (fakeStore) UploadAndCleanup(ctx context.Context, localPath, key string) (string, error) {
	os.Remove(localPath)
	return "http://store/" + key, nil
}

func (fakeStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "http://store/presigned/" + url.PathEscape(key), nil
}

type fakeAIClient struct {
	result string
}

func (c fakeAIClient) Comment(ctx context.Context, ticker, artifactURL string) (string, error) {
	return c.result, nil
}

type fakeCommentaryRepo struct {
	saved []*commentary.Commentary
}

func (r *fakeCommentaryRepo) Save(ctx context.Context, c *commentary.Commentary) error {
	c.ID = int64(len(r.saved) + 1)
	cp := *c
	r.saved = append(r.saved, &cp)
	return nil
}

func (r *fakeCommentaryRepo) LatestByAnalysis(ctx context.Context, userID, analysisID int64) (*commentary.Commentary, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].UserID == userID && r.saved[i].AnalysisID == analysisID {
			return r.saved[i], nil
		}
	}
	return nil, domanalyses.ErrNotFound
}

type testEnv struct {
	handler  http.Handler
	userRepo *fakeUserRepo
	repo     *fakeAnalysisRepo
	fetcher  *fakeFetcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	template := filepath.Join(dir, "LIS_Valuation_Empty.xlsx")
	if err := os.WriteFile(template, []byte("template"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	clock := fakeClock{t: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)}
	userRepo := newFakeUserRepo()
	authSvc := &appauth.Service{
		Repo:   userRepo,
		Secret: []byte("test-secret"),
		TTL:    24 * time.Hour,
		Clock:  clock,
	}

	repo := &fakeAnalysisRepo{}
	fetcher := &fakeFetcher{}
	analysesSvc := &appanalyses.Service{
		Repo:         repo,
		Fetcher:      fetcher,
		Workbook:     fakeWriter{},
		Artifacts:    fakeStore{},
		Clock:        clock,
		TemplatePath: template,
		WorkDir:      filepath.Join(dir, "user_files"),
	}

	aiSvc := &appai.Service{
		Client:   fakeAIClient{result: `{"ticker":"AAPL US","summary":"ok"}`},
		Repo:     &fakeCommentaryRepo{},
		Analyses: repo,
		Clock:    clock,
	}

	handler := NewRouter(Deps{
		Auth:      authSvc,
		Analyses:  analysesSvc,
		AI:        aiSvc,
		Metrics:   middleware.NewMetrics(),
		CookieTTL: 24 * time.Hour,
	})

	return &testEnv{handler: handler, userRepo: userRepo, repo: repo, fetcher: fetcher}
}

// register creates a user through the API and returns the session cookie.
func (e *testEnv) register(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("register did not set session cookie")
	return nil
}

func TestAnalyzeUnauthenticatedReturnsStructured401(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"ticker": {"AAPL US"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Authenticated {
		t.Fatalf("authenticated must be false")
	}
	if env.fetcher.calls != 0 || len(env.repo.created) != 0 {
		t.Fatalf("unauthenticated analyze must not run the pipeline")
	}
}

func TestAnalyzeAuthenticatedRecordsOneRow(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "analyst", "longenough")

	form := url.Values{"ticker": {"  aapl us "}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if len(env.repo.created) != 1 {
		t.Fatalf("want exactly one recorded analysis, got %d", len(env.repo.created))
	}
	if env.repo.created[0].Ticker != "AAPL US" {
		t.Fatalf("ticker = %q, want normalized AAPL US", env.repo.created[0].Ticker)
	}

	var a domanalyses.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if a.Filename != "AAPL US_Valuation_Model_20250314_093000.xlsx" {
		t.Fatalf("unexpected filename %q", a.Filename)
	}
}

func TestAnalyzeAcceptsMultipartForm(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "analyst", "longenough")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("ticker", "  aapl us "); err != nil {
		t.Fatalf("write field: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if len(env.repo.created) != 1 || env.repo.created[0].Ticker != "AAPL US" {
		t.Fatalf("multipart submission not recorded: %+v", env.repo.created)
	}
}

func TestAnalyzeRejectsBadTickers(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "analyst", "longenough")

	for _, ticker := range []string{"", "   ", "AAPL'; DROP TABLE--"} {
		form := url.Values{"ticker": {ticker}}
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("ticker %q: status = %d, want 400", ticker, rec.Code)
		}
	}
	if env.fetcher.calls != 0 {
		t.Fatalf("invalid tickers must not reach the terminal")
	}
}

func TestCheckAuthBothStates(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/check_auth", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous check_auth status = %d", rec.Code)
	}
	var body struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Authenticated {
		t.Fatalf("anonymous caller reported as authenticated")
	}

	cookie := env.register(t, "analyst", "longenough")
	req = httptest.NewRequest(http.MethodGet, "/check_auth", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.Authenticated || body.Username != "analyst" {
		t.Fatalf("authenticated check_auth = %+v", body)
	}
}

func TestLoginSetsCookieAndLogoutClearsIt(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "analyst", "longenough")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"analyst","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body %s", rec.Code, rec.Body.String())
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" || !session.HttpOnly {
		t.Fatalf("login must set an HttpOnly session cookie, got %+v", session)
	}

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.MaxAge >= 0 {
			t.Fatalf("logout must expire the session cookie, got MaxAge=%d", c.MaxAge)
		}
	}
}

func TestLoginWrongPasswordIs401(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "analyst", "longenough")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"analyst","password":"wrongpass"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRegisterDuplicateUsernameIs409(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "analyst", "longenough")

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"analyst","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestListAndDownloadAreOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner", "longenough")
	other := env.register(t, "other", "longenough")

	form := url.Values{"ticker": {"NVDA"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(owner)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("analyze status = %d", rec.Code)
	}
	var a domanalyses.Analysis
	json.Unmarshal(rec.Body.Bytes(), &a)

	req = httptest.NewRequest(http.MethodGet, "/analyses", nil)
	req.AddCookie(other)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	var list []domanalyses.Analysis
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Fatalf("other user sees %d analyses, want 0", len(list))
	}

	req = httptest.NewRequest(http.MethodGet, "/analyses/1/download", nil)
	req.AddCookie(other)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign download status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/analyses/1/download", nil)
	req.AddCookie(owner)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("owner download status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "NVDA") {
		t.Fatalf("unexpected redirect location %q", loc)
	}
}

func TestCommentaryRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "analyst", "longenough")

	form := url.Values{"ticker": {"MSFT"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("analyze status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/ai/commentary", strings.NewReader(`{"analysis_id":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("commentary status = %d body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/ai/commentary?analysis_id=1", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("latest commentary status = %d", rec.Code)
	}
	var c commentary.Commentary
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("latest commentary not JSON: %v", err)
	}
	if c.AnalysisID != 1 || c.Result == "" {
		t.Fatalf("unexpected commentary %+v", c)
	}
}
