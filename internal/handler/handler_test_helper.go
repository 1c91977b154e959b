package handler

import (
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/keepsake-go/internal/middleware"
	"github.com/olegiv/keepsake-go/internal/render"
	"github.com/olegiv/keepsake-go/internal/service"
	"github.com/olegiv/keepsake-go/internal/session"
	"github.com/olegiv/keepsake-go/internal/testutil"
	"github.com/olegiv/keepsake-go/web"
)

// testApp is a running application instance backed by a throwaway database.
type testApp struct {
	server *httptest.Server
	client *http.Client
	db     *sql.DB
}

// newTestApp builds the full route table (without CSRF and rate limiting,
// which have their own tests) and serves it over httptest.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.TestDB(t)
	sessionManager := session.New(db, 24*time.Hour, true)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}

	imageService := service.NewImageService(t.TempDir())

	homeHandler := NewHomeHandler(renderer)
	authHandler := NewAuthHandler(db, renderer, sessionManager)
	marketHandler := NewMarketHandler(db, renderer)
	accountHandler := NewAccountHandler(db, renderer)
	userHandler := NewUserHandler(db, renderer)
	itemHandler := NewItemHandler(db, renderer, imageService)

	r := chi.NewRouter()
	r.Use(sessionManager.LoadAndSave)

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Get(RouteRoot, homeHandler.Home)
		r.Get(RouteLogin, authHandler.LoginForm)
		r.Post(RouteLogin, authHandler.Login)
		r.Get(RouteRegister, authHandler.RegisterForm)
		r.Post(RouteRegister, authHandler.Register)
		r.Post(RouteLogout, authHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get(RouteMarket, marketHandler.Market)
		r.Post(RouteClaim, marketHandler.Claim)
		r.Post(RouteUnclaim, marketHandler.Unclaim)
		r.Get(RouteAccount, accountHandler.Account)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireManager())
			r.Post(RouteUserUpdate, userHandler.Update)
			r.Get(RouteItemAdd, itemHandler.AddForm)
			r.Post(RouteItemAdd, itemHandler.Add)
			r.Get(RouteItemEdit, itemHandler.EditForm)
			r.Post(RouteItemEdit, itemHandler.Edit)
			r.Post(RouteItemDelete, itemHandler.Delete)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	return &testApp{
		server: server,
		client: &http.Client{Jar: jar},
		db:     db,
	}
}

// get performs a GET against the app and returns the response with its body read.
func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

// postForm performs a form POST against the app and returns the response with
// its body read. Redirects are followed, so a 303 lands on the target page.
func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

// login signs the client's session in via the login form.
func (a *testApp) login(t *testing.T, username, password string) {
	t.Helper()
	resp, body := a.postForm(t, RouteLogin, url.Values{
		"username": {username},
		"password": {password},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s: status %d", username, resp.StatusCode)
	}
	if strings.Contains(body, "Invalid username or password") {
		t.Fatalf("login as %s rejected", username)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(b)
}
