package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"authorstore/internal/catalog"
	"authorstore/internal/checkout"
	"authorstore/internal/config"
	"authorstore/internal/events"
	"authorstore/internal/folders"
	"authorstore/internal/identity"
	"authorstore/internal/session"
	"authorstore/internal/storefront"
)

type nopRelay struct{}

func (nopRelay) Submit(context.Context, checkout.Order) error { return nil }

type staticRoles map[string]identity.Role

func (s staticRoles) Role(_ context.Context, email string) (identity.Role, error) {
	role, ok := s[email]
	if !ok {
		return "", identity.ErrNoRole
	}
	return role, nil
}

type memoryDocs struct{}

func (memoryDocs) LoadFolders(context.Context, string) ([]folders.Folder, error) { return nil, nil }
func (memoryDocs) SaveFolders(context.Context, string, []folders.Folder) error { return nil }

type noCities struct{}

func (noCities) Cities(context.Context) ([]string, error) { return nil, nil }

func serve(h http.Handler, method, target, email string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if email != "" {
		req.Header.Set(identity.EmailHeader, email)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newStorefront(t *testing.T, promEnabled bool) http.Handler {
	t.Helper()
	cfg := &config.Config{PrometheusEnabled: promEnabled}
	return NewStorefrontRouter(cfg, StorefrontDeps{
		Catalog:  catalog.NewDefaultService(zap.NewNop()),
		Sessions: session.NewRegistry("test", time.Hour, func(string) *storefront.Session { return storefront.NewSession() }),
		Relay:    nopRelay{},
		Logger:   zap.NewNop(),
	})
}

func newMarketplace(t *testing.T, ready func(context.Context) error) http.Handler {
	t.Helper()
	store := events.NewStore(events.SampleEvents())
	engine := events.NewEngine(events.MatchExact, language.English)
	lg := zap.NewNop()

	return NewMarketplaceRouter(&config.Config{}, MarketplaceDeps{
		Browsers: session.NewRegistry("test", time.Hour, func(string) *events.Browser { return events.NewBrowser(store, engine) }),
		Cities:   events.NewCityList(noCities{}, lg),
		Folders: session.NewRegistry("test", time.Hour, func(email string) *folders.Manager {
			return folders.NewManager(email, memoryDocs{}, nil, lg)
		}),
		Roles: staticRoles{
			"p@example.com": identity.RolePhotographer,
			"c@example.com": identity.RoleClient,
		},
		Blobs: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("blob"))
		}),
		BlobBaseURL: "/blobs",
		Ready:       ready,
		Logger:      lg,
	})
}

func TestStorefrontRouter(t *testing.T) {
	h := newStorefront(t, true)

	rec := serve(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/books", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/session", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/metrics", "").Code)
}

func TestStorefrontRouterMetricsDisabled(t *testing.T) {
	h := newStorefront(t, false)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/metrics", "").Code)
}

func TestMarketplaceRouterGate(t *testing.T) {
	h := newMarketplace(t, nil)

	tests := []struct {
		name   string
		target string
		email  string
		status int
	}{
		{name: "anonymous events", target: "/events", status: http.StatusUnauthorized},
		{name: "client events", target: "/events", email: "c@example.com", status: http.StatusOK},
		{name: "photographer events", target: "/events", email: "p@example.com", status: http.StatusOK},
		{name: "no role", target: "/events", email: "new@example.com", status: http.StatusSeeOther},
		{name: "client folders", target: "/folders", email: "c@example.com", status: http.StatusForbidden},
		{name: "photographer folders", target: "/folders", email: "p@example.com", status: http.StatusOK},
		{name: "me", target: "/me", email: "c@example.com", status: http.StatusOK},
		{name: "onboarding is outside the gate", target: "/onboarding", email: "new@example.com", status: http.StatusOK},
		{name: "healthz is public", target: "/healthz", status: http.StatusOK},
		{name: "anonymous blob", target: "/blobs/p@example.com/1/a.jpg", status: http.StatusUnauthorized},
		{name: "blob without role", target: "/blobs/p@example.com/1/a.jpg", email: "new@example.com", status: http.StatusSeeOther},
		{name: "client blob", target: "/blobs/p@example.com/1/a.jpg", email: "c@example.com", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tt.target, tt.email)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusSeeOther {
				assert.Equal(t, identity.OnboardingPath, rec.Header().Get("Location"))
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	down := newMarketplace(t, func(context.Context) error { return errors.New("db down") })
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, http.MethodGet, "/readyz", "").Code)

	up := newMarketplace(t, func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, serve(up, http.MethodGet, "/readyz", "").Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
