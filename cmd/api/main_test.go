package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"authorstore/internal/config"
	"authorstore/internal/events"
	httpserver "authorstore/internal/http"
	"authorstore/internal/identity"
	"authorstore/internal/session"
)

type staticRoles map[string]identity.Role

func (s staticRoles) Role(_ context.Context, email string) (identity.Role, error) {
	role, ok := s[email]
	if !ok {
		return "", identity.ErrNoRole
	}
	return role, nil
}

type noCities struct{}

func (noCities) Cities(context.Context) ([]string, error) { return nil, nil }

func newMarketplaceUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	lg := zap.NewNop()
	store := events.NewStore(events.SampleEvents())
	engine := events.NewEngine(events.MatchExact, language.English)

	h := httpserver.NewMarketplaceRouter(&config.Config{}, httpserver.MarketplaceDeps{
		Browsers: session.NewRegistry("gateway_test", time.Hour, func(string) *events.Browser { return events.NewBrowser(store, engine) }),
		Cities:   events.NewCityList(noCities{}, lg),
		Roles:    staticRoles{"c@example.com": identity.RoleClient},
		Blobs: http.StripPrefix("/blobs", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("blob:" + r.URL.Path))
		})),
		BlobBaseURL: "/blobs",
		Logger:      lg,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T, storefrontURL, marketplaceURL string) *httptest.Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Gateway.StorefrontURL = storefrontURL
	cfg.Gateway.MarketplaceURL = marketplaceURL
	cfg.Blob.BaseURL = "/blobs"

	h, err := newRouter(cfg, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, client *http.Client, url, email string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if email != "" {
		req.Header.Set(identity.EmailHeader, email)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestGatewayOnboardingRedirectResolves(t *testing.T) {
	storefront := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(storefront.Close)
	gw := newGateway(t, storefront.URL, newMarketplaceUpstream(t).URL)

	noFollow := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, _ := get(t, noFollow, gw.URL+"/api/v1/marketplace/events", "new@example.com")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.Equal(t, identity.OnboardingPath, location)

	resp, body := get(t, noFollow, gw.URL+location, "new@example.com")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var onboarding struct {
		Email string          `json:"email"`
		Roles []identity.Role `json:"roles"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &onboarding))
	assert.Equal(t, "new@example.com", onboarding.Email)
	assert.Equal(t, []identity.Role{identity.RolePhotographer, identity.RoleClient}, onboarding.Roles)
}

func TestGatewayRoutes(t *testing.T) {
	storefront := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("storefront:" + r.URL.Path))
	}))
	t.Cleanup(storefront.Close)
	gw := newGateway(t, storefront.URL, newMarketplaceUpstream(t).URL)

	resp, body := get(t, http.DefaultClient, gw.URL+"/api/v1/storefront/books", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "storefront:/books", body)

	resp, body = get(t, http.DefaultClient, gw.URL+"/blobs/p@example.com/1/a.jpg", "c@example.com")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "blob:/p@example.com/1/a.jpg", body)

	resp, _ = get(t, http.DefaultClient, gw.URL+"/blobs/p@example.com/1/a.jpg", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = get(t, http.DefaultClient, gw.URL+"/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	resp, _ = get(t, http.DefaultClient, gw.URL+"/books", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGatewayUpstreamDown(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()
	gw := newGateway(t, downURL, downURL)

	resp, _ := get(t, http.DefaultClient, gw.URL+"/api/v1/storefront/books", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestNewRouterRejectsRelativeUpstream(t *testing.T) {
	cfg := &config.Config{}
	cfg.Gateway.StorefrontURL = "/storefront"
	cfg.Gateway.MarketplaceURL = "http://localhost:8082"

	_, err := newRouter(cfg, zap.NewNop())
	assert.Error(t, err)
}
