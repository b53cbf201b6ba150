package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraveling/cmd/internal/contentclient"
	"spacetraveling/cmd/internal/contentclient/prismictest"
	"spacetraveling/cmd/internal/eventbus"
	"spacetraveling/cmd/internal/views"
	"spacetraveling/cmd/web/dto"
	"spacetraveling/cmd/web/services"
	"spacetraveling/config"
	"spacetraveling/richtext"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.AppConfig {
	return config.AppConfig{
		Content: config.ContentConfig{DocumentType: prismictest.DocumentType},
		Listing: config.ListingConfig{PageSize: 2, MaxPages: 3},
		Site: config.SiteConfig{
			Title:           "spacetraveling",
			BaseURL:         "https://blog.example.com",
			FallbackTimeout: time.Second,
		},
		Server: config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func samplePosts() []prismictest.Document {
	heading := "Proin et varius"
	return []prismictest.Document{
		{
			UID:                  "como-utilizar-hooks",
			FirstPublicationDate: "2021-03-15T19:25:28+0000",
			Title:                "Como utilizar Hooks",
			Subtitle:             "Pensando em sincronização em vez de ciclos de vida",
			Author:               "Joseph Oliveira",
			BannerURL:            "https://images.example.com/hooks.png",
			Content: []prismictest.Section{
				{Heading: &heading, Body: richtext.RichText{{Type: richtext.TypeParagraph, Text: "Hello <script>alert(1)</script> world"}}},
			},
		},
		{UID: "criando-um-app", FirstPublicationDate: "2021-03-20T10:00:00+0000", Title: "Criando um app CRA do zero", Author: "Danilo Vieira"},
		{UID: "terceiro-post", FirstPublicationDate: "2021-03-25T10:00:00+0000", Title: "Terceiro post", Author: "Ana"},
	}
}

func newTestRouter(t *testing.T, cfg config.AppConfig, bus *eventbus.Bus) (*gin.Engine, *prismictest.Server) {
	t.Helper()
	srv := prismictest.NewServer(samplePosts()...)
	t.Cleanup(srv.Close)

	renderer, err := views.New()
	require.NoError(t, err)

	client := contentclient.NewWithHTTPClient(srv.URL, srv.Client())
	deps := Deps{Config: cfg, Posts: services.NewPostService(client, cfg), Renderer: renderer}
	if bus != nil {
		deps.Bus = bus
	}
	return New(deps), srv
}

func do(r http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListingPage(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), nil)

	w := do(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Como utilizar Hooks")
	assert.Contains(t, body, "Criando um app CRA do zero")
	assert.NotContains(t, body, "Terceiro post")
	assert.Contains(t, body, `href="/?pages=2"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = do(r, http.MethodGet, "/?pages=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Terceiro post")
	assert.NotContains(t, w.Body.String(), "Carregar mais posts")
}

func TestListingPageStopsAtMaxPages(t *testing.T) {
	cfg := testConfig()
	cfg.Listing.PageSize = 1
	cfg.Listing.MaxPages = 2
	r, _ := newTestRouter(t, cfg, nil)

	w := do(r, http.MethodGet, "/?pages=50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Criando um app CRA do zero")
	assert.NotContains(t, w.Body.String(), "Terceiro post")
	assert.NotContains(t, w.Body.String(), "Carregar mais posts")
}

func TestPostPage(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), nil)

	w := do(r, http.MethodGet, "/post/como-utilizar-hooks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Como utilizar Hooks")
	assert.Contains(t, body, "Proin et varius")
	assert.Contains(t, body, "1 min")
	assert.Contains(t, body, "https://images.example.com/hooks.png")
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestPostPageNotFound(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), nil)

	w := do(r, http.MethodGet, "/post/nao-existe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post não encontrado")
}

func TestPostPageNotReady(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	cfg := testConfig()
	cfg.Site.FallbackTimeout = 20 * time.Millisecond
	renderer, err := views.New()
	require.NoError(t, err)
	client := contentclient.NewWithHTTPClient(slow.URL, slow.Client())
	r := New(Deps{Config: cfg, Posts: services.NewPostService(client, cfg), Renderer: renderer})

	w := do(r, http.MethodGet, "/post/como-utilizar-hooks", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "Carregando...")
	assert.Contains(t, w.Body.String(), `http-equiv="refresh"`)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), nil)

	w := do(r, http.MethodGet, "/nada/aqui", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post não encontrado")
}

func TestPostsAPIFollowsNextPage(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), nil)

	var uids []string
	target := "/api/v1/posts"
	for i := 0; target != ""; i++ {
		require.Less(t, i, 5)
		w := do(r, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var page dto.PostPageDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		for _, p := range page.Results {
			uids = append(uids, p.UID)
		}
		target = ""
		if page.NextPage != nil {
			assert.True(t, strings.HasPrefix(*page.NextPage, "/api/v1/posts?cursor="))
			target = *page.NextPage
		}
	}
	assert.Equal(t, []string{"como-utilizar-hooks", "criando-um-app", "terceiro-post"}, uids)
}

func TestPostsAPIRejectsForeignCursor(t *testing.T) {
	r, srv := newTestRouter(t, testConfig(), nil)

	w := do(r, http.MethodGet, "/api/v1/posts?cursor="+url.QueryEscape("http://169.254.169.254/api/v2/documents/search"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid_cursor"}`, w.Body.String())
	assert.Equal(t, int64(0), srv.Searches())
}

func TestPostsAPIUpstreamFailure(t *testing.T) {
	r, srv := newTestRouter(t, testConfig(), nil)
	srv.SearchStatus = http.StatusInternalServerError

	w := do(r, http.MethodGet, "/api/v1/posts", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), nil)

	w := do(r, http.MethodOptions, "/api/v1/posts", http.Header{
		"Origin":                        {"http://localhost:3000"},
		"Access-Control-Request-Method": {"GET"},
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodGet, "/api/v1/posts", http.Header{"Origin": {"https://evil.example.com"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestFeedAndHealth(t *testing.T) {
	r, _ := newTestRouter(t, testConfig(), nil)

	w := do(r, http.MethodGet, "/feed.xml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, w.Body.String(), "https://blog.example.com/post/como-utilizar-hooks")

	w = do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestWebhookPublishesRebuild(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	received := make(chan eventbus.RebuildRequestedEvent, 1)
	_, err := bus.SubscribeRebuild(ctx, func(ctx context.Context, event eventbus.RebuildRequestedEvent) error {
		received <- event
		return nil
	})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Server.WebhookEnabled = true
	r, _ := newTestRouter(t, cfg, bus)

	w := do(r, http.MethodPost, "/webhooks/content", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	var accepted dto.RebuildAcceptedDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))

	select {
	case event := <-received:
		assert.Equal(t, accepted.ID, event.ID)
		assert.Equal(t, "webhook", event.Source)
	case <-time.After(time.Second):
		t.Fatal("rebuild event not delivered")
	}
}

func TestWebhookDisabled(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	r, _ := newTestRouter(t, testConfig(), bus)

	w := do(r, http.MethodPost, "/webhooks/content", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticOutputServedFirst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "post", "como-utilizar-hooks"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post", "como-utilizar-hooks", "index.html"), []byte("<p>prebuilt</p>"), 0o644))

	cfg := testConfig()
	cfg.Server.ServeStatic = true
	cfg.Site.OutputDir = dir
	r, srv := newTestRouter(t, cfg, nil)

	w := do(r, http.MethodGet, "/post/como-utilizar-hooks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>prebuilt</p>", w.Body.String())
	assert.Equal(t, int64(0), srv.Searches())

	w = do(r, http.MethodGet, "/post/criando-um-app", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Criando um app CRA do zero")
}
