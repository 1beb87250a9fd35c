package htmlscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaedeh1ra/QR-Detector/internal/httpclient"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		title string
		ok    bool
	}{
		{"multiline upper case", "<html><TITLE>\n  Example Site  </TITLE>", "Example Site", true},
		{"collapse inner runs", "<title>Sign\t in\n\n to   your bank</title>", "Sign in to your bank", true},
		{"attributes", `<title data-x="1">Hi</title>`, "Hi", true},
		{"first wins", "<title>One</title><title>Two</title>", "One", true},
		{"entities kept", "<title>Tom &amp; Jerry</title>", "Tom &amp; Jerry", true},
		{"empty", "<title>   </title>", "", false},
		{"missing", "<html><body>nothing</body></html>", "", false},
		{"unterminated", "<title>never closed", "", false},
		{"not a title tag", "<titles>x</titles>", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, ok := ExtractTitle([]byte(tt.body))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.title, title)
		})
	}
}

func newFetcher(limit int64) *TitleFetcher {
	client := httpclient.New(httpclient.Config{Timeout: 5 * time.Second, Logger: zerolog.Nop()})
	return NewTitleFetcher(client, limit, zerolog.Nop())
}

func TestFetchTitle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("<html><head><title>Example Site</title></head></html>"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<title>Not Found</title>"))
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})
	mux.HandleFunc("/late", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 4096) + "<title>Too Late</title>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	title := newFetcher(0).FetchTitle(context.Background(), srv.URL+"/ok")
	require.NotNil(t, title)
	assert.Equal(t, "Example Site", *title)

	assert.Nil(t, newFetcher(0).FetchTitle(context.Background(), srv.URL+"/missing"))
	assert.Nil(t, newFetcher(0).FetchTitle(context.Background(), srv.URL+"/redirect"))
	assert.Nil(t, newFetcher(1024).FetchTitle(context.Background(), srv.URL+"/late"))
	assert.NotNil(t, newFetcher(0).FetchTitle(context.Background(), srv.URL+"/late"))
}

func TestFetchTitleUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	assert.Nil(t, newFetcher(0).FetchTitle(context.Background(), addr))
	assert.Nil(t, newFetcher(0).FetchTitle(context.Background(), "http://[::1"))
}
