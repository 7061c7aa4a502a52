package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusCode int
		wantErr    bool
	}{
		{name: "ok", body: "<html><body>Budget</body></html>", statusCode: http.StatusOK},
		{name: "server error", body: "error", statusCode: http.StatusInternalServerError, wantErr: true},
		{name: "not found", body: "not found", statusCode: http.StatusNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUA, gotLang string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				gotLang = r.Header.Get("Accept-Language")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			body, err := NewFetcher(time.Second, "test-agent").Fetch(context.Background(), server.URL)
			assert.Equal(t, "test-agent", gotUA)
			assert.True(t, strings.Contains(gotLang, "da"), gotLang)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unexpected status code")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestFetcher_Fetch_DefaultUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
	}))
	defer server.Close()

	body, err := NewFetcher(time.Second, "").Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "MinePenge")
}

func TestFetcher_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := NewFetcher(100*time.Millisecond, "").Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

func TestFetcher_Fetch_InvalidURL(t *testing.T) {
	f := NewFetcher(time.Second, "")
	for _, u := range []string{"", "not-a-url", "http://localhost:99999/test", "://bad"} {
		t.Run(u, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), u)
			require.Error(t, err)
		})
	}
}

func TestFetcher_Fetch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(5*time.Second, "").Fetch(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestFetcher_Fetch_Charset(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        string
	}{
		{name: "latin1 header", contentType: "text/html; charset=iso-8859-1",
			body: []byte("<p>Gr\xf8n \xf8konomi og l\xe5n</p>"), want: "<p>Grøn økonomi og lån</p>"},
		{name: "latin1 meta", contentType: "text/html",
			body: []byte("<html><head><meta charset=\"iso-8859-1\"></head><body>P\xe6n opsparing</body></html>"),
			want: `<html><head><meta charset="iso-8859-1"></head><body>Pæn opsparing</body></html>`},
		{name: "utf8", contentType: "text/html; charset=utf-8", body: []byte("<p>Grøn økonomi</p>"),
			want: "<p>Grøn økonomi</p>"},
		{name: "xml untouched", contentType: "application/xml", body: []byte("<urlset>\xf8</urlset>"),
			want: "<urlset>\xf8</urlset>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write(tt.body)
			}))
			defer server.Close()

			body, err := NewFetcher(time.Second, "").Fetch(context.Background(), server.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
