package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{
			name:     "watch URL",
			url:      "https://www.youtube.com/watch?v=abc12345678",
			expected: "abc12345678",
		},
		{
			name:     "watch URL with extra params",
			url:      "https://www.youtube.com/watch?v=abc12345678&t=42s",
			expected: "abc12345678",
		},
		{
			name:     "short URL",
			url:      "https://youtu.be/abc12345678",
			expected: "abc12345678",
		},
		{
			name:     "embed URL",
			url:      "https://www.youtube.com/embed/abc12345678",
			expected: "abc12345678",
		},
		{
			name:    "no video ID",
			url:     "https://www.youtube.com/",
			wantErr: true,
		},
		{
			name:    "ID too short",
			url:     "https://youtu.be/abc",
			wantErr: true,
		},
		{
			name:    "not a URL at all",
			url:     "definitely not a url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				var domainErr *domain.DomainError
				assert.ErrorAs(t, err, &domainErr)
				assert.Equal(t, domain.CodeInvalidURL, domainErr.Code)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func newTestFetcher(serverURL string, maxChars int) domain.TranscriptFetcher {
	return NewYouTubeFetcher(config.TranscriptConfig{
		BaseURL:  serverURL,
		Language: "en",
		MaxChars: maxChars,
	})
}

func TestFetchJoinsAndCollapsesFragments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc12345678", r.URL.Query().Get("v"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">Photosynthesis   converts</text>
  <text start="2.5" dur="3.0">light energy
into chemical energy</text>
  <text start="5.5" dur="1.0">in plants &amp; algae</text>
</transcript>`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, 5000)
	text, err := fetcher.Fetch(context.Background(), "https://youtu.be/abc12345678")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis converts light energy into chemical energy in plants & algae", text)
}

func TestFetchTruncatesToMaxChars(t *testing.T) {
	long := strings.Repeat("word ", 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript><text start="0" dur="1">` + long + `</text></transcript>`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, 50)
	text, err := fetcher.Fetch(context.Background(), "https://youtu.be/abc12345678")
	require.NoError(t, err)
	assert.Len(t, text, 50)
}

func TestFetchTruncatesOnRuneBoundary(t *testing.T) {
	// 100 two-byte runes; an odd byte cap would land mid-rune.
	long := strings.Repeat("é", 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript><text start="0" dur="1">` + long + `</text></transcript>`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, 51)
	text, err := fetcher.Fetch(context.Background(), "https://youtu.be/abc12345678")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text))
	assert.Equal(t, strings.Repeat("é", 25), text)
	assert.Equal(t, 50, len(text))
}

func TestFetchNoCaptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Empty 200 body is how the endpoint reports missing captions.
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, 5000)
	_, err := fetcher.Fetch(context.Background(), "https://youtu.be/abc12345678")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNoTranscript, domainErr.Code)
}

func TestFetchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, 5000)
	_, err := fetcher.Fetch(context.Background(), "https://youtu.be/abc12345678")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeTranscriptFetchFailed, domainErr.Code)
}

func TestFetchInvalidURLShortCircuits(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, 5000)
	_, err := fetcher.Fetch(context.Background(), "https://example.com/video")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidURL, domainErr.Code)
	assert.False(t, called)
}
