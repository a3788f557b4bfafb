// Package transcript fetches YouTube captions through the public timedtext
// endpoint and normalizes them into a single text blob for the generation
// pipeline.
package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/logger"

	"go.uber.org/zap"
)

var (
	videoIDRe    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// YouTubeFetcher implements domain.TranscriptFetcher against the timedtext
// caption service.
type YouTubeFetcher struct {
	httpClient *http.Client
	baseURL    string
	language   string
	maxChars   int
}

// NewYouTubeFetcher creates a fetcher from the transcript configuration.
func NewYouTubeFetcher(cfg config.TranscriptConfig) domain.TranscriptFetcher {
	return &YouTubeFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.BaseURL,
		language:   cfg.Language,
		maxChars:   cfg.MaxChars,
	}
}

// ExtractVideoID resolves the canonical 11-character video ID from the known
// URL shapes: watch?v=, youtu.be/ and /embed/.
func ExtractVideoID(videoURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return "", domain.NewInvalidURLError(videoURL)
	}

	var id string
	switch {
	case strings.Contains(u.Path, "/watch"):
		id = u.Query().Get("v")
	case strings.HasSuffix(u.Host, "youtu.be"):
		id = strings.Trim(u.Path, "/")
	case strings.Contains(u.Path, "/embed/"):
		id = strings.Trim(strings.TrimPrefix(u.Path, "/embed/"), "/")
	}

	if !videoIDRe.MatchString(id) {
		return "", domain.NewInvalidURLError(videoURL)
	}
	return id, nil
}

type timedText struct {
	XMLName xml.Name    `xml:"transcript"`
	Texts   []captionEl `xml:"text"`
}

type captionEl struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

// Fetch implements domain.TranscriptFetcher. Fragment texts are joined in
// their given order with single spaces, whitespace is collapsed, and the
// result is truncated to the configured maximum to respect downstream token
// limits. Transient failures surface immediately; there is no retry.
func (f *YouTubeFetcher) Fetch(ctx context.Context, videoURL string) (string, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/api/timedtext?v=%s&lang=%s", f.baseURL, url.QueryEscape(videoID), url.QueryEscape(f.language))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", domain.NewTranscriptFetchError(err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", domain.NewTranscriptFetchError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", domain.NewNoTranscriptError(videoID)
	}
	if resp.StatusCode != http.StatusOK {
		return "", domain.NewTranscriptFetchError(fmt.Errorf("timedtext returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewTranscriptFetchError(err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		// The endpoint answers 200 with an empty body for videos without
		// captions.
		return "", domain.NewNoTranscriptError(videoID)
	}

	var parsed timedText
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return "", domain.NewTranscriptFetchError(err)
	}
	if len(parsed.Texts) == 0 {
		return "", domain.NewNoTranscriptError(videoID)
	}

	fragments := make([]string, 0, len(parsed.Texts))
	for _, fragment := range parsed.Texts {
		fragments = append(fragments, html.UnescapeString(fragment.Body))
	}

	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.Join(fragments, " "), " "))
	if text == "" {
		return "", domain.NewNoTranscriptError(videoID)
	}
	if f.maxChars > 0 && len(text) > f.maxChars {
		// Cut on a rune boundary so multi-byte captions never yield
		// invalid UTF-8.
		cut := f.maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	logger.Get().Debug("Fetched transcript",
		zap.String("video_id", videoID),
		zap.Int("fragments", len(parsed.Texts)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}
