package sources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_recipe/internal/engine"
	"golang.org/x/net/html"
)

// DefaultTitle is substituted when no title can be resolved.
const DefaultTitle = "YouTube Video"

const oembedURL = "https://www.youtube.com/oembed"

type oembedResp struct {
	Title string `json:"title"`
}

// FetchTitle resolves the display title for a video. Best-effort by design:
// oEmbed first, watch-page <title> second, DefaultTitle last. Never returns
// an error — a missing title must not block the transcript flow.
func FetchTitle(ctx context.Context, videoID string) string {
	engine.IncrOEmbedRequests()

	if title, err := fetchTitleOEmbed(ctx, videoID); err == nil {
		return title
	} else {
		slog.Debug("oembed: title fetch failed, trying watch page",
			slog.String("id", videoID), slog.Any("error", err))
	}

	if title, err := fetchTitleWatchPage(ctx, videoID); err == nil {
		return title
	} else {
		slog.Debug("oembed: watch page title failed",
			slog.String("id", videoID), slog.Any("error", err))
	}

	return DefaultTitle
}

func fetchTitleOEmbed(ctx context.Context, videoID string) (string, error) {
	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("format", "json")

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{resp.StatusCode}
	}

	var out oembedResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Title) == "" {
		return "", errEmptyTitle
	}
	return strings.TrimSpace(out.Title), nil
}

// fetchTitleWatchPage parses the watch page HTML and extracts <title>.
func fetchTitleWatchPage(ctx context.Context, videoID string) (string, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.youtube.com/watch?v="+videoID, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return "", err
	}
	title := findTitle(doc)
	title = strings.TrimSuffix(strings.TrimSpace(title), " - YouTube")
	if title == "" {
		return "", errEmptyTitle
	}
	return title, nil
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return n.FirstChild.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

type statusError struct{ code int }

func (e *statusError) Error() string { return http.StatusText(e.code) }

var errEmptyTitle = errors.New("empty title")
