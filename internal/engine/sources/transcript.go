package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_recipe/internal/engine"
)

// Caption transcript fetching.
// Primary:  scrape watch page ytInitialPlayerResponse → caption track XML
// Fallback: ANDROID Innertube /player → captionTracks
// Both tiers end at the same timedtext XML, which carries per-line offsets.

// Segment is one caption line with its timing, as returned by the caption
// source. Offset and Duration are seconds.
type Segment struct {
	Text     string  `json:"text"`
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
}

// JoinSegments concatenates segment text with single spaces, in order.
func JoinSegments(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// FetchTranscript fetches the caption segments for a video.
// Returns engine.ErrNoCaptions when no usable track exists.
func FetchTranscript(ctx context.Context, videoID string, langs []string) ([]Segment, error) {
	engine.IncrTranscriptRequests()

	segments, err := fetchViaWatchPage(ctx, videoID, langs)
	if err == nil {
		return segments, nil
	}
	slog.Warn("transcript: watch page scrape failed, trying player",
		slog.String("id", videoID), slog.Any("error", err))

	return fetchViaPlayer(ctx, videoID, langs)
}

// needsPoToken reports whether a caption track URL requires a PoToken.
// Tracks with &exp=xpe only work in a browser and cannot be fetched here.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track:
// manual track in a preferred language, then auto-generated in a preferred
// language, then any English track, then whatever is left.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText fetches a timedtext caption URL and parses it into segments.
func fetchTimedText(ctx context.Context, baseURL string) ([]Segment, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

// parseTimedText converts timedtext XML into clean segments.
func parseTimedText(body []byte) ([]Segment, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segments := make([]Segment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := engine.CollapseSpaces(engine.CleanHTML(line.Text))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Offset:   line.Start,
			Duration: line.Duration,
		})
	}
	return segments, nil
}

// ytInitialPlayerResponseMarker marks the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// fetchViaWatchPage scrapes the watch page HTML, extracts the
// ytInitialPlayerResponse JSON, and follows its caption track. Works from
// most IPs without an Innertube session.
func fetchViaWatchPage(ctx context.Context, videoID string, langs []string) ([]Segment, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := strings.Index(string(body), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSONObject(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return segmentsFromPlayer(ctx, &playerResp, langs)
}

// fetchViaPlayer uses the ANDROID Innertube /player endpoint.
func fetchViaPlayer(ctx context.Context, videoID string, langs []string) ([]Segment, error) {
	playerResp, err := postPlayer(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return segmentsFromPlayer(ctx, playerResp, langs)
}

// segmentsFromPlayer resolves caption tracks from a player response and
// fetches the chosen track. A present-but-empty track list means the video
// genuinely has no captions.
func segmentsFromPlayer(ctx context.Context, playerResp *innertubePlayerResp, langs []string) ([]Segment, error) {
	if playerResp.Captions == nil {
		if playerResp.PlayabilityStatus != nil && playerResp.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("%w: %s", engine.ErrNoCaptions, playerResp.PlayabilityStatus.Reason)
		}
		return nil, engine.ErrNoCaptions
	}
	tracks := playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, engine.ErrNoCaptions
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return nil, fmt.Errorf("%w: all tracks require PoToken", engine.ErrNoCaptions)
	}
	return fetchTimedText(ctx, track.BaseURL)
}

// extractJSONObject returns the balanced {...} object at the start of data,
// respecting string literals and escapes.
func extractJSONObject(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	depth := 0
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return data[:i+1]
			}
		}
	}
	return nil
}
