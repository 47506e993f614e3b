package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_recipe/internal/engine"
)

// Supported URL shapes all carry the same 11-char video identifier:
//
//	https://www.youtube.com/watch?v=dQw4w9WgXcQ
//	https://youtu.be/dQw4w9WgXcQ
//	https://www.youtube.com/embed/dQw4w9WgXcQ
//	https://www.youtube.com/shorts/dQw4w9WgXcQ
//	https://www.youtube.com/v/dQw4w9WgXcQ
var (
	bareIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	idPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`/(?:embed|shorts|v)/([A-Za-z0-9_-]{11})`),
	}
)

// ExtractVideoID pulls the 11-character video identifier out of a YouTube
// link. A bare identifier is accepted as-is. Returns engine.ErrInvalidURL
// when nothing matches — never panics on garbage input.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty input", engine.ErrInvalidURL)
	}
	if bareIDRe.MatchString(raw) {
		return raw, nil
	}
	if !strings.Contains(raw, "youtube.com") && !strings.Contains(raw, "youtu.be") {
		return "", fmt.Errorf("%w: %q is not a youtube link", engine.ErrInvalidURL, raw)
	}
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(raw); len(m) == 2 {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: no video id in %q", engine.ErrInvalidURL, raw)
}

// Video is everything a chat session needs about one video.
type Video struct {
	ID         string
	URL        string
	Title      string
	Segments   []Segment
	Transcript string // segments joined with single spaces
}

// cachedVideo is the cache representation of a fetched video.
type cachedVideo struct {
	Title    string    `json:"title"`
	Segments []Segment `json:"segments"`
}

// LoadVideo resolves a raw URL into a Video: identifier, display title, and
// caption transcript. The title fetch is best-effort and never fails; the
// transcript fetch returns engine.ErrNoCaptions when the video has no usable
// captions. Results are cached by video ID.
func LoadVideo(ctx context.Context, rawURL string) (*Video, error) {
	id, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	key := engine.CacheKey("video", id)
	if cached, ok := engine.CacheLoadJSON[cachedVideo](ctx, key); ok {
		return assemble(id, cached.Title, cached.Segments), nil
	}

	title := FetchTitle(ctx, id)
	segments, err := FetchTranscript(ctx, id, engine.Cfg.TranscriptLangs)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s", engine.ErrNoCaptions, id)
	}

	engine.CacheStoreJSON(ctx, key, cachedVideo{Title: title, Segments: segments})
	return assemble(id, title, segments), nil
}

func assemble(id, title string, segments []Segment) *Video {
	return &Video{
		ID:         id,
		URL:        "https://www.youtube.com/watch?v=" + id,
		Title:      title,
		Segments:   segments,
		Transcript: JoinSegments(segments),
	}
}
