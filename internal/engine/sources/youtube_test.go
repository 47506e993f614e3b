package sources

import (
	"errors"
	"testing"

	"github.com/anatolykoptev/go_recipe/internal/engine"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch with extra params", "https://www.youtube.com/watch?t=42&v=dQw4w9WgXcQ&list=PL1", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"legacy v path", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"surrounding whitespace", "  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.in)
			if err != nil {
				t.Fatalf("ExtractVideoID(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractVideoIDRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"not a url",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://vimeo.com/12345",
		"https://www.youtube.com/",
		"https://www.youtube.com/watch?v=tooshort",
		"ftp://youtube.com/watch?v=",
	}
	for _, in := range bad {
		if _, err := ExtractVideoID(in); !errors.Is(err, engine.ErrInvalidURL) {
			t.Errorf("ExtractVideoID(%q): want ErrInvalidURL, got %v", in, err)
		}
	}
}

func TestAssembleJoinsTranscript(t *testing.T) {
	v := assemble("dQw4w9WgXcQ", "Never Gonna Cook", []Segment{
		{Text: "first line", Offset: 0},
		{Text: "second line", Offset: 2.5},
	})
	if v.URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("URL = %q", v.URL)
	}
	if v.Transcript != "first line second line" {
		t.Errorf("Transcript = %q", v.Transcript)
	}
}
