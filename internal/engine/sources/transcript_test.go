package sources

import (
	"testing"
)

func TestJoinSegments(t *testing.T) {
	segments := []Segment{
		{Text: "preheat the oven"},
		{Text: ""},
		{Text: "to 200 degrees"},
	}
	if got := JoinSegments(segments); got != "preheat the oven to 200 degrees" {
		t.Errorf("got %q", got)
	}
	if got := JoinSegments(nil); got != "" {
		t.Errorf("empty input: got %q", got)
	}
}

func TestParseTimedText(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.32" dur="2.5">Hello &amp;amp; welcome</text>
  <text start="2.9" dur="3.1">&lt;i&gt;today&lt;/i&gt; we make
pasta</text>
  <text start="6.0" dur="1.0">   </text>
</transcript>`)

	segments, err := parseTimedText(body)
	if err != nil {
		t.Fatalf("parseTimedText: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2 (blank line dropped)", len(segments))
	}
	if segments[0].Text != "Hello & welcome" {
		t.Errorf("segment 0 text = %q", segments[0].Text)
	}
	if segments[0].Offset != 0.32 || segments[0].Duration != 2.5 {
		t.Errorf("segment 0 timing = %v/%v", segments[0].Offset, segments[0].Duration)
	}
	if segments[1].Text != "today we make pasta" {
		t.Errorf("segment 1 text = %q", segments[1].Text)
	}
}

func TestParseTimedTextRejectsMalformedXML(t *testing.T) {
	if _, err := parseTimedText([]byte("<transcript><text")); err == nil {
		t.Error("want error on truncated XML")
	}
}

func TestPickBestTrack(t *testing.T) {
	manual := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang, LanguageCode: lang}
	}
	auto := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang + "&kind=asr", LanguageCode: lang, Kind: "asr"}
	}
	blocked := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang + "&exp=xpe", LanguageCode: lang}
	}

	tests := []struct {
		name   string
		tracks []captionTrack
		langs  []string
		want   string // expected BaseURL, "" = no track
	}{
		{
			name:   "manual preferred over auto",
			tracks: []captionTrack{auto("en"), manual("en")},
			langs:  []string{"en"},
			want:   manual("en").BaseURL,
		},
		{
			name:   "auto in preferred language beats manual in other",
			tracks: []captionTrack{manual("fr"), auto("en")},
			langs:  []string{"en"},
			want:   auto("en").BaseURL,
		},
		{
			name:   "english regional fallback",
			tracks: []captionTrack{manual("de"), manual("en-GB")},
			langs:  []string{"ja"},
			want:   manual("en-GB").BaseURL,
		},
		{
			name:   "last resort takes whatever is left",
			tracks: []captionTrack{manual("de")},
			langs:  []string{"en"},
			want:   manual("de").BaseURL,
		},
		{
			name:   "potoken tracks are skipped",
			tracks: []captionTrack{blocked("en"), manual("fr")},
			langs:  []string{"en"},
			want:   manual("fr").BaseURL,
		},
		{
			name:   "all blocked means no track",
			tracks: []captionTrack{blocked("en"), blocked("fr")},
			langs:  []string{"en"},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, ok := pickBestTrack(tt.tracks, tt.langs)
			if tt.want == "" {
				if ok {
					t.Fatalf("want no track, got %+v", track)
				}
				return
			}
			if !ok {
				t.Fatal("want a track, got none")
			}
			if track.BaseURL != tt.want {
				t.Errorf("got %q, want %q", track.BaseURL, tt.want)
			}
		})
	}
}

func TestNeedsPoToken(t *testing.T) {
	if !needsPoToken("https://yt/tt?a=1&exp=xpe&b=2") {
		t.Error("exp=xpe track not detected")
	}
	if needsPoToken("https://yt/tt?lang=en") {
		t.Error("plain track flagged")
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1};var x=2`, `{"a":1}`},
		{"nested", `{"a":{"b":[1,2]}} trailing`, `{"a":{"b":[1,2]}}`},
		{"braces inside strings", `{"a":"}{"}rest`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"say \"}\""}rest`, `{"a":"say \"}\""}`},
		{"not an object", `var x = 1`, ""},
		{"unbalanced", `{"a":{`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSONObject([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
