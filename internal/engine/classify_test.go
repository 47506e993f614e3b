package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestClassifyRecipe(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"plain yes", "Yes", true},
		{"lowercase yes", "yes", true},
		{"chatty yes", "Yes, this is clearly a cooking recipe.", true},
		{"plain no", "No", false},
		{"chatty no", "No, this looks like a travel vlog.", false},
		{"ambiguous", "It is hard to say.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModel{replies: []string{tt.reply}}
			initTestEngine(t, fake, Config{})

			got, err := ClassifyRecipe(context.Background(), "chop the onions finely")
			if err != nil {
				t.Fatalf("ClassifyRecipe: %v", err)
			}
			if got != tt.want {
				t.Errorf("reply %q: got %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestClassifyRecipeTruncatesExcerpt(t *testing.T) {
	fake := &fakeModel{replies: []string{"No"}}
	initTestEngine(t, fake, Config{})

	long := strings.Repeat("¤", 5000)
	if _, err := ClassifyRecipe(context.Background(), long); err != nil {
		t.Fatalf("ClassifyRecipe: %v", err)
	}

	reqs := fake.requests()
	if len(reqs) != 1 || len(reqs[0]) != 1 {
		t.Fatalf("unexpected request shape: %v", reqs)
	}
	text := textOf(t, reqs[0][0])
	if got := strings.Count(text, "¤"); got > classifyExcerptRunes {
		t.Errorf("excerpt not truncated: %d runes of transcript", got)
	}
}

func TestClassifyRecipePropagatesModelFailure(t *testing.T) {
	fake := &fakeModel{err: errors.New("timeout")}
	initTestEngine(t, fake, Config{})

	_, err := ClassifyRecipe(context.Background(), "some transcript")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("want ErrModelUnavailable, got %v", err)
	}
}
