package app

import (
	"time"

	"github.com/anatolykoptev/go_recipe/internal/engine/sources"
)

// tickMsg drives the spinner and the speaking indicator.
type tickMsg time.Time

// videoLoadedMsg is sent when the transcript pipeline finished:
// metadata + captions fetched and the classifier step ran.
type videoLoadedMsg struct {
	Video       *sources.Video
	IsRecipe    bool
	ClassifyErr error // non-nil = classifier unavailable, override allowed
}

// videoFailedMsg is sent when URL resolution or the caption fetch failed.
type videoFailedMsg struct {
	Err error
}

// turnDoneMsg is sent when a conversation turn completed (reply or apology
// appended — the sequence always advanced).
type turnDoneMsg struct{}
