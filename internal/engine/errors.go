package engine

import "errors"

// Error taxonomy. Every failure surfaced to the UI maps onto one of these
// sentinels; callers match with errors.Is and convert to a user-facing message
// at the screen level.
var (
	// ErrInvalidURL means the link is malformed or not a supported YouTube shape.
	ErrInvalidURL = errors.New("invalid youtube url")

	// ErrNoCaptions means the video exists but has no usable caption track.
	ErrNoCaptions = errors.New("video has no captions")

	// ErrModelUnavailable covers missing/invalid API key, network failure, and
	// provider errors on the chat model.
	ErrModelUnavailable = errors.New("chat model unavailable")

	// ErrTranscriptionFailed means voice input produced an empty or unusable
	// speech-to-text result.
	ErrTranscriptionFailed = errors.New("speech transcription failed")
)
