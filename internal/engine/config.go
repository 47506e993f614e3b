package engine

import (
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Config holds all engine configuration, injected from the CLI layer.
type Config struct {
	LLMAPIKey      string
	LLMAPIBase     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMRatePerMin  int // model calls per minute; 0 = unlimited

	// HistoryCharBudget caps how many characters of prior turns are sent to
	// the model per request. Turns beyond the budget are dropped from the
	// request only, never from the in-memory conversation.
	HistoryCharBudget int

	TranscriptLangs []string // caption language preference order
	FetchTimeout    time.Duration

	RedisURL             string // empty = L2 cache disabled
	CacheTTL             time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	SpeechEnabled  bool // capability flag, resolved once at startup
	SpeechLanguage string
	SpeechRate     float64
	SpeechPitch    float64

	HTTPClient *http.Client
	ChatModel  llms.Model // nil = model calls fail with ErrModelUnavailable
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration and builds the
// chat model client when an API key is present.
func Init(c Config) error {
	cfg = c
	Cfg = &cfg
	initLimiter()
	if cfg.ChatModel == nil && cfg.LLMAPIKey != "" {
		return SetAPIKey(cfg.LLMAPIKey)
	}
	return nil
}

// HasModel reports whether a chat model client is configured.
func HasModel() bool {
	return cfg.ChatModel != nil
}

// SetAPIKey rebuilds the chat model client with a new key. Used by the UI
// when the key is entered manually; the key lives in process memory only.
func SetAPIKey(key string) error {
	cfg.LLMAPIKey = key
	model, err := newChatModel(&cfg)
	if err != nil {
		return err
	}
	cfg.ChatModel = model
	return nil
}
