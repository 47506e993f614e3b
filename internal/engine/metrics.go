package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests atomic.Int64
	OEmbedRequests     atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	ClassifyRequests   atomic.Int64
	TTSUtterances      atomic.Int64
	TTSInterrupts      atomic.Int64
}

// GetMetrics returns a snapshot of all counters including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"oembed_requests":     metrics.OEmbedRequests.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"classify_requests":   metrics.ClassifyRequests.Load(),
		"tts_utterances":      metrics.TTSUtterances.Load(),
		"tts_interrupts":      metrics.TTSInterrupts.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns counters as simple text, one per line.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"transcript_requests", "oembed_requests",
		"llm_calls", "llm_errors", "classify_requests",
		"tts_utterances", "tts_interrupts",
		"cache_hits", "cache_misses",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrOEmbedRequests()     { metrics.OEmbedRequests.Add(1) }
func IncrTTSUtterances()      { metrics.TTSUtterances.Add(1) }
func IncrTTSInterrupts()      { metrics.TTSInterrupts.Add(1) }
