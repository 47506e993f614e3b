// Package speech wraps a single-utterance synthesis primitive with queueing
// so at most one utterance plays at a time.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

// Options tunes how an utterance is rendered.
type Options struct {
	Language string  // BCP-47-ish code for the synthesis voice, e.g. "en"
	Rate     float64 // 1.0 = normal speed
	Pitch    float64 // 1.0 = normal pitch
}

// Synthesizer plays one utterance to completion. Implementations must honor
// context cancellation by stopping playback (best-effort — the platform may
// not guarantee instant silence).
type Synthesizer interface {
	Speak(ctx context.Context, text string, opts Options) error
}

// Recognizer converts captured voice input to text. No implementation ships
// in this build; the interface is the seam for platform speech-to-text.
type Recognizer interface {
	Transcribe(ctx context.Context) (string, error)
}

// baseWPM is the speech rate that Rate=1.0 maps to.
const baseWPM = 175

// ExecSynthesizer speaks by shelling out to the platform TTS binary:
// `say` on macOS, `espeak-ng`/`espeak` elsewhere. Cancelling the context
// kills the process.
type ExecSynthesizer struct {
	prog string
}

// Detect probes once at startup for a usable TTS binary. The returned flag
// is the speech capability for the whole process lifetime — callers branch
// on it instead of probing per call.
func Detect() (*ExecSynthesizer, bool) {
	candidates := []string{"espeak-ng", "espeak"}
	if runtime.GOOS == "darwin" {
		candidates = []string{"say", "espeak-ng", "espeak"}
	}
	for _, prog := range candidates {
		if path, err := exec.LookPath(prog); err == nil {
			return &ExecSynthesizer{prog: path}, true
		}
	}
	return nil, false
}

// Speak blocks until playback finishes or ctx is cancelled.
func (s *ExecSynthesizer) Speak(ctx context.Context, text string, opts Options) error {
	if text == "" {
		return nil
	}

	rate := opts.Rate
	if rate <= 0 {
		rate = 1.0
	}
	pitch := opts.Pitch
	if pitch <= 0 {
		pitch = 1.0
	}

	var args []string
	if isSayBinary(s.prog) {
		args = []string{"-r", strconv.Itoa(int(float64(baseWPM) * rate)), text}
	} else {
		args = []string{
			"-s", strconv.Itoa(int(float64(baseWPM) * rate)),
			"-p", strconv.Itoa(int(50 * pitch)), // espeak pitch midpoint is 50
		}
		if opts.Language != "" {
			args = append(args, "-v", opts.Language)
		}
		args = append(args, text)
	}

	cmd := exec.CommandContext(ctx, s.prog, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", s.prog, err)
	}
	return nil
}

func isSayBinary(path string) bool {
	return len(path) >= 3 && path[len(path)-3:] == "say"
}
