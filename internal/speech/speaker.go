package speech

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/anatolykoptev/go_recipe/internal/engine"
)

// Speaker serializes utterances through a Synthesizer.
// Invariant: at most one utterance plays at a time. Normal-priority text
// plays in FIFO order; priority text interrupts the in-flight utterance and
// plays ahead of the queue.
type Speaker struct {
	synth Synthesizer
	opts  Options

	mu       sync.Mutex
	queue    []string
	cancel   context.CancelFunc // non-nil while an utterance is in flight
	speaking bool

	wake      chan struct{}
	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSpeaker starts the playback worker. Call Close to stop it.
func NewSpeaker(synth Synthesizer, opts Options) *Speaker {
	s := &Speaker{
		synth: synth,
		opts:  opts,
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// Say queues text for playback after any in-flight and queued utterances.
func (s *Speaker) Say(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, text)
	s.mu.Unlock()
	s.signal()
}

// SayNow interrupts the current utterance and plays text ahead of the
// queue. Already-queued utterances keep their order after it.
func (s *Speaker) SayNow(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	s.queue = append([]string{text}, s.queue...)
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		engine.IncrTTSInterrupts()
		cancel()
	}
	s.signal()
}

// Stop cancels the in-flight utterance and clears the pending queue.
// Cancellation is best-effort: the platform call may trail off briefly.
func (s *Speaker) Stop() {
	s.mu.Lock()
	s.queue = nil
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Speaking reports whether an utterance is currently playing.
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Close stops playback and shuts the worker down. Safe to call twice.
func (s *Speaker) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.Stop()
	})
	s.wg.Wait()
}

func (s *Speaker) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Speaker) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.quit:
			return
		case <-s.wake:
		}
		s.drain()
	}
}

// drain plays queued utterances one at a time until the queue is empty or
// the speaker is closed.
func (s *Speaker) drain() {
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		text := s.queue[0]
		s.queue = s.queue[1:]
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.speaking = true
		s.mu.Unlock()

		engine.IncrTTSUtterances()
		err := s.synth.Speak(ctx, text, s.opts)

		s.mu.Lock()
		s.cancel = nil
		s.speaking = false
		s.mu.Unlock()
		cancel()

		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("speech: utterance failed", slog.Any("error", err))
		}
	}
}
