package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anatolykoptev/go_recipe/internal/engine"
	"github.com/anatolykoptev/go_recipe/internal/engine/sources"
	"github.com/anatolykoptev/go_recipe/internal/speech"
)

// screen is the UI state machine. The flow mirrors the app's navigation:
// key prompt (only when unresolved) → URL entry → loading → optional
// not-a-recipe confirm → chat.
type screen int

const (
	screenKey screen = iota
	screenURL
	screenLoading
	screenConfirm
	screenChat
)

const (
	loadTimeout = 90 * time.Second
	turnTimeout = 60 * time.Second
	tickEvery   = 150 * time.Millisecond
)

// invalidURLMessage is shown inline on the URL screen; no navigation happens.
const invalidURLMessage = "Please enter a valid YouTube URL"

// voice gates speech playback behind the mute toggle. Say is called from
// command goroutines, so the flag is atomic.
type voice struct {
	speaker *speech.Speaker
	muted   atomic.Bool
}

func (v *voice) Say(text string) {
	if v.speaker != nil && !v.muted.Load() {
		v.speaker.Say(text)
	}
}

func (v *voice) SayNow(text string) {
	if v.speaker != nil && !v.muted.Load() {
		v.speaker.SayNow(text)
	}
}

// Model is the root bubbletea model.
type Model struct {
	width  int
	height int

	screen  screen
	input   []rune
	errText string
	notice  string

	// busy is true while a request chain is in flight; submit controls are
	// disabled for its duration. One in-flight chain per screen, no more.
	busy    bool
	spinner int

	video *sources.Video
	conv  *engine.Conversation
	turns []engine.Turn // display snapshot; conv is mutated off the UI goroutine
	scroll int

	voice    *voice
	speechOK bool
}

// New builds the root model. speaker may be nil when no TTS capability was
// detected at startup.
func New(speaker *speech.Speaker, speechOK bool) Model {
	first := screenURL
	if !engine.HasModel() {
		first = screenKey
	}
	return Model{
		screen:   first,
		voice:    &voice{speaker: speaker},
		speechOK: speechOK,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadVideoCmd runs the transcript pipeline and the classifier step.
func loadVideoCmd(rawURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		video, err := sources.LoadVideo(ctx, rawURL)
		if err != nil {
			return videoFailedMsg{Err: err}
		}
		isRecipe, cerr := engine.ClassifyRecipe(ctx, video.Transcript)
		return videoLoadedMsg{Video: video, IsRecipe: isRecipe, ClassifyErr: cerr}
	}
}

// askCmd runs one conversation turn. conv is only ever touched from here
// while a turn is in flight; the UI renders its own snapshot.
func askCmd(conv *engine.Conversation, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		conv.Ask(ctx, text)
		return turnDoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.spinner++
		return m, tick()

	case videoFailedMsg:
		m.busy = false
		m.screen = screenURL
		m.errText = describeLoadError(msg.Err)
		return m, nil

	case videoLoadedMsg:
		m.busy = false
		m.video = msg.Video
		if msg.ClassifyErr != nil {
			m.screen = screenConfirm
			m.notice = "Couldn't check this video: " + msg.ClassifyErr.Error()
			return m, nil
		}
		if !msg.IsRecipe {
			m.screen = screenConfirm
			m.notice = "This doesn't look like a cooking video."
			return m, nil
		}
		return m.enterChat(), nil

	case turnDoneMsg:
		m.busy = false
		// The user may have left the chat while the turn was in flight;
		// drop the stale completion instead of touching a gone session.
		if m.conv == nil {
			return m, nil
		}
		m.turns = m.conv.Turns()
		m.scroll = 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings first.
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.voice.speaker != nil {
			m.voice.speaker.Stop()
		}
		return m, tea.Quit
	case tea.KeyCtrlS:
		if m.voice.speaker != nil {
			m.voice.speaker.Stop()
		}
		return m, nil
	case tea.KeyCtrlT:
		m.voice.muted.Store(!m.voice.muted.Load())
		if m.voice.muted.Load() && m.voice.speaker != nil {
			m.voice.speaker.Stop()
		}
		return m, nil
	}

	switch m.screen {
	case screenKey:
		return m.handleKeyScreen(msg)
	case screenURL:
		return m.handleURLScreen(msg)
	case screenConfirm:
		return m.handleConfirmScreen(msg)
	case screenChat:
		return m.handleChatScreen(msg)
	}
	return m, nil
}

func (m Model) handleKeyScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		key := string(m.input)
		if key == "" {
			return m, nil
		}
		if err := engine.SetAPIKey(key); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.input = nil
		m.errText = ""
		m.screen = screenURL
		return m, nil
	case tea.KeyBackspace:
		m.input = trimLast(m.input)
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		m.input = append(m.input, msg.Runes...)
		return m, nil
	}
	return m, nil
}

func (m Model) handleURLScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		raw := string(m.input)
		// Validate before any network call: a bad link shows an inline
		// error and never navigates.
		if _, err := sources.ExtractVideoID(raw); err != nil {
			m.errText = invalidURLMessage
			return m, nil
		}
		m.errText = ""
		m.busy = true
		m.screen = screenLoading
		return m, loadVideoCmd(raw)
	case tea.KeyBackspace:
		m.input = trimLast(m.input)
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		m.input = append(m.input, msg.Runes...)
		return m, nil
	}
	return m, nil
}

func (m Model) handleConfirmScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		// Manual override: proceed to chat anyway.
		return m.enterChat(), nil
	case "n", "esc":
		m.screen = screenURL
		m.notice = ""
		m.video = nil
		return m, nil
	}
	return m, nil
}

func (m Model) handleChatScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		text := string(m.input)
		if text == "" {
			return m, nil
		}
		m.input = nil
		m.busy = true
		m.scroll = 0
		// Show the user turn immediately; the canonical sequence in conv
		// catches up when the turn completes.
		m.turns = append(m.turns, engine.Turn{Role: engine.RoleUser, Content: text})
		return m, askCmd(m.conv, text)
	case tea.KeyEsc:
		if m.voice.speaker != nil {
			m.voice.speaker.Stop()
		}
		m.screen = screenURL
		m.busy = false
		m.conv = nil
		m.turns = nil
		m.video = nil
		m.input = nil
		m.errText = ""
		m.notice = ""
		return m, nil
	case tea.KeyPgUp:
		m.scroll++
		return m, nil
	case tea.KeyPgDown:
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	case tea.KeyBackspace:
		m.input = trimLast(m.input)
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		m.input = append(m.input, msg.Runes...)
		return m, nil
	}
	return m, nil
}

// enterChat seeds the conversation and speaks the greeting.
func (m Model) enterChat() Model {
	title := DefaultChatTitle
	transcript := ""
	if m.video != nil {
		title = m.video.Title
		transcript = m.video.Transcript
	}
	m.conv = engine.NewConversation(title, transcript, m.voice)
	m.turns = m.conv.Turns()
	m.screen = screenChat
	m.input = nil
	m.errText = ""
	m.notice = ""
	m.scroll = 0
	m.voice.Say(engine.GreetingMessage)
	return m
}

// DefaultChatTitle is used when no video metadata is available.
const DefaultChatTitle = "this recipe"

// describeLoadError maps pipeline failures to user-facing text.
func describeLoadError(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidURL):
		return invalidURLMessage
	case errors.Is(err, engine.ErrNoCaptions):
		return "This video has no captions to cook from. Try another one."
	case errors.Is(err, engine.ErrModelUnavailable):
		return "The assistant is unreachable: " + err.Error()
	default:
		return err.Error()
	}
}

func trimLast(runes []rune) []rune {
	if len(runes) == 0 {
		return runes
	}
	return runes[:len(runes)-1]
}
