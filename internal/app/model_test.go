package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/anatolykoptev/go_recipe/internal/engine"
	"github.com/anatolykoptev/go_recipe/internal/engine/sources"
)

type scriptedModel struct {
	reply string
	err   error
}

func (s *scriptedModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s.reply}}}, nil
}

func (s *scriptedModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestModel(t *testing.T, reply string) Model {
	t.Helper()
	err := engine.Init(engine.Config{ChatModel: &scriptedModel{reply: reply}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Init(engine.Config{}) })
	return New(nil, false)
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func press(m Model, keyType tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return next.(Model), cmd
}

func TestStartsAtKeyScreenWithoutModel(t *testing.T) {
	require.NoError(t, engine.Init(engine.Config{}))
	m := New(nil, false)
	require.Equal(t, screenKey, m.screen)
}

func TestStartsAtURLScreenWithModel(t *testing.T) {
	m := newTestModel(t, "ok")
	require.Equal(t, screenURL, m.screen)
}

func TestInvalidURLShowsInlineErrorWithoutNavigating(t *testing.T) {
	m := newTestModel(t, "ok")
	m = typeText(m, "not a url")
	m, cmd := press(m, tea.KeyEnter)

	require.Equal(t, screenURL, m.screen)
	require.Equal(t, invalidURLMessage, m.errText)
	require.Nil(t, cmd)
	require.False(t, m.busy)
}

func TestValidURLStartsLoading(t *testing.T) {
	m := newTestModel(t, "ok")
	m = typeText(m, "https://youtu.be/dQw4w9WgXcQ")
	m, cmd := press(m, tea.KeyEnter)

	require.Equal(t, screenLoading, m.screen)
	require.True(t, m.busy)
	require.NotNil(t, cmd)
	require.Empty(t, m.errText)
}

func TestLoadFailureReturnsToURLScreen(t *testing.T) {
	m := newTestModel(t, "ok")
	m.screen = screenLoading
	m.busy = true

	next, _ := m.Update(videoFailedMsg{Err: fmt.Errorf("video x: %w", engine.ErrNoCaptions)})
	m = next.(Model)

	require.Equal(t, screenURL, m.screen)
	require.False(t, m.busy)
	require.Contains(t, m.errText, "captions")
}

func TestRecipeVideoEntersChatWithGreeting(t *testing.T) {
	m := newTestModel(t, "ok")
	m.screen = screenLoading

	next, _ := m.Update(videoLoadedMsg{
		Video:    &sources.Video{ID: "dQw4w9WgXcQ", Title: "Carbonara", Transcript: "whisk eggs"},
		IsRecipe: true,
	})
	m = next.(Model)

	require.Equal(t, screenChat, m.screen)
	require.NotNil(t, m.conv)
	require.Len(t, m.turns, 1)
	require.Equal(t, engine.GreetingMessage, m.turns[0].Content)
}

func TestNonRecipeVideoAsksForConfirmation(t *testing.T) {
	m := newTestModel(t, "ok")
	m.screen = screenLoading

	next, _ := m.Update(videoLoadedMsg{
		Video:    &sources.Video{ID: "dQw4w9WgXcQ", Title: "Travel Vlog", Transcript: "we landed in Rome"},
		IsRecipe: false,
	})
	m = next.(Model)

	require.Equal(t, screenConfirm, m.screen)
	require.Contains(t, m.notice, "doesn't look like a cooking video")
}

func TestConfirmOverrideProceedsToChat(t *testing.T) {
	m := newTestModel(t, "ok")
	m.screen = screenConfirm
	m.video = &sources.Video{Title: "Travel Vlog", Transcript: "we landed in Rome"}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = next.(Model)

	require.Equal(t, screenChat, m.screen)
	require.NotNil(t, m.conv)
	require.Equal(t, "we landed in Rome", m.conv.Transcript)
}

func TestConfirmDeclineReturnsToURLScreen(t *testing.T) {
	m := newTestModel(t, "ok")
	m.screen = screenConfirm
	m.video = &sources.Video{Title: "Travel Vlog"}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(Model)

	require.Equal(t, screenURL, m.screen)
	require.Nil(t, m.video)
}

func TestChatTurnRoundTrip(t *testing.T) {
	m := newTestModel(t, "Add the eggs off the heat.")
	m.screen = screenLoading
	next, _ := m.Update(videoLoadedMsg{
		Video:    &sources.Video{Title: "Carbonara", Transcript: "take the pan off the heat"},
		IsRecipe: true,
	})
	m = next.(Model)

	m = typeText(m, "When do the eggs go in?")
	m, cmd := press(m, tea.KeyEnter)

	require.True(t, m.busy)
	require.NotNil(t, cmd)
	// The user turn shows immediately, before the model answers.
	require.Equal(t, "When do the eggs go in?", m.turns[len(m.turns)-1].Content)

	// Run the turn synchronously and feed the result back.
	next, _ = m.Update(cmd())
	m = next.(Model)

	require.False(t, m.busy)
	require.Len(t, m.turns, 3)
	require.Equal(t, "Add the eggs off the heat.", m.turns[2].Content)
}

func TestChatSubmitBlockedWhileBusy(t *testing.T) {
	m := newTestModel(t, "ok")
	m.screen = screenChat
	m.conv = engine.NewConversation("Carbonara", "whisk", nil)
	m.busy = true
	m = typeText(m, "second question")

	m, cmd := press(m, tea.KeyEnter)
	require.Nil(t, cmd)
	require.Equal(t, "second question", string(m.input))
}

func TestEscLeavesChatAndResetsSession(t *testing.T) {
	m := newTestModel(t, "ok")
	m.screen = screenChat
	m.conv = engine.NewConversation("Carbonara", "whisk", nil)
	m.turns = m.conv.Turns()
	m.video = &sources.Video{Title: "Carbonara"}

	m, _ = press(m, tea.KeyEsc)
	require.Equal(t, screenURL, m.screen)
	require.Nil(t, m.conv)
	require.Nil(t, m.video)
	require.Empty(t, m.turns)
}

func TestEscDuringInFlightTurnDropsLateCompletion(t *testing.T) {
	m := newTestModel(t, "ok")
	m.screen = screenLoading
	next, _ := m.Update(videoLoadedMsg{
		Video:    &sources.Video{Title: "Carbonara", Transcript: "whisk eggs"},
		IsRecipe: true,
	})
	m = next.(Model)

	m = typeText(m, "How many eggs?")
	m, cmd := press(m, tea.KeyEnter)
	require.True(t, m.busy)

	// Leave the chat before the turn completes.
	m, _ = press(m, tea.KeyEsc)
	require.Equal(t, screenURL, m.screen)
	require.False(t, m.busy)
	require.Nil(t, m.conv)

	// The in-flight turn finishes after the session is gone; its
	// completion must be dropped, not dereferenced.
	next, _ = m.Update(cmd())
	m = next.(Model)

	require.Equal(t, screenURL, m.screen)
	require.False(t, m.busy)
	require.Nil(t, m.conv)
	require.Empty(t, m.turns)
}

func TestViewRendersEachScreen(t *testing.T) {
	m := newTestModel(t, "ok")
	m.width, m.height = 80, 24

	m.screen = screenURL
	require.Contains(t, m.View(), "YouTube")

	m.screen = screenLoading
	require.Contains(t, m.View(), "Fetching")

	m.screen = screenConfirm
	m.video = &sources.Video{Title: "Travel Vlog"}
	m.notice = "This doesn't look like a cooking video."
	require.Contains(t, m.View(), "Travel Vlog")

	m.screen = screenChat
	m.conv = engine.NewConversation("Travel Vlog", "", nil)
	m.turns = m.conv.Turns()
	view := m.View()
	require.Contains(t, view, "Travel Vlog")
	require.True(t, strings.Contains(view, "send"))
}
