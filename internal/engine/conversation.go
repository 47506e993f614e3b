package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// transcriptContextRunes caps how much transcript is embedded in the system
// prompt per request.
const transcriptContextRunes = 8000

// Role tags a conversation turn with its speaker.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// Announcer receives assistant replies for speech playback. Say queues
// behind the current utterance; SayNow preempts it. *speech.Speaker
// satisfies it; nil disables playback.
type Announcer interface {
	Say(text string)
	SayNow(text string)
}

// Conversation holds the in-memory, append-only turn sequence for one chat
// session. It lives only as long as the chat screen; nothing is persisted.
// All appends happen on the UI event sequence, so no locking is needed.
type Conversation struct {
	ID         string
	Title      string
	Transcript string // excerpt, capped at transcriptContextRunes

	turns    []Turn
	announce Announcer
}

// NewConversation seeds a conversation with the synthetic assistant greeting.
// transcript may be empty when the user proceeded without captions.
func NewConversation(title, transcript string, announce Announcer) *Conversation {
	return &Conversation{
		ID:         uuid.New().String()[:8],
		Title:      title,
		Transcript: TruncateRunes(transcript, transcriptContextRunes),
		turns:      []Turn{{Role: RoleAssistant, Content: GreetingMessage}},
		announce:   announce,
	}
}

// Turns returns a copy of the turn sequence.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Ask runs one conversation turn: append the user message, call the model
// with system prompt + history + user message, append the reply. On any
// model failure the fixed apology is appended instead — the conversation
// always gains exactly two turns and never goes silent. The reply (or
// apology) is handed to the announcer when one is attached.
func (c *Conversation) Ask(ctx context.Context, userText string) string {
	c.turns = append(c.turns, Turn{Role: RoleUser, Content: userText})

	reply, err := Chat(ctx, c.buildMessages())
	if err != nil {
		slog.Warn("conversation: turn failed",
			slog.String("session", c.ID), slog.Any("error", err))
		reply = ApologyMessage
	}

	c.turns = append(c.turns, Turn{Role: RoleAssistant, Content: reply})
	if c.announce != nil {
		if err != nil {
			// A failure notice should not wait behind stale playback.
			c.announce.SayNow(reply)
		} else {
			c.announce.Say(reply)
		}
	}
	return reply
}

// buildMessages assembles the model request: system instruction first, then
// the turn window, oldest to newest, ending with the latest user message.
func (c *Conversation) buildMessages() []llms.MessageContent {
	var sys string
	if c.Transcript != "" {
		sys = fmt.Sprintf(chatSystemPrompt, c.Title, c.Transcript)
	} else {
		sys = fmt.Sprintf(chatSystemPromptBare, c.Title)
	}

	window := c.windowTurns()
	msgs := make([]llms.MessageContent, 0, len(window)+1)
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeSystem, sys))
	for _, t := range window {
		role := schema.ChatMessageTypeHuman
		if t.Role == RoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, t.Content))
	}
	return msgs
}

// windowTurns drops the oldest turns from the request once the history
// exceeds the configured character budget. The in-memory sequence is never
// trimmed — only what goes over the wire. The newest turn is always kept.
func (c *Conversation) windowTurns() []Turn {
	budget := cfg.HistoryCharBudget
	if budget <= 0 {
		return c.turns
	}

	total := 0
	start := len(c.turns)
	for i := len(c.turns) - 1; i >= 0; i-- {
		total += len(c.turns[i].Content)
		if total > budget && start < len(c.turns) {
			break
		}
		start = i
	}
	return c.turns[start:]
}
