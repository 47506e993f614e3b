package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anatolykoptev/go_recipe/internal/engine"
	"github.com/anatolykoptev/go_recipe/internal/ui"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) View() string {
	switch m.screen {
	case screenKey:
		return m.viewKey()
	case screenURL:
		return m.viewURL()
	case screenLoading:
		return m.viewLoading()
	case screenConfirm:
		return m.viewConfirm()
	case screenChat:
		return m.viewChat()
	}
	return ""
}

func (m Model) viewKey() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("go_recipe") + "\n\n")
	b.WriteString("No model API key found in the environment.\n")
	b.WriteString("Paste your key to continue (kept in memory only):\n\n")
	b.WriteString(ui.PromptStyle.Render("key> ") + ui.InputStyle.Render(string(m.input)) + "▌\n")
	if m.errText != "" {
		b.WriteString("\n" + ui.ErrorStyle.Render(m.errText) + "\n")
	}
	b.WriteString("\n" + m.footer("enter", "save", "ctrl+c", "quit"))
	return b.String()
}

func (m Model) viewURL() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("go_recipe — cook along with any video") + "\n\n")
	b.WriteString("Paste a YouTube link to a cooking video:\n\n")
	b.WriteString(ui.PromptStyle.Render("url> ") + ui.InputStyle.Render(string(m.input)) + "▌\n")
	if m.errText != "" {
		b.WriteString("\n" + ui.ErrorStyle.Render(m.errText) + "\n")
	}
	if !m.speechOK {
		b.WriteString("\n" + ui.StatusStyle.Render("(no speech synthesizer found — replies will be text only)") + "\n")
	}
	b.WriteString("\n" + m.footer("enter", "load", "ctrl+c", "quit"))
	return b.String()
}

func (m Model) viewLoading() string {
	frame := spinnerFrames[m.spinner%len(spinnerFrames)]
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("go_recipe") + "\n\n")
	b.WriteString(ui.SpinnerStyle.Render(frame) + " Fetching transcript and checking the video...\n")
	b.WriteString("\n" + m.footer("ctrl+c", "quit"))
	return b.String()
}

func (m Model) viewConfirm() string {
	title := ""
	if m.video != nil {
		title = m.video.Title
	}
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(title) + "\n\n")
	b.WriteString(ui.NoticeStyle.Render(m.notice) + "\n\n")
	b.WriteString("Chat about it anyway?\n")
	b.WriteString("\n" + m.footer("y", "continue", "n", "back"))
	return b.String()
}

func (m Model) viewChat() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	title := DefaultChatTitle
	if m.video != nil {
		title = m.video.Title
	}

	header := ui.TitleStyle.Render(title)
	if m.voice.muted.Load() {
		header += "  " + ui.MutedBadgeStyle.Render("[muted]")
	} else if m.voice.speaker != nil && m.voice.speaker.Speaking() {
		header += "  " + ui.SpeakingBadgeStyle.Render("[speaking]")
	}

	// Transcript area: everything except header, input line, and footer.
	bodyHeight := height - 4
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	body := m.renderTurns(width, bodyHeight)

	prompt := ui.PromptStyle.Render("you> ") + ui.InputStyle.Render(string(m.input)) + "▌"
	if m.busy {
		frame := spinnerFrames[m.spinner%len(spinnerFrames)]
		prompt = ui.SpinnerStyle.Render(frame) + ui.StatusStyle.Render(" thinking...")
	}

	footer := m.footer("enter", "send", "ctrl+s", "stop speech", "ctrl+t", "mute", "esc", "new video")

	return header + "\n" + body + "\n" + prompt + "\n" + footer
}

// renderTurns wraps and tails the turn list into the visible window.
// PgUp/PgDn shift the window by whole lines via m.scroll.
func (m Model) renderTurns(width, height int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var lines []string
	for _, t := range m.turns {
		label := ui.AssistantLabelStyle.Render("chef")
		if t.Role == engine.RoleUser {
			label = ui.UserLabelStyle.Render("you")
		}
		block := wrap.Render(label + ": " + t.Content)
		lines = append(lines, strings.Split(block, "\n")...)
		lines = append(lines, "")
	}

	end := len(lines) - m.scroll
	if end > len(lines) {
		end = len(lines)
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	visible := lines[start:end]

	for len(visible) < height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

// footer renders alternating key/description hints.
func (m Model) footer(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, ui.FooterKeyStyle.Render(pairs[i])+" "+ui.FooterDescStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, ui.FooterDescStyle.Render(" · "))
}
