// ABOUTME: Bubbletea model for the reader TUI
// ABOUTME: Defines segment list state, key handling and rendering
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/readaloud/readaloud-go/internal/lesson"
	"github.com/readaloud/readaloud-go/internal/reader"
	"github.com/readaloud/readaloud-go/pkg/playback"
	tea "github.com/charmbracelet/bubbletea"
)

const boxWidth = 54

// Model represents the TUI state
type Model struct {
	ctrl    Controller
	article *lesson.Article

	// Selection
	cursor  int
	wordIdx int // index into the vocabulary of the selected segment

	// Playback
	status  reader.Status
	message string

	// Dimensions
	width  int
	height int
}

// StatusMsg carries a reader status snapshot
type StatusMsg struct {
	Status reader.Status
}

// EndedMsg carries a playback ended event
type EndedMsg struct {
	Event playback.Event
}

// resultMsg reports the outcome of a reader command
type resultMsg struct {
	action string
	err    error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.status = msg.Status
	case EndedMsg:
		if msg.Event.Reason == playback.EndResourceError {
			m.message = "Playback stopped"
		}
	case resultMsg:
		m.applyResult(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderSegments()
	s += m.renderDetail()
	s += m.renderHelp()
	return s
}

func line(content string) string {
	return fmt.Sprintf("│ %-*s │\n", boxWidth-4, truncate(content, boxWidth-4))
}

func rule(left, right string) string {
	return left + strings.Repeat("─", boxWidth-2) + right + "\n"
}

// renderHeader renders title and speed
func (m Model) renderHeader() string {
	title := "ReadAloud"
	if m.article != nil && m.article.Title != "" {
		title = m.article.Title
	}

	s := rule("┌", "┐")
	s += line(title)
	if m.article != nil && m.article.Author != "" {
		s += line("by " + m.article.Author)
	}
	s += line(fmt.Sprintf("Speed: [%s] %.2fx", renderSpeed(m.status.Rate), m.status.Rate))
	s += rule("├", "┤")
	return s
}

// renderSegments renders the sentence list with playback markers
func (m Model) renderSegments() string {
	if m.article == nil || len(m.article.Segments) == 0 {
		return line("No segments")
	}

	s := ""
	for i, seg := range m.article.Segments {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		s += line(fmt.Sprintf("%s %s %s", cursor, m.marker(seg), seg.Text))
	}
	return s
}

func (m Model) marker(seg lesson.Segment) string {
	switch {
	case m.status.ActiveSegment == seg.ID:
		return "▶"
	case m.status.Loading == seg.ID:
		return "…"
	case !seg.HasAudio():
		return "·"
	default:
		return " "
	}
}

// renderDetail renders translation, selected word and messages
func (m Model) renderDetail() string {
	s := rule("├", "┤")

	if seg, ok := m.selected(); ok && seg.Translation != "" {
		s += line(seg.Translation)
	}

	if m.article != nil && m.status.ActiveWord != "" {
		if item, ok := m.article.Vocabulary(m.status.ActiveWord); ok {
			s += line(fmt.Sprintf("%s: %s", item.Word, item.Definition))
		}
	}

	if m.message != "" {
		s += line(m.message)
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return line("↑/↓:Select enter:Play w:Word [/]:Speed s:Stop q:Quit") + rule("└", "┘")
}

func (m Model) selected() (lesson.Segment, bool) {
	if m.article == nil || m.cursor < 0 || m.cursor >= len(m.article.Segments) {
		return lesson.Segment{}, false
	}
	return m.article.Segments[m.cursor], true
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.ctrl != nil {
			m.ctrl.Stop()
		}
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.wordIdx = -1
		}
	case "down", "j":
		if m.article != nil && m.cursor < len(m.article.Segments)-1 {
			m.cursor++
			m.wordIdx = -1
		}
	case "enter", " ":
		return m, m.toggleSelected()
	case "w":
		return m.nextWord()
	case "]":
		return m, m.stepSpeed(1)
	case "[":
		return m, m.stepSpeed(-1)
	case "s":
		if m.ctrl != nil {
			m.ctrl.Stop()
			m.status = m.ctrl.Status()
		}
		m.message = ""
	}

	return m, nil
}

func (m Model) toggleSelected() tea.Cmd {
	seg, ok := m.selected()
	if !ok || m.ctrl == nil {
		return nil
	}
	ctrl := m.ctrl
	return func() tea.Msg {
		_, err := ctrl.ToggleSegment(context.Background(), seg.ID)
		return resultMsg{action: "play", err: err}
	}
}

func (m Model) nextWord() (tea.Model, tea.Cmd) {
	seg, ok := m.selected()
	if !ok || m.ctrl == nil {
		return m, nil
	}
	words := m.article.FindVocabulary(seg.Text)
	if len(words) == 0 {
		m.message = "No vocabulary in this sentence"
		return m, nil
	}

	m.wordIdx = (m.wordIdx + 1) % len(words)
	item := words[m.wordIdx]
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return resultMsg{action: "word", err: ctrl.PlayWord(context.Background(), item.ID)}
	}
}

func (m Model) stepSpeed(delta int) tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	ctrl := m.ctrl
	rate := playback.StepRate(ctrl.Speed(), delta)
	return func() tea.Msg {
		return resultMsg{action: "speed", err: ctrl.SetSpeed(rate)}
	}
}

// applyResult updates the message line from a command outcome
func (m *Model) applyResult(msg resultMsg) {
	if m.ctrl != nil {
		m.status = m.ctrl.Status()
	}
	switch {
	case msg.err == nil:
		m.message = ""
	case errors.Is(msg.err, reader.ErrNoAudio):
		m.message = "No local audio configured"
	case errors.Is(msg.err, reader.ErrBusy):
		m.message = "Still loading..."
	default:
		m.message = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
	}
}

// renderSpeed marks the position of rate among playback.Rates
func renderSpeed(rate float64) string {
	bar := ""
	for _, r := range playback.Rates {
		if r <= rate+1e-9 {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length-3]) + "..."
}
