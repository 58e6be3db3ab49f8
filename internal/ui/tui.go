// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the lesson reader
package ui

import (
	"context"

	"github.com/readaloud/readaloud-go/internal/lesson"
	"github.com/readaloud/readaloud-go/internal/reader"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the reader surface the TUI drives
type Controller interface {
	ToggleSegment(ctx context.Context, id string) (bool, error)
	PlayWord(ctx context.Context, id string) error
	SetSpeed(rate float64) error
	Speed() float64
	Stop()
	Status() reader.Status
}

// NewModel creates a new TUI model
func NewModel(ctrl Controller, article *lesson.Article) Model {
	m := Model{
		ctrl:    ctrl,
		article: article,
		wordIdx: -1,
	}
	if ctrl != nil {
		m.status = ctrl.Status()
	}
	return m
}

// Run creates the TUI program. Callers forward reader status changes and
// playback events with Program.Send.
func Run(ctrl Controller, article *lesson.Article) *tea.Program {
	return tea.NewProgram(NewModel(ctrl, article), tea.WithAltScreen())
}
