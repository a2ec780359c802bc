package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bibnet/pkg/pipeline"
)

const progressBarWidth = 30

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle     = lipgloss.NewStyle().Foreground(colorGray).Width(36)
)

// =============================================================================
// SampleProgressModel - Live null-sample progress
// =============================================================================

type progressMsg pipeline.Progress

type finishedMsg struct{}

// SampleProgressModel is the bubbletea model showing one bar per null
// sample. Quitting cancels the analysis.
type SampleProgressModel struct {
	Title    string
	Labels   []string // in order of first appearance
	State    map[string]pipeline.Progress
	Finished bool

	cancel context.CancelFunc
}

// NewSampleProgressModel creates a model; cancel is called when the user
// quits.
func NewSampleProgressModel(title string, cancel context.CancelFunc) SampleProgressModel {
	return SampleProgressModel{Title: title, State: map[string]pipeline.Progress{}, cancel: cancel}
}

func (m SampleProgressModel) Init() tea.Cmd {
	return nil
}

func (m SampleProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		p := pipeline.Progress(msg)
		label := p.Label()
		if _, seen := m.State[label]; !seen {
			m.Labels = append(m.Labels, label)
		}
		m.State[label] = p
	case finishedMsg:
		m.Finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
		}
	}
	return m, nil
}

func (m SampleProgressModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q cancel"))
	b.WriteString("\n\n")
	for _, label := range m.Labels {
		p := m.State[label]
		b.WriteString(labelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(bar(p.Done, p.Target, progressBarWidth))
		b.WriteString(StyleDim.Render(fmt.Sprintf(" %d/%d", p.Done, p.Target)))
		b.WriteString("\n")
	}
	return b.String()
}

// bar draws a width-cell progress bar for done out of total.
func bar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// runWithProgress runs fn under the progress display. fn must report
// through the given callback.
func runWithProgress(ctx context.Context, title string, fn func(ctx context.Context, progress func(pipeline.Progress)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSampleProgressModel(title, cancel), tea.WithOutput(os.Stderr))
	done := make(chan error, 1)
	go func() {
		err := fn(ctx, func(pr pipeline.Progress) { p.Send(progressMsg(pr)) })
		done <- err
		p.Send(finishedMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("progress display: %w", err)
	}
	return <-done
}
