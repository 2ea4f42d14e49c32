// Package tui renders a live progress view for background generation jobs.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clram/resultviz/internal/job"
)

const pollInterval = 200 * time.Millisecond

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 0)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

type tickMsg time.Time

// progressModel polls a job status until the run finishes.
type progressModel struct {
	status   *job.Status
	spinner  spinner.Model
	bar      progress.Model
	snapshot job.Snapshot
	done     bool
}

func newProgressModel(status *job.Status) progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return progressModel{
		status:  status,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tickMsg:
		m.snapshot = m.status.Snapshot()
		if !m.snapshot.Running {
			m.done = true
			return m, tea.Quit
		}
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		if m.snapshot.Error != "" {
			return errorStyle.Render("✗ " + m.snapshot.Error)
		}
		return doneStyle.Render("✓ "+m.snapshot.Message) + "\n"
	}

	bar := m.bar.ViewAs(float64(m.snapshot.Progress) / 100)
	return fmt.Sprintf("%s %s\n%s\n%s\n",
		m.spinner.View(),
		titleStyle.Render("Generating visualizations"),
		bar,
		messageStyle.Render(m.snapshot.Message),
	)
}

// RunProgress blocks rendering the progress view until the job attached to
// status leaves the running state (or the user quits the view).
func RunProgress(status *job.Status) error {
	_, err := tea.NewProgram(newProgressModel(status)).Run()
	return err
}
