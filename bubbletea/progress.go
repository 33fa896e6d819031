// Package bubbletea provides a terminal progress view for judging runs using
// the Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/varjudge"
)

// maxBarWidth caps the progress bar so it stays readable on wide terminals.
const maxBarWidth = 60

// ProgressMsg delivers the next progress snapshot from the run.
type ProgressMsg varjudge.JudgeProgress

// StreamClosedMsg signals that the progress stream has ended.
type StreamClosedMsg struct{}

// styles holds the lipgloss styles for the progress view.
type styles struct {
	phase   lipgloss.Style
	file    lipgloss.Style
	winner  lipgloss.Style
	ranking lipgloss.Style
	err     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		phase:   r.NewStyle().Bold(true),
		file:    r.NewStyle().Faint(true),
		winner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1")),
		ranking: r.NewStyle(),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#f38ba8")),
	}
}

// Model is the Bubble Tea model for watching a judging run.
type Model struct {
	ch      <-chan varjudge.JudgeProgress
	spinner spinner.Model
	bar     progress.Model
	latest  varjudge.JudgeProgress
	done    bool
	styles  styles
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRenderer sets the lipgloss renderer used for styling. Tests inject a
// renderer with a fixed color profile.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(m *Model) { m.styles = newStyles(r) }
}

// NewModel creates a Model that consumes progress snapshots from ch.
func NewModel(ch <-chan varjudge.JudgeProgress, opts ...ModelOption) Model {
	m := Model{
		ch:      ch,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:     progress.New(progress.WithDefaultGradient()),
		styles:  newStyles(lipgloss.DefaultRenderer()),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// waitForProgress blocks on the next snapshot from the run.
func waitForProgress(ch <-chan varjudge.JudgeProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return StreamClosedMsg{}
		}
		return ProgressMsg(p)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForProgress(m.ch))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
	case ProgressMsg:
		m.latest = varjudge.JudgeProgress(msg)
		if m.latest.Phase == varjudge.PhaseComplete || m.latest.Phase == varjudge.PhaseError {
			m.done = true
		}
		return m, waitForProgress(m.ch)
	case StreamClosedMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.latest.Phase {
	case varjudge.PhaseAnalyzing:
		return m.viewAnalyzing()
	case varjudge.PhaseSynthesizing:
		return m.spinner.View() + m.styles.phase.Render("Synthesizing final ranking...") + "\n"
	case varjudge.PhaseComplete:
		return m.viewResult()
	case varjudge.PhaseError:
		return m.styles.err.Render("Judging failed: "+m.latest.Error) + "\n"
	default:
		return m.spinner.View() + "Starting judging run...\n"
	}
}

func (m Model) viewAnalyzing() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%s\n", m.spinner.View(),
		m.styles.phase.Render(fmt.Sprintf("Analyzing files (%d/%d)", m.latest.CompletedFiles, m.latest.TotalFiles)))
	if m.latest.TotalFiles > 0 {
		ratio := float64(m.latest.CompletedFiles) / float64(m.latest.TotalFiles)
		sb.WriteString(m.bar.ViewAs(ratio))
		sb.WriteString("\n")
	}
	if m.latest.CurrentFile != "" {
		sb.WriteString(m.styles.file.Render(m.latest.CurrentFile))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) viewResult() string {
	result := m.latest.Result
	if result == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.winner.Render("Winner: " + result.Winner))
	sb.WriteString("\n\n")
	for _, r := range result.Rankings {
		fmt.Fprintf(&sb, "%s\n", m.styles.ranking.Render(
			fmt.Sprintf("%d. %s  avg %.2f  wins %d", r.Rank, r.Variation, r.AvgScore, r.FileWins)))
	}
	if result.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(result.Summary)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.file.Render("press q to quit"))
	sb.WriteString("\n")
	return sb.String()
}

// Run displays the progress view and blocks until the run reaches a terminal
// state and the user exits.
func Run(ctx context.Context, ch <-chan varjudge.JudgeProgress) error {
	p := tea.NewProgram(NewModel(ch), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
