package cli

import (
	"fmt"
	"strings"
	"time"

	"jobsched/internal/config"
	"jobsched/internal/daemon"
	"jobsched/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const watchRefresh = 2 * time.Second

const watchJobLimit = 12

type watchModel struct {
	settings config.Settings
	spin     spinner.Model

	snap   spoolSnapshot
	loaded bool
	err    error
	width  int
	height int
}

type watchSnapshotMsg struct {
	snap spoolSnapshot
	err  error
}

type watchTickMsg time.Time

func runStatusWatch(settings config.Settings) error {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	m := watchModel{settings: settings, spin: sp}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, loadSnapshotCmd(m.settings))
}

func loadSnapshotCmd(settings config.Settings) tea.Cmd {
	return func() tea.Msg {
		snap, err := loadSnapshot(settings)
		return watchSnapshotMsg{snap: snap, err: err}
	}
}

func watchTickCmd() tea.Cmd {
	return tea.Tick(watchRefresh, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case watchSnapshotMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
		}
		return m, watchTickCmd()
	case watchTickMsg:
		return m, loadSnapshotCmd(m.settings)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if !m.loaded {
		return m.spin.View() + " loading spool state..."
	}

	var b strings.Builder
	b.WriteString(statusTitleStyle.Render("jobsched") + " " + m.spin.View() + "\n\n")

	if m.err != nil {
		b.WriteString(statusMutedStyle.Render("refresh failed: "+m.err.Error()) + "\n\n")
	}

	resources := fmt.Sprintf(
		"cores   %d free / %d total\nmemory  %d GB free / %d GB total",
		m.snap.FreeCores(), m.snap.TotalCores,
		m.snap.FreeMemoryGB(), m.snap.TotalMemoryGB,
	)
	b.WriteString(statusPanelStyle.Render(resources) + "\n\n")

	b.WriteString(listHeaderStyle.Render(fmt.Sprintf("Running (%d)", len(m.snap.Running))) + "\n")
	if len(m.snap.Running) == 0 {
		b.WriteString(statusMutedStyle.Render("  nothing running") + "\n")
	}
	for i, job := range m.snap.Running {
		if i == watchJobLimit {
			b.WriteString(statusMutedStyle.Render(fmt.Sprintf("  ... and %d more", len(m.snap.Running)-watchJobLimit)) + "\n")
			break
		}
		b.WriteString(fmt.Sprintf("  #%-5d p%-2d %-9s %s\n",
			job.ID, job.Priority, formatDemand(job.Cores, job.MemoryGB), job.Path))
	}

	b.WriteString("\n" + listHeaderStyle.Render(fmt.Sprintf("Pending (%d)", len(m.snap.Pending))) + "\n")
	if len(m.snap.Pending) == 0 {
		b.WriteString(statusMutedStyle.Render("  queue is empty") + "\n")
	}
	ordered := append([]model.Job(nil), m.snap.Pending...)
	daemon.SortForAdmission(ordered)
	for i, job := range ordered {
		if i == watchJobLimit {
			b.WriteString(statusMutedStyle.Render(fmt.Sprintf("  ... and %d more", len(ordered)-watchJobLimit)) + "\n")
			break
		}
		b.WriteString(fmt.Sprintf("  #%-5d p%-2d %-9s %s\n",
			job.ID, job.Priority, formatDemand(job.Cores, job.MemoryGB), job.Path))
	}

	b.WriteString("\n" + statusMutedStyle.Render("q to quit"))
	return b.String()
}
