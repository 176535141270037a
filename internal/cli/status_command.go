package cli

import (
	"errors"
	"flag"
	"fmt"

	"jobsched/internal/config"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath(), "settings file path")
	spoolDir := fs.String("spool-dir", "", "spool directory (default from settings)")
	watch := fs.Bool("watch", false, "live dashboard, refreshed until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := loadSettings(*configPath, *spoolDir)
	if err != nil {
		return err
	}

	if *watch {
		if !stdoutIsTTY() {
			return errors.New("status --watch requires an interactive terminal (TTY)")
		}
		return runStatusWatch(settings)
	}

	snap, err := loadSnapshot(settings)
	if err != nil {
		return err
	}
	fmt.Println(renderStatus(snap, settings.SpoolDir))
	return nil
}

func renderStatus(snap spoolSnapshot, spoolDir string) string {
	body := fmt.Sprintf(
		"%s\n\ncores   %d free / %d total (%d committed)\nmemory  %d GB free / %d GB total (%d GB committed)\n\npending %d   running %d",
		statusTitleStyle.Render("jobsched"),
		snap.FreeCores(), snap.TotalCores, snap.UsedCores,
		snap.FreeMemoryGB(), snap.TotalMemoryGB, snap.UsedMemoryGB,
		len(snap.Pending), len(snap.Running),
	)
	return statusPanelStyle.Render(body) + "\n" + statusMutedStyle.Render("spool: "+spoolDir)
}
