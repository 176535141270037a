package cli

import (
	"flag"
	"fmt"

	"jobsched/internal/config"
	"jobsched/internal/daemon"
	"jobsched/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	listHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	listMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	listRunStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath(), "settings file path")
	spoolDir := fs.String("spool-dir", "", "spool directory (default from settings)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := loadSettings(*configPath, *spoolDir)
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(settings)
	if err != nil {
		return err
	}

	fmt.Println(listHeaderStyle.Render(fmt.Sprintf("Pending (%d)", len(snap.Pending))))
	if len(snap.Pending) == 0 {
		fmt.Println(listMutedStyle.Render("  queue is empty"))
	} else {
		ordered := append([]model.Job(nil), snap.Pending...)
		daemon.SortForAdmission(ordered)
		for _, job := range ordered {
			fmt.Printf("  #%-5d p%-2d %-9s %s %s\n",
				job.ID, job.Priority, formatDemand(job.Cores, job.MemoryGB),
				job.SubmittedAt.Format("02/01/2006 15:04"), job.Path)
		}
	}

	fmt.Println()
	fmt.Println(listHeaderStyle.Render(fmt.Sprintf("Running (%d)", len(snap.Running))))
	if len(snap.Running) == 0 {
		fmt.Println(listMutedStyle.Render("  nothing running"))
	} else {
		for _, job := range snap.Running {
			fmt.Println(listRunStyle.Render(fmt.Sprintf("  #%-5d p%-2d %-9s session=%s pid=%d %s",
				job.ID, job.Priority, formatDemand(job.Cores, job.MemoryGB),
				job.SessionID, job.PID, job.Path)))
		}
	}
	return nil
}
