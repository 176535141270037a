package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobsched/internal/config"
	"jobsched/internal/spool"
)

func stdoutIsTTY() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// loadSettings reads the settings file and applies the spool-dir flag
// override.
func loadSettings(configPath, spoolDirFlag string) (config.Settings, error) {
	settings, err := config.Read(strings.TrimSpace(configPath))
	if err != nil {
		return config.Settings{}, err
	}
	if dir := strings.TrimSpace(spoolDirFlag); dir != "" {
		settings.SpoolDir = dir
	}
	return settings, nil
}

func queuePath(settings config.Settings) string {
	return filepath.Join(settings.SpoolDir, spool.QueueFileName)
}

func counterPath(settings config.Settings) string {
	return filepath.Join(settings.SpoolDir, spool.CounterFileName)
}

func runningPath(settings config.Settings) string {
	return filepath.Join(settings.SpoolDir, spool.RunningFileName)
}

func formatDemand(cores, memoryGB int) string {
	return fmt.Sprintf("%dc/%dgb", cores, memoryGB)
}
