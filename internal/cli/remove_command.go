package cli

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"jobsched/internal/config"
	"jobsched/internal/spool"
)

func runRemove(args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath(), "settings file path")
	spoolDir := fs.String("spool-dir", "", "spool directory (default from settings)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: jobsched remove <id>")
	}

	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(rest[0]), "#"))
	if err != nil || id <= 0 {
		return fmt.Errorf("job id must be a positive integer, got %q", rest[0])
	}

	settings, err := loadSettings(*configPath, *spoolDir)
	if err != nil {
		return err
	}

	found, err := spool.NewQueue(queuePath(settings)).RemoveByID(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("job #%d not found in queue", id)
	}
	fmt.Printf("removed job #%d from queue\n", id)
	return nil
}
