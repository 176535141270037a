package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jobsched/internal/config"
	"jobsched/internal/jobfile"
	"jobsched/internal/model"
	"jobsched/internal/spool"
)

func runSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath(), "settings file path")
	spoolDir := fs.String("spool-dir", "", "spool directory (default from settings)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: jobsched submit <job-file> <priority>")
	}

	jobPath, err := filepath.Abs(strings.TrimSpace(rest[0]))
	if err != nil {
		return fmt.Errorf("resolve job file path: %w", err)
	}
	if strings.ContainsAny(jobPath, " \t") {
		return fmt.Errorf("job file path must not contain whitespace: %s", jobPath)
	}
	if _, err := os.Stat(jobPath); err != nil {
		return fmt.Errorf("job file not found: %s", jobPath)
	}

	priority, err := strconv.Atoi(rest[1])
	if err != nil || !model.ValidPriority(priority) {
		return fmt.Errorf("priority must be an integer between %d and %d, got %q",
			model.MinPriority, model.MaxPriority, rest[1])
	}

	settings, err := loadSettings(*configPath, *spoolDir)
	if err != nil {
		return err
	}
	if err := spool.Mkdir(settings.SpoolDir); err != nil {
		return err
	}

	// Resource demand is read before an id is allocated, so a parse failure
	// never consumes an id.
	cores, memoryGB, err := jobfile.ParseResources(jobPath)
	if err != nil {
		return err
	}

	id, err := spool.NewCounter(counterPath(settings)).Next()
	if err != nil {
		return fmt.Errorf("allocate job id: %w", err)
	}

	job := model.Job{
		ID:          id,
		Path:        jobPath,
		Priority:    priority,
		SubmittedAt: time.Now(),
		Cores:       cores,
		MemoryGB:    memoryGB,
		Status:      model.StatusQueued,
	}
	if err := spool.NewQueue(queuePath(settings)).Append(job); err != nil {
		return err
	}

	fmt.Printf("queued job #%d %s priority=%d demand=%s\n", job.ID, job.Path, job.Priority, formatDemand(cores, memoryGB))
	return nil
}
