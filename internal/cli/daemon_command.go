package cli

import (
	"context"
	"flag"
	"fmt"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"jobsched/internal/config"
	"jobsched/internal/daemon"
)

const execScriptName = "jobsched-exec.sh"

func runDaemon(args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath(), "settings file path")
	spoolDir := fs.String("spool-dir", "", "spool directory (default from settings)")
	execScript := fs.String("exec-script", "", "execution script launched per job (default from settings)")
	tickSeconds := fs.Int("tick", 0, "seconds between scheduling ticks (default from settings)")
	totalCores := fs.Int("cores", 0, "schedulable core cap (0 = probe host)")
	totalMemoryGB := fs.Int("memory-gb", 0, "schedulable memory cap in GB (0 = probe host)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := loadSettings(*configPath, *spoolDir)
	if err != nil {
		return err
	}
	if *tickSeconds > 0 {
		settings.TickSeconds = *tickSeconds
	}
	if *totalCores > 0 {
		settings.TotalCores = *totalCores
	}
	if *totalMemoryGB > 0 {
		settings.TotalMemoryGB = *totalMemoryGB
	}

	script, err := resolveExecScript(settings, *execScript)
	if err != nil {
		return err
	}

	sched, err := daemon.New(daemon.Options{
		SpoolDir:      settings.SpoolDir,
		ExecScript:    script,
		Tick:          time.Duration(settings.TickSeconds) * time.Second,
		TotalCores:    settings.TotalCores,
		TotalMemoryGB: settings.TotalMemoryGB,
	})
	if err != nil {
		return err
	}

	fmt.Printf("daemon started: spool=%s tick=%ds exec=%s\n", settings.SpoolDir, settings.TickSeconds, script)
	fmt.Println("Ctrl+C to stop.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sched.Run(ctx)
	fmt.Println("\nshut down")
	return err
}

// resolveExecScript picks the execution script: flag, then settings, then a
// script named jobsched-exec.sh in the spool directory or on PATH.
func resolveExecScript(settings config.Settings, flagVal string) (string, error) {
	if v := strings.TrimSpace(flagVal); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(settings.ExecScript); v != "" {
		return v, nil
	}
	candidate := filepath.Join(settings.SpoolDir, execScriptName)
	if _, err := exec.LookPath(candidate); err == nil {
		return candidate, nil
	}
	if found, err := exec.LookPath(execScriptName); err == nil {
		return found, nil
	}
	return "", fmt.Errorf("no execution script configured: set exec_script in settings or pass --exec-script")
}
