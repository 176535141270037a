package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"jobsched/internal/config"
	"jobsched/internal/session"
	"jobsched/internal/spool"
)

type doctorCheck struct {
	Name    string
	OK      bool
	Message string
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath(), "settings file path")
	spoolDir := fs.String("spool-dir", "", "spool directory (default from settings)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := loadSettings(*configPath, *spoolDir)
	if err != nil {
		return err
	}

	checks := make([]doctorCheck, 0, 4)

	dep := session.DependencyStatus()
	msg := "screen not found on PATH; detached sessions cannot be created"
	if dep.ScreenFound {
		msg = "found " + dep.ScreenPath
	}
	checks = append(checks, doctorCheck{Name: "dependency:screen", OK: dep.ScreenFound, Message: msg})

	spoolOK, spoolMsg := ensureWritableDir(settings.SpoolDir)
	checks = append(checks, doctorCheck{Name: "directory:spool", OK: spoolOK, Message: spoolMsg})

	script, scriptErr := resolveExecScript(settings, "")
	if scriptErr != nil {
		checks = append(checks, doctorCheck{Name: "exec-script", OK: false, Message: scriptErr.Error()})
	} else {
		checks = append(checks, doctorCheck{Name: "exec-script", OK: true, Message: "using " + script})
	}

	pending, queueErr := spool.NewQueue(queuePath(settings)).Snapshot()
	if queueErr != nil {
		checks = append(checks, doctorCheck{Name: "file:queue", OK: false, Message: queueErr.Error()})
	} else {
		checks = append(checks, doctorCheck{Name: "file:queue", OK: true, Message: fmt.Sprintf("%d pending record(s)", len(pending))})
	}

	failed := 0
	for _, c := range checks {
		mark := "ok  "
		if !c.OK {
			mark = "FAIL"
			failed++
		}
		fmt.Printf("%s %-18s %s\n", mark, c.Name, c.Message)
	}
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func ensureWritableDir(dir string) (bool, string) {
	if err := spool.Mkdir(dir); err != nil {
		return false, err.Error()
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return false, fmt.Sprintf("not writable: %v", err)
	}
	_ = os.Remove(probe)
	return true, "writable " + dir
}
