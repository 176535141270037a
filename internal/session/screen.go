package session

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ScreenBackend runs jobs under GNU screen: `screen -dmS <name> <script>
// <jobPath>` detaches immediately, and the session keeps running if the
// daemon goes away.
type ScreenBackend struct{}

func (ScreenBackend) Launch(sessionID, scriptPath, jobPath string) (int, error) {
	cmd := exec.Command("screen", "-dmS", sessionID, scriptPath, jobPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			return 0, fmt.Errorf("launch session %s: %w: %s", sessionID, err, detail)
		}
		return 0, fmt.Errorf("launch session %s: %w", sessionID, err)
	}

	pid, err := sessionPID(sessionID)
	if err != nil {
		// The session is up even if we could not resolve its pid; the pid is
		// recorded for diagnostics only.
		return 0, nil
	}
	return pid, nil
}

func (ScreenBackend) Terminate(sessionID string) error {
	cmd := exec.Command("screen", "-S", sessionID, "-X", "quit")
	if out, err := cmd.CombinedOutput(); err != nil {
		detail := strings.ToLower(strings.TrimSpace(string(out)))
		if strings.Contains(detail, "no screen session found") {
			return nil
		}
		return fmt.Errorf("terminate session %s: %w", sessionID, err)
	}
	return nil
}

func sessionPID(sessionID string) (int, error) {
	out, err := exec.Command("screen", "-ls").Output()
	if err != nil {
		// screen -ls exits non-zero in some versions even on success; fall
		// back to parsing whatever it printed.
		if ee, ok := err.(*exec.ExitError); ok && len(out) == 0 {
			out = ee.Stderr
		}
	}
	pid := parseScreenList(string(out), sessionID)
	if pid == 0 {
		return 0, fmt.Errorf("session %s not found in screen -ls output", sessionID)
	}
	return pid, nil
}

// parseScreenList finds the pid for a named session in `screen -ls` output,
// where sessions appear as lines like "\t12345.jobsched_48\t(Detached)".
func parseScreenList(out, sessionID string) int {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		dot := strings.Index(name, ".")
		if dot <= 0 {
			continue
		}
		if name[dot+1:] != sessionID {
			continue
		}
		pid, err := strconv.Atoi(name[:dot])
		if err != nil {
			continue
		}
		return pid
	}
	return 0
}

type DependencyReport struct {
	ScreenFound bool   `json:"screen_found"`
	ScreenPath  string `json:"screen_path,omitempty"`
}

func DependencyStatus() DependencyReport {
	report := DependencyReport{}
	if path, err := exec.LookPath("screen"); err == nil {
		report.ScreenFound = true
		report.ScreenPath = path
	}
	return report
}

func CheckDependencies() error {
	report := DependencyStatus()
	if !report.ScreenFound {
		return fmt.Errorf("missing dependency: screen is not installed or not on PATH")
	}
	return nil
}
