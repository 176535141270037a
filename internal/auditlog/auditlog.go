// Package auditlog appends the human-readable operational record: one file
// for admissions and completions, one for errors. Writes are best-effort; a
// failing log must never take the daemon down with it.
package auditlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobsched/internal/model"
	"jobsched/internal/spool"
)

const timeLayout = "02/01/2006 15:04:05"

type Logger struct {
	completionPath string
	errorPath      string
}

func New(spoolDir string) *Logger {
	return &Logger{
		completionPath: filepath.Join(spoolDir, spool.CompletionLogName),
		errorPath:      filepath.Join(spoolDir, spool.ErrorLogName),
	}
}

// Started records an admission with a snapshot of the capacity left after the
// reservation.
func (l *Logger) Started(job model.Job, freeCores, freeMemoryGB int) {
	l.append(l.completionPath, fmt.Sprintf(
		"started job #%d %s priority=%d session=%s pid=%d free=%dc/%dgb",
		job.ID, job.Path, job.Priority, job.SessionID, job.PID, freeCores, freeMemoryGB,
	))
}

// Completed records a reclamation with a snapshot of the capacity left after
// the release.
func (l *Logger) Completed(job model.Job, freeCores, freeMemoryGB int) {
	l.append(l.completionPath, fmt.Sprintf(
		"completed job #%d %s session=%s pid=%d free=%dc/%dgb",
		job.ID, job.Path, job.SessionID, job.PID, freeCores, freeMemoryGB,
	))
}

func (l *Logger) Error(context string, err error) {
	if err == nil {
		return
	}
	l.append(l.errorPath, fmt.Sprintf("%s: %v", context, err))
}

func (l *Logger) append(path, line string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	stamp := time.Now().Format(timeLayout)
	_, _ = fmt.Fprintf(f, "%s %s\n", stamp, line)
	_ = f.Close()
}
