// Package session launches jobs in detached, named execution sessions that
// survive the daemon's own restarts, and derives the per-job names the rest
// of the system keys on.
package session

import (
	"fmt"
	"path/filepath"
	"strings"
)

// sessionPrefix plus the job id gives a session name that is unique for as
// long as job ids are unique.
const sessionPrefix = "jobsched_"

// SentinelExt is the marker extension the execution script uses to signal
// completion.
const SentinelExt = ".done"

// Backend is the narrow capability the daemon needs from an execution
// environment. The production implementation shells out to GNU screen; tests
// substitute a fake.
type Backend interface {
	// Launch starts the execution script with the job path as its sole
	// argument inside a detached session, returning the pid of the session
	// leader.
	Launch(sessionID, scriptPath, jobPath string) (pid int, err error)
	// Terminate tears the named session down. Terminating an already-gone
	// session is not an error.
	Terminate(sessionID string) error
}

// Name derives the session name for a job id.
func Name(id int) string {
	return fmt.Sprintf("%s%d", sessionPrefix, id)
}

// SentinelPath derives the completion marker for a job input path by
// replacing its extension with the done marker. The execution script applies
// the same convention when it creates the file.
func SentinelPath(jobPath string) string {
	ext := filepath.Ext(jobPath)
	return strings.TrimSuffix(jobPath, ext) + SentinelExt
}
