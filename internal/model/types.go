package model

import "time"

// Job is the unit of scheduling. ID, Path, Priority, SubmittedAt, Cores and
// MemoryGB are fixed at submission time; SessionID and PID are filled in by
// the daemon when the job is launched.
type Job struct {
	ID          int       `json:"id"`
	Path        string    `json:"path"`
	Priority    int       `json:"priority"`
	SubmittedAt time.Time `json:"submitted_at"`
	Cores       int       `json:"cores"`
	MemoryGB    int       `json:"memory_gb"`
	SessionID   string    `json:"session_id,omitempty"`
	PID         int       `json:"pid,omitempty"`
	Status      string    `json:"status"`
}

const (
	MinPriority = 1
	MaxPriority = 10
)

func ValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}

// RunningState is the daemon's durable record of launched jobs. It is
// rewritten after every admission and every reclamation so a restarted daemon
// can pick its reservations back up.
type RunningState struct {
	SchemaVersion int    `json:"schema_version"`
	UpdatedAt     string `json:"updated_at,omitempty"`
	Jobs          []Job  `json:"jobs"`
}
