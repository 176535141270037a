package model

import "fmt"

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

var allowedTransitions = map[string]map[string]bool{
	"": {
		StatusQueued: true,
	},
	StatusQueued: {
		StatusQueued:  true,
		StatusRunning: true,
	},
	StatusRunning: {
		StatusRunning:   true,
		StatusCompleted: true,
		StatusQueued:    true, // launch failed, reservation rolled back
	},
	StatusCompleted: {
		StatusCompleted: true,
	},
}

func IsKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func TransitionJobStatus(job *Job, toStatus string) error {
	from := job.Status
	if !CanTransition(from, toStatus) {
		return fmt.Errorf("invalid job status transition: %q -> %q (job_id=%d)", from, toStatus, job.ID)
	}
	job.Status = toStatus
	return nil
}
