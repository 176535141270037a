package daemon

import (
	"errors"
	"os"
	"time"

	"jobsched/internal/model"
	"jobsched/internal/session"
	"jobsched/internal/spool"
)

const runningStateSchemaVersion = 1

// saveRunning rewrites the durable running-job record. It is called after
// every admission and every reclamation; the atomic rename in WriteJSON keeps
// readers from ever seeing a half-written state.
func (s *Scheduler) saveRunning() error {
	state := model.RunningState{
		SchemaVersion: runningStateSchemaVersion,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
		Jobs:          make([]model.Job, 0, len(s.running)),
	}
	for _, id := range sortedIDs(s.running) {
		state.Jobs = append(state.Jobs, s.running[id])
	}
	return spool.WriteJSON(s.runningPath, state)
}

// recoverRunning reloads the running set left behind by a previous daemon.
// Jobs whose sentinel already exists are reclaimed immediately; the rest get
// their reservations re-established and are monitored as usual.
func (s *Scheduler) recoverRunning() error {
	var state model.RunningState
	if err := spool.ReadJSON(s.runningPath, &state); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	capacity, capErr := s.capacity()
	if capErr != nil {
		s.audit.Error("probe capacity", capErr)
	}

	changed := false
	for _, job := range state.Jobs {
		if job.ID <= 0 || job.Status != model.StatusRunning {
			changed = true
			continue
		}

		sentinel := session.SentinelPath(job.Path)
		if _, err := os.Stat(sentinel); err == nil {
			// Finished while no daemon was watching. Its reservation was
			// never re-established, so there is nothing to release.
			if err := s.backend.Terminate(job.SessionID); err != nil {
				s.audit.Error("terminate session "+job.SessionID, err)
			}
			freeCores, freeMemoryGB := s.tracker.Available(capacity.Cores, capacity.MemoryGB)
			s.audit.Completed(job, freeCores, freeMemoryGB)
			if err := os.Remove(sentinel); err != nil && !os.IsNotExist(err) {
				s.audit.Error("remove sentinel "+sentinel, err)
			}
			changed = true
			continue
		}

		s.running[job.ID] = job
		s.tracker.Reserve(job.Cores, job.MemoryGB)
	}

	if changed {
		return s.saveRunning()
	}
	return nil
}
