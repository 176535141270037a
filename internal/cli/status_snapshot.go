package cli

import (
	"errors"
	"os"

	"jobsched/internal/config"
	"jobsched/internal/hostinfo"
	"jobsched/internal/model"
	"jobsched/internal/spool"
)

// spoolSnapshot is a read-only view over the spool files, assembled without
// mutating anything so status and list can run alongside the daemon.
type spoolSnapshot struct {
	Pending []model.Job
	Running []model.Job

	UsedCores     int
	UsedMemoryGB  int
	TotalCores    int
	TotalMemoryGB int
}

func (s spoolSnapshot) FreeCores() int {
	free := s.TotalCores - s.UsedCores
	if free < 0 {
		free = 0
	}
	return free
}

func (s spoolSnapshot) FreeMemoryGB() int {
	free := s.TotalMemoryGB - s.UsedMemoryGB
	if free < 0 {
		free = 0
	}
	return free
}

func loadSnapshot(settings config.Settings) (spoolSnapshot, error) {
	snap := spoolSnapshot{
		TotalCores:    settings.TotalCores,
		TotalMemoryGB: settings.TotalMemoryGB,
	}

	pending, err := spool.NewQueue(queuePath(settings)).Snapshot()
	if err != nil {
		return spoolSnapshot{}, err
	}
	snap.Pending = pending

	var state model.RunningState
	if err := spool.ReadJSON(runningPath(settings), &state); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return spoolSnapshot{}, err
		}
	} else {
		snap.Running = state.Jobs
	}
	for _, job := range snap.Running {
		snap.UsedCores += job.Cores
		snap.UsedMemoryGB += job.MemoryGB
	}

	if snap.TotalCores <= 0 || snap.TotalMemoryGB <= 0 {
		capacity, err := hostinfo.Probe()
		if err != nil {
			return spoolSnapshot{}, err
		}
		if snap.TotalCores <= 0 {
			snap.TotalCores = capacity.Cores
		}
		if snap.TotalMemoryGB <= 0 {
			snap.TotalMemoryGB = capacity.MemoryGB
		}
	}
	return snap, nil
}
