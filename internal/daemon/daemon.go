package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"jobsched/internal/auditlog"
	"jobsched/internal/hostinfo"
	"jobsched/internal/model"
	"jobsched/internal/resources"
	"jobsched/internal/session"
	"jobsched/internal/spool"
)

const DefaultTick = 10 * time.Second

type Options struct {
	SpoolDir   string
	ExecScript string
	Tick       time.Duration

	// TotalCores / TotalMemoryGB cap the schedulable capacity. Zero means
	// probe the host.
	TotalCores    int
	TotalMemoryGB int

	Backend session.Backend
	// Probe overrides the host capacity query; nil uses hostinfo.Probe.
	Probe func() (hostinfo.Capacity, error)
}

// Scheduler owns all daemon-local state. Everything here is touched only
// from the tick loop, so none of it is locked.
type Scheduler struct {
	queue       *spool.Queue
	runningPath string
	execScript  string
	tick        time.Duration

	totalCores    int
	totalMemoryGB int
	probe         func() (hostinfo.Capacity, error)

	backend session.Backend
	audit   *auditlog.Logger
	tracker resources.Tracker

	pending map[int]model.Job
	running map[int]model.Job
}

// New prepares the spool directory, reloads the durable running-job state,
// and re-reserves resources for jobs that were in flight when the previous
// daemon stopped. Jobs whose sentinel already appeared are reclaimed on the
// spot.
func New(opts Options) (*Scheduler, error) {
	spoolDir := strings.TrimSpace(opts.SpoolDir)
	if spoolDir == "" {
		return nil, fmt.Errorf("spool directory is required")
	}
	if strings.TrimSpace(opts.ExecScript) == "" {
		return nil, fmt.Errorf("exec script is required")
	}
	if err := spool.Mkdir(spoolDir); err != nil {
		return nil, err
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	backend := opts.Backend
	if backend == nil {
		backend = session.ScreenBackend{}
	}
	probe := opts.Probe
	if probe == nil {
		probe = hostinfo.Probe
	}

	s := &Scheduler{
		queue:         spool.NewQueue(filepath.Join(spoolDir, spool.QueueFileName)),
		runningPath:   filepath.Join(spoolDir, spool.RunningFileName),
		execScript:    opts.ExecScript,
		tick:          tick,
		totalCores:    opts.TotalCores,
		totalMemoryGB: opts.TotalMemoryGB,
		probe:         probe,
		backend:       backend,
		audit:         auditlog.New(spoolDir),
		pending:       make(map[int]model.Job),
		running:       make(map[int]model.Job),
	}

	if err := s.recoverRunning(); err != nil {
		return nil, err
	}
	return s, nil
}

// Run executes ticks until ctx is cancelled. A failing tick is logged and the
// loop continues on the next one.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.RunTick()
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.tick):
		}
	}
}

// RunTick performs one scheduling pass: drain, admit, reap. Panics are
// contained here so a single bad tick cannot take the daemon down.
func (s *Scheduler) RunTick() {
	defer func() {
		if r := recover(); r != nil {
			s.audit.Error("tick", fmt.Errorf("panic: %v", r))
		}
	}()

	if err := s.drainQueue(); err != nil {
		s.audit.Error("drain queue", err)
	}

	capacity, err := s.capacity()
	if err != nil {
		s.audit.Error("probe capacity", err)
		return
	}

	s.admit(capacity)
	s.reap(capacity)
}

// PendingCount and RunningCount exist for tests and diagnostics.
func (s *Scheduler) PendingCount() int { return len(s.pending) }
func (s *Scheduler) RunningCount() int { return len(s.running) }

func (s *Scheduler) capacity() (hostinfo.Capacity, error) {
	capacity := hostinfo.Capacity{Cores: s.totalCores, MemoryGB: s.totalMemoryGB}
	if capacity.Cores > 0 && capacity.MemoryGB > 0 {
		return capacity, nil
	}
	probed, err := s.probe()
	if err != nil {
		return hostinfo.Capacity{}, err
	}
	if capacity.Cores <= 0 {
		capacity.Cores = probed.Cores
	}
	if capacity.MemoryGB <= 0 {
		capacity.MemoryGB = probed.MemoryGB
	}
	return capacity, nil
}

// drainQueue empties the shared queue file and merges the records into the
// pending set, de-duplicating by id against both pending and running.
func (s *Scheduler) drainQueue() error {
	drained, err := s.queue.DrainAll()
	if err != nil {
		return err
	}
	for _, job := range drained {
		if _, ok := s.pending[job.ID]; ok {
			continue
		}
		if _, ok := s.running[job.ID]; ok {
			continue
		}
		s.pending[job.ID] = job
	}
	return nil
}

// admit walks the pending set in (priority desc, submittedAt asc, id asc)
// order and launches every job that fits the capacity remaining after the
// admissions before it. Jobs that no longer fit stay pending for the next
// tick.
func (s *Scheduler) admit(capacity hostinfo.Capacity) {
	freeCores, freeMemoryGB := s.tracker.Available(capacity.Cores, capacity.MemoryGB)

	candidates := make([]model.Job, 0, len(s.pending))
	for _, job := range s.pending {
		if job.Cores <= freeCores && job.MemoryGB <= freeMemoryGB {
			candidates = append(candidates, job)
		}
	}
	SortForAdmission(candidates)

	for _, job := range candidates {
		if job.Cores > freeCores || job.MemoryGB > freeMemoryGB {
			continue
		}

		s.tracker.Reserve(job.Cores, job.MemoryGB)
		job.SessionID = session.Name(job.ID)
		pid, err := s.backend.Launch(job.SessionID, s.execScript, job.Path)
		if err != nil {
			// Roll the reservation back and leave the job pending rather
			// than losing it.
			s.tracker.Release(job.Cores, job.MemoryGB)
			s.audit.Error(fmt.Sprintf("launch job #%d", job.ID), err)
			freeCores, freeMemoryGB = s.tracker.Available(capacity.Cores, capacity.MemoryGB)
			continue
		}

		job.PID = pid
		if err := model.TransitionJobStatus(&job, model.StatusRunning); err != nil {
			s.tracker.Release(job.Cores, job.MemoryGB)
			s.audit.Error(fmt.Sprintf("admit job #%d", job.ID), err)
			continue
		}
		delete(s.pending, job.ID)
		s.running[job.ID] = job
		if err := s.saveRunning(); err != nil {
			s.audit.Error("persist running state", err)
		}

		freeCores, freeMemoryGB = s.tracker.Available(capacity.Cores, capacity.MemoryGB)
		s.audit.Started(job, freeCores, freeMemoryGB)
	}
}

// reap checks every running job for its completion sentinel and reclaims the
// ones that finished. The job leaves the running set before the sentinel is
// deleted, so a sentinel that refuses to die cannot release resources twice.
func (s *Scheduler) reap(capacity hostinfo.Capacity) {
	for _, id := range sortedIDs(s.running) {
		job := s.running[id]
		sentinel := session.SentinelPath(job.Path)
		if _, err := os.Stat(sentinel); err != nil {
			if !os.IsNotExist(err) {
				s.audit.Error(fmt.Sprintf("check sentinel for job #%d", job.ID), err)
			}
			continue
		}

		if err := model.TransitionJobStatus(&job, model.StatusCompleted); err != nil {
			s.audit.Error(fmt.Sprintf("complete job #%d", job.ID), err)
		}
		delete(s.running, id)
		if err := s.saveRunning(); err != nil {
			s.audit.Error("persist running state", err)
		}
		s.tracker.Release(job.Cores, job.MemoryGB)

		if err := s.backend.Terminate(job.SessionID); err != nil {
			s.audit.Error(fmt.Sprintf("terminate session %s", job.SessionID), err)
		}

		freeCores, freeMemoryGB := s.tracker.Available(capacity.Cores, capacity.MemoryGB)
		s.audit.Completed(job, freeCores, freeMemoryGB)

		if err := os.Remove(sentinel); err != nil && !os.IsNotExist(err) {
			s.audit.Error(fmt.Sprintf("remove sentinel %s", sentinel), err)
		}
	}
}

// SortForAdmission orders jobs by priority descending, submission time
// ascending, then id ascending. Ids are monotonic, so the final tie-break
// equals queue order.
func SortForAdmission(jobs []model.Job) {
	slices.SortFunc(jobs, func(a, b model.Job) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			if a.SubmittedAt.Before(b.SubmittedAt) {
				return -1
			}
			return 1
		}
		return a.ID - b.ID
	})
}

func sortedIDs(jobs map[int]model.Job) []int {
	ids := make([]int, 0, len(jobs))
	for id := range jobs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
