package spool

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"jobsched/internal/model"
)

// QueueTimeLayout is the legacy timestamp format used in queue lines.
const QueueTimeLayout = "02/01/2006 15:04"

// queueLineFields is the minimum whitespace-separated field count of a
// well-formed line: #id, path, priority, date, time, cores, memoryGB.
const queueLineFields = 7

// Queue is the shared pending-job file. One job per line:
//
//	#<id> <path> <priority> <dd/MM/yyyy HH:mm> <cores> <memoryGB>
//
// The file is appended to by submitter processes and fully drained by the
// daemon; every mutation holds the exclusive advisory lock for its duration.
type Queue struct {
	path string
}

func NewQueue(path string) *Queue {
	return &Queue{path: path}
}

func (q *Queue) Path() string {
	return q.path
}

// Append durably adds one record. The line is written with a single write
// call on an O_APPEND descriptor so a concurrent drain never sees a torn
// line.
func (q *Queue) Append(job model.Job) error {
	lock, err := AcquireLockRetry(q.path, DefaultLockAttempts, DefaultLockDelay)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	f, err := os.OpenFile(q.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open queue file %s: %w", q.path, err)
	}
	if _, err := f.WriteString(FormatLine(job) + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append to queue file %s: %w", q.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close queue file %s: %w", q.path, err)
	}
	return nil
}

// DrainAll reads and removes every current record in one critical section,
// leaving the file empty. Malformed lines are dropped rather than failing the
// drain, so one corrupt record cannot block every job behind it.
func (q *Queue) DrainAll() ([]model.Job, error) {
	lock, err := AcquireLockRetry(q.path, DefaultLockAttempts, DefaultLockDelay)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release()
	}()

	jobs, err := readQueueFile(q.path)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return jobs, nil
	}
	if err := WriteBytes(q.path, nil); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Snapshot returns the current records without removing them.
func (q *Queue) Snapshot() ([]model.Job, error) {
	lock, err := AcquireLockRetry(q.path, DefaultLockAttempts, DefaultLockDelay)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release()
	}()

	return readQueueFile(q.path)
}

// RemoveByID deletes the first record whose id matches and reports whether a
// match was found. Unparsable lines are preserved as-is.
func (q *Queue) RemoveByID(id int) (bool, error) {
	lock, err := AcquireLockRetry(q.path, DefaultLockAttempts, DefaultLockDelay)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = lock.Release()
	}()

	data, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read queue file %s: %w", q.path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	found := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !found {
			if job, err := ParseLine(line); err == nil && job.ID == id {
				found = true
				continue
			}
		}
		kept = append(kept, line)
	}
	if !found {
		return false, nil
	}

	out := strings.Join(kept, "\n")
	if out != "" {
		out += "\n"
	}
	if err := WriteBytes(q.path, []byte(out)); err != nil {
		return false, err
	}
	return true, nil
}

func readQueueFile(path string) ([]model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Job{}, nil
		}
		return nil, fmt.Errorf("read queue file %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	jobs := make([]model.Job, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		job, err := ParseLine(line)
		if err != nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func FormatLine(job model.Job) string {
	return fmt.Sprintf("#%d %s %d %s %d %d",
		job.ID,
		job.Path,
		job.Priority,
		job.SubmittedAt.Format(QueueTimeLayout),
		job.Cores,
		job.MemoryGB,
	)
}

// ParseLine decodes one queue line. The legacy format is positional, so a
// path containing whitespace cannot round-trip; submitters reject such paths.
func ParseLine(line string) (model.Job, error) {
	fields := strings.Fields(line)
	if len(fields) < queueLineFields {
		return model.Job{}, fmt.Errorf("queue line has %d fields, want %d", len(fields), queueLineFields)
	}

	rawID := strings.TrimPrefix(fields[0], "#")
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return model.Job{}, fmt.Errorf("queue line has bad id %q", fields[0])
	}

	priority, err := strconv.Atoi(fields[2])
	if err != nil {
		return model.Job{}, fmt.Errorf("queue line has bad priority %q", fields[2])
	}

	submittedAt, err := time.ParseInLocation(QueueTimeLayout, fields[3]+" "+fields[4], time.Local)
	if err != nil {
		return model.Job{}, fmt.Errorf("queue line has bad timestamp %q: %w", fields[3]+" "+fields[4], err)
	}

	cores, err := strconv.Atoi(fields[5])
	if err != nil || cores <= 0 {
		return model.Job{}, fmt.Errorf("queue line has bad core count %q", fields[5])
	}
	memoryGB, err := strconv.Atoi(fields[6])
	if err != nil || memoryGB <= 0 {
		return model.Job{}, fmt.Errorf("queue line has bad memory %q", fields[6])
	}

	return model.Job{
		ID:          id,
		Path:        fields[1],
		Priority:    priority,
		SubmittedAt: submittedAt,
		Cores:       cores,
		MemoryGB:    memoryGB,
		Status:      model.StatusQueued,
	}, nil
}
