package spool

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"jobsched/internal/model"
)

func testJob(id, priority, cores, memoryGB int) model.Job {
	return model.Job{
		ID:          id,
		Path:        "/data/jobs/job.gjf",
		Priority:    priority,
		SubmittedAt: time.Date(2023, 12, 10, 17, 58, 0, 0, time.Local),
		Cores:       cores,
		MemoryGB:    memoryGB,
		Status:      model.StatusQueued,
	}
}

func TestQueueAppendDrainRoundTrip(t *testing.T) {
	q := NewQueue(filepath.Join(t.TempDir(), "queue"))

	if err := q.Append(testJob(48, 10, 2, 4)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := q.Append(testJob(49, 3, 8, 16)); err != nil {
		t.Fatalf("append: %v", err)
	}

	jobs, err := q.DrainAll()
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != 48 || jobs[0].Priority != 10 || jobs[0].Cores != 2 || jobs[0].MemoryGB != 4 {
		t.Fatalf("first job round-tripped wrong: %+v", jobs[0])
	}
	if !jobs[0].SubmittedAt.Equal(time.Date(2023, 12, 10, 17, 58, 0, 0, time.Local)) {
		t.Fatalf("timestamp round-tripped wrong: %v", jobs[0].SubmittedAt)
	}

	again, err := q.DrainAll()
	if err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected empty queue after drain, got %d jobs", len(again))
	}
}

func TestQueueDrainSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue")
	content := strings.Join([]string{
		"#48 /data/jobs/a.gjf 10 10/12/2023 17:58 2 4",
		"#garbage",
		"#49 /data/jobs/b.gjf notanumber 10/12/2023 17:58 2 4",
		"short line",
		"#50 /data/jobs/c.gjf 5 10/12/2023 18:02 1 1",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	jobs, err := NewQueue(path).DrainAll()
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 parsable jobs, got %d", len(jobs))
	}
	if jobs[0].ID != 48 || jobs[1].ID != 50 {
		t.Fatalf("wrong jobs survived: %+v", jobs)
	}
}

func TestQueueRemoveByID(t *testing.T) {
	q := NewQueue(filepath.Join(t.TempDir(), "queue"))
	for _, id := range []int{1, 2, 3} {
		if err := q.Append(testJob(id, 5, 1, 1)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	found, err := q.RemoveByID(2)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !found {
		t.Fatalf("expected id 2 to be found")
	}

	found, err = q.RemoveByID(99)
	if err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if found {
		t.Fatalf("expected id 99 to be absent")
	}

	jobs, err := q.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != 1 || jobs[1].ID != 3 {
		t.Fatalf("queue contents wrong after remove: %+v", jobs)
	}
}

func TestQueueConcurrentAppendsLoseNothing(t *testing.T) {
	q := NewQueue(filepath.Join(t.TempDir(), "queue"))

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			errs <- q.Append(testJob(id, 5, 1, 1))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent append: %v", err)
		}
	}

	jobs, err := q.DrainAll()
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(jobs) != writers {
		t.Fatalf("expected %d well-formed lines, got %d", writers, len(jobs))
	}
	seen := make(map[int]bool, writers)
	for _, job := range jobs {
		if seen[job.ID] {
			t.Fatalf("duplicate id %d", job.ID)
		}
		seen[job.ID] = true
	}
}

func TestParseLineRejectsShortAndBadFields(t *testing.T) {
	cases := []string{
		"",
		"#1 /a 5 10/12/2023 17:58 2",      // six fields
		"#x /a 5 10/12/2023 17:58 2 4",    // bad id
		"#1 /a 5 99/99/2023 17:58 2 4",    // bad date
		"#1 /a 5 10/12/2023 17:58 zero 4", // bad cores
		"#1 /a 5 10/12/2023 17:58 2 -4",   // bad memory
	}
	for _, line := range cases {
		if _, err := ParseLine(line); err == nil {
			t.Fatalf("expected parse error for %q", line)
		}
	}
}
