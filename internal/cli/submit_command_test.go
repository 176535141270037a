package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobsched/internal/config"
	"jobsched/internal/spool"
)

func writeJobFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "job.gjf")
	content := "%nprocshared=4\n%mem=8GB\n#p opt\n\ntest job\n\n0 1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHarnessSubmitThenRemove(t *testing.T) {
	tmp := t.TempDir()
	spoolDir := filepath.Join(tmp, "spool")
	jobPath := writeJobFixture(t, tmp)

	if err := Run([]string{"submit", "--spool-dir", spoolDir, jobPath, "9"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := Run([]string{"submit", "--spool-dir", spoolDir, jobPath, "3"}); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	settings := config.Settings{SpoolDir: spoolDir}
	jobs, err := spool.NewQueue(queuePath(settings)).Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 queued jobs, got %d", len(jobs))
	}
	if jobs[0].ID != 1 || jobs[1].ID != 2 {
		t.Fatalf("expected contiguous ids from the counter, got %d and %d", jobs[0].ID, jobs[1].ID)
	}
	if jobs[0].Cores != 4 || jobs[0].MemoryGB != 8 {
		t.Fatalf("expected parsed demand 4c/8gb, got %dc/%dgb", jobs[0].Cores, jobs[0].MemoryGB)
	}
	if jobs[0].Priority != 9 || jobs[1].Priority != 3 {
		t.Fatalf("priorities round-tripped wrong: %d, %d", jobs[0].Priority, jobs[1].Priority)
	}

	if err := Run([]string{"remove", "--spool-dir", spoolDir, "1"}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	jobs, err = spool.NewQueue(queuePath(settings)).Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].ID != 2 {
		t.Fatalf("expected only job #2 left, got %+v", jobs)
	}

	err = Run([]string{"remove", "--spool-dir", spoolDir, "1"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error for removed id, got %v", err)
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	tmp := t.TempDir()
	spoolDir := filepath.Join(tmp, "spool")
	if err := os.MkdirAll(spoolDir, 0o755); err != nil {
		t.Fatal(err)
	}
	jobPath := writeJobFixture(t, tmp)

	if err := Run([]string{"submit", "--spool-dir", spoolDir, jobPath, "11"}); err == nil {
		t.Fatalf("expected priority range error")
	}
	if err := Run([]string{"submit", "--spool-dir", spoolDir, jobPath, "zero"}); err == nil {
		t.Fatalf("expected priority parse error")
	}
	if err := Run([]string{"submit", "--spool-dir", spoolDir, filepath.Join(tmp, "absent.gjf"), "5"}); err == nil {
		t.Fatalf("expected missing-file error")
	}

	// A failed submission must not consume an id.
	settings := config.Settings{SpoolDir: spoolDir}
	current, err := spool.NewCounter(counterPath(settings)).Current()
	if err != nil {
		t.Fatal(err)
	}
	if current != 0 {
		t.Fatalf("expected untouched counter, got %d", current)
	}
}
