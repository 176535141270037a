package session

import "testing"

func TestName_IsDeterministicAndUniquePerID(t *testing.T) {
	if Name(48) != "jobsched_48" {
		t.Fatalf("unexpected session name: %s", Name(48))
	}
	if Name(48) != Name(48) {
		t.Fatalf("session name must be stable")
	}
	if Name(48) == Name(49) {
		t.Fatalf("distinct ids must give distinct session names")
	}
}

func TestSentinelPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/data/jobs/test_job_1.gjf", "/data/jobs/test_job_1.done"},
		{"/data/jobs/input.com", "/data/jobs/input.done"},
		{"/data/jobs/noext", "/data/jobs/noext.done"},
		{"/data/jobs/archive.tar.gz", "/data/jobs/archive.tar.done"},
	}
	for _, tc := range cases {
		if got := SentinelPath(tc.in); got != tc.want {
			t.Fatalf("SentinelPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseScreenList(t *testing.T) {
	out := "There are screens on:\n" +
		"\t31337.jobsched_48\t(12/10/2023 05:58:01 PM)\t(Detached)\n" +
		"\t31400.jobsched_490\t(12/10/2023 06:01:11 PM)\t(Detached)\n" +
		"2 Sockets in /run/screen/S-user.\n"

	if pid := parseScreenList(out, "jobsched_48"); pid != 31337 {
		t.Fatalf("expected pid 31337, got %d", pid)
	}
	if pid := parseScreenList(out, "jobsched_490"); pid != 31400 {
		t.Fatalf("expected pid 31400, got %d", pid)
	}
	if pid := parseScreenList(out, "jobsched_49"); pid != 0 {
		t.Fatalf("expected no match for prefix collision, got %d", pid)
	}
}
