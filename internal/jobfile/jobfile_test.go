package jobfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJobFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.gjf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseResources_Directives(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		cores    int
		memoryGB int
	}{
		{
			name:     "nprocshared and mem gb",
			content:  "%nprocshared=8\n%mem=16GB\n#p opt freq\n",
			cores:    8,
			memoryGB: 16,
		},
		{
			name:     "case insensitive",
			content:  "%NProcShared=4\n%MEM=2gb\n",
			cores:    4,
			memoryGB: 2,
		},
		{
			name:     "cpu range",
			content:  "%cpu=0-7\n%mem=8GB\n",
			cores:    8,
			memoryGB: 8,
		},
		{
			name:     "cpu list with ranges",
			content:  "%cpu=0,2,4-6\n%mem=4GB\n",
			cores:    5,
			memoryGB: 4,
		},
		{
			name:     "mem in mb rounds up to a gigabyte",
			content:  "%nproc=2\n%mem=1500MB\n",
			cores:    2,
			memoryGB: 2,
		},
		{
			name:     "no directives falls back to defaults",
			content:  "#p b3lyp/6-31g* opt\n\ntitle\n\n0 1\n",
			cores:    1,
			memoryGB: 1,
		},
		{
			name:     "first directive wins",
			content:  "%nprocshared=2\n%nprocshared=16\n%mem=4GB\n",
			cores:    2,
			memoryGB: 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeJobFile(t, tc.content)
			cores, memoryGB, err := ParseResources(path)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if cores != tc.cores || memoryGB != tc.memoryGB {
				t.Fatalf("got %dc/%dgb, want %dc/%dgb", cores, memoryGB, tc.cores, tc.memoryGB)
			}
		})
	}
}

func TestParseResources_MissingFile(t *testing.T) {
	if _, _, err := ParseResources(filepath.Join(t.TempDir(), "absent.gjf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
