// Package jobfile extracts declared resource demand from a job's input file.
// The scan is best-effort: unrecognized content falls back to one core and
// one gigabyte rather than failing the submission.
package jobfile

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultCores    = 1
	DefaultMemoryGB = 1
)

var (
	reNProc = regexp.MustCompile(`(?i)^%nproc(?:shared)?\s*=\s*([0-9]+)`)
	reCPU   = regexp.MustCompile(`(?i)^%cpu\s*=\s*([0-9,\-]+)`)
	reMem   = regexp.MustCompile(`(?i)^%mem\s*=\s*([0-9]+)\s*(gb|mb)`)
)

// ParseResources scans the file for resource directives and returns the
// declared demand. The first matching directive of each kind wins; missing
// directives default to (1, 1). The only error is a failure to read the file.
func ParseResources(path string) (cores, memoryGB int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open job file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	cores = 0
	memoryGB = 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if cores == 0 {
			if m := reNProc.FindStringSubmatch(line); m != nil {
				if n, convErr := strconv.Atoi(m[1]); convErr == nil && n > 0 {
					cores = n
				}
			} else if m := reCPU.FindStringSubmatch(line); m != nil {
				if n := countCPUList(m[1]); n > 0 {
					cores = n
				}
			}
		}
		if memoryGB == 0 {
			if m := reMem.FindStringSubmatch(line); m != nil {
				if n, convErr := strconv.Atoi(m[1]); convErr == nil && n > 0 {
					if strings.EqualFold(m[2], "mb") {
						memoryGB = (n + 1023) / 1024
						if memoryGB < 1 {
							memoryGB = 1
						}
					} else {
						memoryGB = n
					}
				}
			}
		}
		if cores > 0 && memoryGB > 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("scan job file %s: %w", path, err)
	}

	if cores == 0 {
		cores = DefaultCores
	}
	if memoryGB == 0 {
		memoryGB = DefaultMemoryGB
	}
	return cores, memoryGB, nil
}

// countCPUList sizes a processor list like "0-7" or "0,2,4-6".
func countCPUList(spec string) int {
	total := 0
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, found := strings.Cut(part, "-")
		if !found {
			if _, err := strconv.Atoi(part); err != nil {
				return 0
			}
			total++
			continue
		}
		loN, loErr := strconv.Atoi(lo)
		hiN, hiErr := strconv.Atoi(hi)
		if loErr != nil || hiErr != nil || hiN < loN {
			return 0
		}
		total += hiN - loN + 1
	}
	return total
}
