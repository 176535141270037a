package spool

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Counter issues monotonically increasing job ids from a durable file holding
// a single integer. The read-increment-write runs under the same exclusive
// lock discipline as the queue file, so no two submitter processes can ever
// be handed the same id.
type Counter struct {
	path string
}

func NewCounter(path string) *Counter {
	return &Counter{path: path}
}

func (c *Counter) Path() string {
	return c.path
}

// Next returns a fresh id, persisted before it is handed to the caller.
func (c *Counter) Next() (int, error) {
	lock, err := AcquireLockRetry(c.path, DefaultLockAttempts, DefaultLockDelay)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = lock.Release()
	}()

	last, err := c.read()
	if err != nil {
		return 0, err
	}
	next := last + 1
	if err := WriteBytes(c.path, []byte(strconv.Itoa(next)+"\n")); err != nil {
		return 0, err
	}
	return next, nil
}

// Current reads the last issued id without advancing it.
func (c *Counter) Current() (int, error) {
	lock, err := AcquireLockRetry(c.path, DefaultLockAttempts, DefaultLockDelay)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = lock.Release()
	}()

	return c.read()
}

func (c *Counter) read() (int, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read counter file %s: %w", c.path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parse counter file %s: %w", c.path, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("counter file %s holds negative value %d", c.path, val)
	}
	return val, nil
}
