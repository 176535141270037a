package spool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	lockDirSuffix = ".lock"
	lockOwnerFile = "owner.json"

	// Bounded retry for contended shared files: the daemon and any number of
	// unrelated submitter processes race for the queue and counter files.
	DefaultLockAttempts = 10
	DefaultLockDelay    = 100 * time.Millisecond
)

// ErrContended is returned once every lock attempt has been exhausted.
var ErrContended = errors.New("spool file is contended")

type FileLock struct {
	lockDir string
}

type lockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

// AcquireLock takes an exclusive advisory lock guarding target. The lock is a
// sibling directory created with os.Mkdir, which is atomic on every platform
// we care about and visible to unrelated processes.
func AcquireLock(target string) (FileLock, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return FileLock{}, fmt.Errorf("lock target is required")
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return FileLock{}, fmt.Errorf("create parent for %s: %w", target, err)
	}

	lockDir := target + lockDirSuffix
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, lockOwnerFile)
			var owner lockOwner
			if readErr := ReadJSON(ownerPath, &owner); readErr == nil && owner.PID > 0 {
				return FileLock{}, fmt.Errorf(
					"%s is locked (pid=%d created_at=%s host=%s): %w",
					target, owner.PID, owner.CreatedAt, owner.Hostname, ErrContended,
				)
			}
			return FileLock{}, fmt.Errorf("%s is locked: %w", target, ErrContended)
		}
		return FileLock{}, fmt.Errorf("acquire lock for %s: %w", target, err)
	}

	owner := lockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	if err := WriteJSON(filepath.Join(lockDir, lockOwnerFile), owner); err != nil {
		_ = os.Remove(lockDir)
		return FileLock{}, fmt.Errorf("write lock owner for %s: %w", target, err)
	}

	return FileLock{lockDir: lockDir}, nil
}

// AcquireLockRetry is AcquireLock with the bounded fixed-delay retry loop
// every spool mutation goes through. It fails with ErrContended only after
// attempts tries.
func AcquireLockRetry(target string, attempts int, delay time.Duration) (FileLock, error) {
	if attempts <= 0 {
		attempts = DefaultLockAttempts
	}
	if delay <= 0 {
		delay = DefaultLockDelay
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		lock, err := AcquireLock(target)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, ErrContended) {
			return FileLock{}, err
		}
		lastErr = err
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return FileLock{}, fmt.Errorf("lock %s after %d attempts: %w", target, attempts, lastErr)
}

func (l FileLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, lockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
