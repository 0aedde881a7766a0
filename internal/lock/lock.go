package lock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// LockHeldError is returned when another process holds the lock.
type LockHeldError struct {
	PID  int
	Path string
}

func (e *LockHeldError) Error() string {
	return fmt.Sprintf("lock held by PID %d (%s)", e.PID, e.Path)
}

// Lock represents an acquired lock file.
type Lock struct {
	file *os.File
	path string
}

// Acquire attempts to take an exclusive lock on path.
// Returns LockHeldError if another process already holds it.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
		if err != nil {
			return nil, fmt.Errorf("open lock file: %w", err)
		}

		err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err != nil {
			// Read existing PID from file for diagnostics.
			data, _ := os.ReadFile(path)
			pid := parsePID(string(data))
			_ = f.Close()
			return nil, &LockHeldError{PID: pid, Path: path}
		}

		// The flock only counts if f is still the file at path.
		current, err := sameFile(f, path)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if !current {
			_ = f.Close()
			continue
		}

		if err := f.Truncate(0); err != nil {
			_ = f.Close()
			return nil, err
		}
		content := fmt.Sprintf("pid=%d\ntime=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
		if _, err := f.WriteAt([]byte(content), 0); err != nil {
			_ = f.Close()
			return nil, err
		}
		return &Lock{file: f, path: path}, nil
	}
}

func sameFile(f *os.File, path string) (bool, error) {
	held, err := f.Stat()
	if err != nil {
		return false, err
	}
	onDisk, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return os.SameFile(held, onDisk), nil
}

// Wait retries Acquire every interval until it succeeds, fails with an error
// other than LockHeldError, or ctx is done.
func Wait(ctx context.Context, path string, interval time.Duration) (*Lock, error) {
	for {
		l, err := Acquire(path)
		var held *LockHeldError
		if err == nil || !errors.As(err, &held) {
			return l, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", err, ctx.Err())
		case <-time.After(interval):
		}
	}
}

// Release releases the lock. The file stays on disk so every waiter locks
// the same inode. Safe to call on nil receiver.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func parsePID(content string) int {
	for _, line := range strings.Split(content, "\n") {
		if after, ok := strings.CutPrefix(line, "pid="); ok {
			pid, _ := strconv.Atoi(after)
			return pid
		}
	}
	return 0
}
