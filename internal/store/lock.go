package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	sessionLockDirName   = ".session.lock"
	sessionLockOwnerFile = "owner.json"
)

// SessionLock guards a data directory against a second concurrent
// engine session. Two sessions rewriting the same history file would
// silently drop each other's appends.
type SessionLock struct {
	lockDir string
}

type sessionLockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireSessionLock(dataDir string) (SessionLock, error) {
	target := strings.TrimSpace(dataDir)
	if target == "" {
		return SessionLock{}, fmt.Errorf("data directory is required")
	}
	if err := Mkdir(target); err != nil {
		return SessionLock{}, err
	}

	lockDir := filepath.Join(target, sessionLockDirName)
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, sessionLockOwnerFile)
			var owner sessionLockOwner
			if readErr := ReadJSON(ownerPath, &owner); readErr == nil && owner.PID > 0 && owner.CreatedAt != "" {
				return SessionLock{}, fmt.Errorf(
					"data directory is locked: %s (pid=%d created_at=%s host=%s)",
					target, owner.PID, owner.CreatedAt, owner.Hostname,
				)
			}
			return SessionLock{}, fmt.Errorf("data directory is locked: %s", target)
		}
		return SessionLock{}, fmt.Errorf("acquire session lock for %s: %w", target, err)
	}

	owner := sessionLockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	ownerPath := filepath.Join(lockDir, sessionLockOwnerFile)
	if err := WriteJSON(ownerPath, owner); err != nil {
		_ = os.Remove(lockDir)
		return SessionLock{}, fmt.Errorf("write session lock owner for %s: %w", target, err)
	}

	return SessionLock{lockDir: lockDir}, nil
}

func (l SessionLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, sessionLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release session lock %s: %w", l.lockDir, err)
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
