package services

import (
	"log/slog"
	"sync"
	"time"
)

// SessionLockManager hands out one lock per configuration session so
// requests against the same session are serialised while different
// sessions proceed in parallel.
type SessionLockManager struct {
	locks    map[string]*sync.RWMutex
	locksMux sync.RWMutex
}

// NewSessionLockManager creates a new session lock manager
func NewSessionLockManager() *SessionLockManager {
	return &SessionLockManager{
		locks: make(map[string]*sync.RWMutex),
	}
}

// GetSessionLock returns the lock for sessionID, creating it on first use
func (m *SessionLockManager) GetSessionLock(sessionID string) *sync.RWMutex {
	m.locksMux.RLock()
	if lock, exists := m.locks[sessionID]; exists {
		m.locksMux.RUnlock()
		return lock
	}
	m.locksMux.RUnlock()

	m.locksMux.Lock()
	defer m.locksMux.Unlock()

	// Another goroutine may have created it meanwhile
	if lock, exists := m.locks[sessionID]; exists {
		return lock
	}

	lock := &sync.RWMutex{}
	m.locks[sessionID] = lock
	return lock
}

// WithSessionWriteLock runs fn while holding the session's write lock
func (m *SessionLockManager) WithSessionWriteLock(sessionID string, fn func()) {
	start := time.Now()
	lock := m.GetSessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	fn()

	slog.Debug("Session write operation completed",
		"session_id", sessionID,
		"duration", time.Since(start).String())
}

// WithSessionReadLock runs fn while holding the session's read lock
func (m *SessionLockManager) WithSessionReadLock(sessionID string, fn func()) {
	lock := m.GetSessionLock(sessionID)
	lock.RLock()
	defer lock.RUnlock()

	fn()
}

// Forget drops the lock of a discarded session
func (m *SessionLockManager) Forget(sessionID string) {
	m.locksMux.Lock()
	defer m.locksMux.Unlock()
	delete(m.locks, sessionID)
}

// GetLockStats returns statistics about the lock manager
func (m *SessionLockManager) GetLockStats() map[string]interface{} {
	m.locksMux.RLock()
	defer m.locksMux.RUnlock()

	return map[string]interface{}{
		"total_session_locks": len(m.locks),
		"lock_manager_type":   "fine_grained_per_session",
	}
}
