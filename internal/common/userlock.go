package common

import "sync"

// UserLocks serializes chunk-set rewrites against reads per user. A writer
// rebuilding a user's chunks under the delete-then-recreate discipline holds
// the write lock across the whole rewrite; searches hold the read lock, so a
// reader never observes the transiently-empty set mid-rewrite.
//
// One instance is shared by every component touching a user's chunk set.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.RWMutex)}
}

func (u *UserLocks) lock(userID string) *sync.RWMutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	lock, ok := u.locks[userID]
	if !ok {
		lock = &sync.RWMutex{}
		u.locks[userID] = lock
	}
	return lock
}

// Lock acquires the user's write lock
func (u *UserLocks) Lock(userID string) { u.lock(userID).Lock() }

// Unlock releases the user's write lock
func (u *UserLocks) Unlock(userID string) { u.lock(userID).Unlock() }

// RLock acquires the user's read lock
func (u *UserLocks) RLock(userID string) { u.lock(userID).RLock() }

// RUnlock releases the user's read lock
func (u *UserLocks) RUnlock(userID string) { u.lock(userID).RUnlock() }
