// Package lock provides per-user mutual exclusion for ledger mutations.
// The bot framework dispatches handlers on separate goroutines, so every
// read-modify-write of an account must hold that user's lock.
package lock

import "sync"

// UserLock provides per-user locking to prevent lost updates
// when two operations touch the same account concurrently.
type UserLock struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{}
}

func (ul *UserLock) getLock(userID int64) *sync.Mutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*sync.Mutex)
	}
	v, _ := ul.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Lock acquires the lock for a user.
func (ul *UserLock) Lock(userID int64) {
	ul.getLock(userID).Lock()
}

// Unlock releases the lock for a user.
func (ul *UserLock) Unlock(userID int64) {
	if v, ok := ul.locks.Load(userID); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (ul *UserLock) TryLock(userID int64) bool {
	return ul.getLock(userID).TryLock()
}

// WithLock executes fn while holding the user's lock.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// TryLockPair attempts to acquire both users' locks in ascending ID order,
// which keeps two-party transfers deadlock free. On failure neither lock is
// held.
func (ul *UserLock) TryLockPair(a, b int64) bool {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	if !ul.TryLock(first) {
		return false
	}
	if !ul.TryLock(second) {
		ul.Unlock(first)
		return false
	}
	return true
}

// UnlockPair releases both users' locks.
func (ul *UserLock) UnlockPair(a, b int64) {
	ul.Unlock(a)
	ul.Unlock(b)
}
