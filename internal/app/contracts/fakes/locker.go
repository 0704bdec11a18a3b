package fakes

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrLockNotOwned = errors.New("lock not owned")

// Locker is a process local LockerService. Expiration is ignored.
type Locker struct {
	mu    sync.Mutex
	held  map[string]string
	Err   error
	Calls int
}

func NewLocker() *Locker {
	return &Locker{held: map[string]string{}}
}

func (l *Locker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls++
	if l.Err != nil {
		return false, "", l.Err
	}
	if _, ok := l.held[key]; ok {
		return false, "", nil
	}
	token := uuid.NewString()
	l.held[key] = token
	return true, token, nil
}

func (l *Locker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == lockValue {
		delete(l.held, key)
	}
	return nil
}

func (l *Locker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != lockValue {
		return ErrLockNotOwned
	}
	return nil
}

// Hold marks key as taken by someone else until the returned func runs.
func (l *Locker) Hold(key string) func() {
	l.mu.Lock()
	l.held[key] = "held-elsewhere"
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}
}

func (l *Locker) IsHeld(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[key]
	return ok
}
