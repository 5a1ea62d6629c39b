// ABOUTME: Per-conversation mutual exclusion with context-aware waiting
// ABOUTME: Entries are reference counted and removed when no turn holds or awaits them

package gateway

import (
	"context"
	"sync"
)

type conversationLock struct {
	sem  chan struct{}
	refs int
}

type conversationLocks struct {
	mu   sync.Mutex
	held map[string]*conversationLock
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{held: make(map[string]*conversationLock)}
}

// acquire blocks until the conversation is free or ctx is done.
func (l *conversationLocks) acquire(ctx context.Context, conversationID string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.held[conversationID]
	if !ok {
		lock = &conversationLock{sem: make(chan struct{}, 1)}
		l.held[conversationID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(conversationID, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.sem
			l.unref(conversationID, lock)
		})
	}, nil
}

func (l *conversationLocks) unref(conversationID string, lock *conversationLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.held, conversationID)
	}
}

// active returns the number of conversations with a running or waiting turn.
func (l *conversationLocks) active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
