package service

import (
	"context"
	"fmt"
	"sync"

	"readyToHelp/pkg/e"
)

// KeyedMutex is an in-process Locker. Entries are dropped once no caller
// holds or waits on them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	sem  chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	ent, ok := k.locks[key]
	if !ok {
		ent = &keyedEntry{sem: make(chan struct{}, 1)}
		k.locks[key] = ent
	}
	ent.refs++
	k.mu.Unlock()

	select {
	case ent.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(key, ent)
		return nil, fmt.Errorf("%w: %s: %w", e.ErrLockNotAcquired, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-ent.sem
			k.release(key, ent)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, ent *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ent.refs--
	if ent.refs == 0 {
		delete(k.locks, key)
	}
}
