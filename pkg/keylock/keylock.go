// Package keylock hands out one mutex per key so writers on different keys
// never block each other.
package keylock

import "sync"

type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	if l, exists := k.locks[key]; exists {
		return l
	}
	l := &sync.Mutex{}
	k.locks[key] = l
	return l
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *KeyLock) Lock(key string) func() {
	l := k.get(key)
	l.Lock()
	return l.Unlock
}
