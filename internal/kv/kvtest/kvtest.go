// Package kvtest provides kv.Store doubles for tests.
package kvtest

import (
	"errors"
	"sync"

	"github.com/sadopc/focuslock/internal/kv"
)

// ErrInjected is the cause carried by every failure a Flaky store produces.
var ErrInjected = errors.New("injected storage failure")

// Flaky wraps a kv.Store and fails reads and/or writes on demand.
type Flaky struct {
	kv.Store

	mu        sync.Mutex
	failRead  bool
	failWrite bool
	writes    int
}

func NewFlaky(inner kv.Store) *Flaky {
	return &Flaky{Store: inner}
}

func (f *Flaky) FailReads(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRead = v
}

func (f *Flaky) FailWrites(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrite = v
}

// Writes returns the number of Set and Remove calls attempted.
func (f *Flaky) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *Flaky) Get(key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failRead
	f.mu.Unlock()
	if fail {
		return nil, kv.ReadError(key, ErrInjected)
	}
	return f.Store.Get(key)
}

func (f *Flaky) Set(key string, value []byte) error {
	f.mu.Lock()
	f.writes++
	fail := f.failWrite
	f.mu.Unlock()
	if fail {
		return kv.WriteError(key, ErrInjected)
	}
	return f.Store.Set(key, value)
}

func (f *Flaky) Remove(key string) error {
	f.mu.Lock()
	f.writes++
	fail := f.failWrite
	f.mu.Unlock()
	if fail {
		return kv.WriteError(key, ErrInjected)
	}
	return f.Store.Remove(key)
}
