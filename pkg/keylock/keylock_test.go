package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLock_SerializesSameKey(t *testing.T) {
	k := New()
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("TRADER_CALL")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyLock_IndependentKeys(t *testing.T) {
	k := New()
	unlockA := k.Lock("TRADER_CALL")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("SMART_MONEY")
		unlockB()
		close(done)
	}()
	<-done
}
