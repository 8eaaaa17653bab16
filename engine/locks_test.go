package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLockTableSameKeySerializes(t *testing.T) {
	var t1 lockTable

	unlock := t1.lock(3)

	acquired := make(chan struct{})
	go func() {
		unlock2 := t1.lock(3)
		close(acquired)
		unlock2()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock on same key acquired while first still held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after unlock")
	}
}

func TestLockTableDistinctKeysDoNotBlock(t *testing.T) {
	var t1 lockTable

	unlock1 := t1.lock(1)
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := t1.lock(2)
		unlock2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on distinct key blocked unexpectedly")
	}
}

func TestLockTableConcurrentSameKeyMutualExclusion(t *testing.T) {
	var t1 lockTable
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := t1.lock("shared")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
}

func TestParityLockKeyFormat(t *testing.T) {
	require.Equal(t, "0:1", parityLockKey(0, 1))
	require.Equal(t, "4:7", parityLockKey(4, 7))
}
