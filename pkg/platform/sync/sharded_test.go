package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestShardedMutexSerializesSameKey(t *testing.T) {
	m := NewShardedMutex()
	counter := 0

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("lockout:ana@polar.example:10.0.0.1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestShardedMutexEmptyKey(t *testing.T) {
	m := NewShardedMutex()
	unlock := m.Lock("")
	unlock()
	m.Lock("")()
}

func TestShardIsStableAndInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := rapid.String().Draw(t, "key")
		shard := shardFor(key)
		if shard >= shardCount {
			t.Fatalf("shard %d out of range", shard)
		}
		if shardFor(key) != shard {
			t.Fatalf("shard for %q changed", key)
		}
	})
}
