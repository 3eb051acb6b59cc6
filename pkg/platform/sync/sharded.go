// Package sync serializes work per key without one global lock.
package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// ShardedMutex hashes keys onto a fixed set of mutexes. Two keys may share a
// shard, so never hold one key's lock while taking another's.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

// Lock locks the shard for key and returns its unlock function.
func (m *ShardedMutex) Lock(key string) (unlock func()) {
	mu := &m.shards[shardFor(key)]
	mu.Lock()
	return mu.Unlock
}

func shardFor(key string) uint32 {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
