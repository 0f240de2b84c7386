package syncutil

import (
	"hash/fnv"
	"sync"
)

// ShardedMutex is a fixed pool of mutexes keyed by string. Memory stays
// bounded no matter how many tenants are seen; keys hashing to the same
// shard occasionally wait on each other.
type ShardedMutex struct {
	shards [256]sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
func (s *ShardedMutex) Lock(key string) func() {
	mu := s.shard(key)
	mu.Lock()
	return mu.Unlock
}

func (s *ShardedMutex) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.shards[h.Sum32()%uint32(len(s.shards))]
}
