package syncutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutex_SerializesSameKey(t *testing.T) {
	var mu ShardedMutex
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := mu.Lock("tenant-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestShardedMutex_SameKeySameShard(t *testing.T) {
	var mu ShardedMutex
	assert.Same(t, mu.shard("acme"), mu.shard("acme"))
}
