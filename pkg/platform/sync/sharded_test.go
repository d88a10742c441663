package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutex_LockUnlock(t *testing.T) {
	m := NewShardedMutex()

	m.Lock("rule-7")
	m.Unlock("rule-7")

	m.Lock("")
	m.Unlock("")
}

func TestShardedMutex_ConcurrentCounters(t *testing.T) {
	m := NewShardedMutex()
	counters := map[string]int{}
	keys := []string{"rule-a", "rule-b", "rule-c", "rule-d"}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		for _, key := range keys {
			wg.Add(1)
			go func(k string) {
				defer wg.Done()
				m.Lock(k)
				defer m.Unlock(k)
				counters[k]++
			}(key)
		}
	}
	wg.Wait()

	for _, key := range keys {
		assert.Equal(t, 100, counters[key])
	}
}

func TestShardedMutex_EmptyKeyUsesShardZero(t *testing.T) {
	m := NewShardedMutex()
	assert.Equal(t, 0, m.shardFor(""))
}
