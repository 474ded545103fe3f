package store

import (
	"testing"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheStore(t *testing.T) {
	ms := NewMemcacheStore("localhost:11211")
	ms.key = "wgwatcher:seen_ids_test"

	_, err := ms.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	set := NewSeenSet("10708747", "10712040")
	assert.NoError(t, ms.Save(set))

	loaded, err := ms.Load()
	assert.NoError(t, err)
	assert.Equal(t, set, loaded)

	// A corrupt value degrades to an empty set
	assert.NoError(t, ms.client.Set(&memcache.Item{Key: ms.key, Value: []byte("not json{")}))
	loaded, err = ms.Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())

	assert.NoError(t, ms.client.Delete(ms.key))

	// A missing key is an empty set
	loaded, err = ms.Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}
