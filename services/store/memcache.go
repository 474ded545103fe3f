package store

import (
	"github.com/bradfitz/gomemcache/memcache"

	apperrors "wgwatcher/pkg/errors"
)

// seenKey is the memcached key holding the encoded seen-set
const seenKey = "wgwatcher:seen_ids"

// MemcacheStore keeps the seen-set in a memcached instance, for deployments
// where runs happen on hosts without a shared filesystem
type MemcacheStore struct {
	client *memcache.Client
	key    string
}

// NewMemcacheStore creates a memcached-backed store
func NewMemcacheStore(serverAddr string) *MemcacheStore {
	return &MemcacheStore{
		client: memcache.New(serverAddr),
		key:    seenKey,
	}
}

// Load reads the seen-set. A missing key or malformed value yields an empty
// set. A transport failure is an error: treating it as "nothing seen yet"
// would re-notify every listing on the page.
func (m *MemcacheStore) Load() (SeenSet, error) {
	item, err := m.client.Get(m.key)
	if err == memcache.ErrCacheMiss {
		return NewSeenSet(), nil
	}
	if err != nil {
		return nil, apperrors.NewStore(m.key, "failed to read seen ids from memcache", err)
	}
	return decodeSeenIDs(item.Value), nil
}

// Save writes the full set; the entry never expires
func (m *MemcacheStore) Save(set SeenSet) error {
	data, err := encodeSeenIDs(set)
	if err != nil {
		return apperrors.NewStore(m.key, "failed to encode seen ids", err)
	}
	if err := m.client.Set(&memcache.Item{Key: m.key, Value: data}); err != nil {
		return apperrors.NewStore(m.key, "failed to write seen ids to memcache", err)
	}
	return nil
}
