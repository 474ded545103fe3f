package publisher

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	// Test if Redis is available
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	const stream = "wglistings_test"
	client.Del(ctx, stream)

	publisher := NewRedisPublisher(ctx, "localhost:6379", 0, stream, 16)
	defer publisher.Close()

	payload := []byte(`{"id":"10712040","title":"Zimmer in Tübingen"}`)
	assert.NoError(t, publisher.Publish(payload))

	entries, err := client.XRevRangeN(ctx, stream, "+", "-", 1).Result()
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	encoded, ok := entries[0].Values["b64_listing"].(string)
	assert.True(t, ok)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	assert.NoError(t, err)
	assert.Equal(t, payload, decoded)

	client.Del(ctx, stream)
}
