package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublishToStream_StringifiesValues(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	id, err := PublishToStream(ctx, client, "fence:events", map[string]interface{}{
		"is_inside": true,
		"latitude":  10.25,
		"event_id":  int64(42),
		"tags":      []string{"a", "b"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	msgs, err := ReadRange(ctx, client, "fence:events")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "true", msgs[0].Values["is_inside"])
	assert.Equal(t, "10.25", msgs[0].Values["latitude"])
	assert.Equal(t, "42", msgs[0].Values["event_id"])
	assert.Equal(t, `["a","b"]`, msgs[0].Values["tags"])
}

func TestPublishJSONToStream(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	_, err := PublishJSONToStream(ctx, client, "fence:events", map[string]any{"student_name": "Ana"})
	require.NoError(t, err)

	msgs, err := ReadRange(ctx, client, "fence:events")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &decoded))
	assert.Equal(t, "Ana", decoded["student_name"])
	assert.NotEmpty(t, msgs[0].Values["timestamp"])
}
