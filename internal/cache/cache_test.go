package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClient_IsNoop(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.Nil(t, c.Get(ctx, "k"))
	c.Set(ctx, "k", []byte("v"))
	c.SetJSON(ctx, "k", map[string]int{"a": 1})
	var dst map[string]int
	assert.False(t, c.GetJSON(ctx, "k", &dst))
	c.Delete(ctx, "k")
	c.DeletePattern(ctx, "applications:*")
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

// Port 1 refuses connections, which exercises the fail-safe paths.
func TestUnreachableRedis_BehavesLikeMiss(t *testing.T) {
	misses, hits := 0, 0
	c := New("127.0.0.1:1", "", 0, time.Minute,
		WithPrefix("test:"),
		WithObserver(func() { hits++ }, func() { misses++ }),
	)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.Set(ctx, "k", []byte("v"))
	assert.Nil(t, c.Get(ctx, "k"))
	var dst []int
	assert.False(t, c.GetJSON(ctx, "list", &dst))
	c.Delete(ctx, "k")
	c.DeletePattern(ctx, "*")

	assert.Equal(t, 0, hits)
	assert.Equal(t, 2, misses)
	assert.Error(t, c.Ping(ctx))
}

func TestKeyPrefix(t *testing.T) {
	c := New("127.0.0.1:1", "", 0, time.Minute, WithPrefix("console:"))
	defer c.Close()
	assert.Equal(t, "console:applications:list", c.key("applications:list"))
}

func TestSetJSON_UnencodableValueIsIgnored(t *testing.T) {
	c := New("127.0.0.1:1", "", 0, time.Minute)
	defer c.Close()
	c.SetJSON(context.Background(), "k", func() {})
}
