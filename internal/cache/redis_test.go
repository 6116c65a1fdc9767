package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"taskbot/internal/cache"
)

func setupRedisCache(t *testing.T) *cache.RedisCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewRedisCache(client)
}

func TestRedisCache_SetGet(t *testing.T) {
	// Arrange
	c := setupRedisCache(t)
	ctx := context.Background()

	// Act
	err := c.Set(ctx, cache.ListKey("user-a"), `[{"id":1}]`, 300*time.Second)
	assert.NoError(t, err)

	val, hit, err := c.Get(ctx, cache.ListKey("user-a"))

	// Assert
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, `[{"id":1}]`, val)
}

func TestRedisCache_GetMiss(t *testing.T) {
	// Arrange
	c := setupRedisCache(t)

	// Act
	val, hit, err := c.Get(context.Background(), "task-list:nobody")

	// Assert: промах — не ошибка
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, val)
}

func TestRedisCache_Del(t *testing.T) {
	// Arrange
	c := setupRedisCache(t)
	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, cache.ListKey("user-a"), "x", time.Minute))
	assert.NoError(t, c.Set(ctx, cache.OverviewKey("user-a"), "y", time.Minute))

	// Act: удаляем обе записи плюс отсутствующий ключ
	err := c.Del(ctx, cache.ListKey("user-a"), cache.OverviewKey("user-a"), cache.AdminOverviewKey)

	// Assert
	assert.NoError(t, err)
	_, hit, _ := c.Get(ctx, cache.ListKey("user-a"))
	assert.False(t, hit)
	_, hit, _ = c.Get(ctx, cache.OverviewKey("user-a"))
	assert.False(t, hit)
}

func TestRedisCache_TTLExpires(t *testing.T) {
	// Arrange
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.NewRedisCache(client)
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, cache.ListKey("user-a"), "x", 300*time.Second))

	// Act: проматываем время за пределы TTL
	mr.FastForward(301 * time.Second)

	// Assert
	_, hit, err := c.Get(ctx, cache.ListKey("user-a"))
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Del_NoKeys(t *testing.T) {
	c := setupRedisCache(t)
	assert.NoError(t, c.Del(context.Background()))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "task-list:user-a", cache.ListKey("user-a"))
	assert.Equal(t, "task-overview:user-a", cache.OverviewKey("user-a"))
	assert.Equal(t, "task-overview:admin", cache.AdminOverviewKey)
}
