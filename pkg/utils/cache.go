package utils

import (
	"sync"
	"time"
)

// cacheItem 内部结构，包含值和过期时间
type cacheItem[T any] struct {
	value      T
	expiration int64 // 0 表示永不过期
}

// Cache 并发安全的内存缓存，使用 sync.Map
type Cache[T any] struct {
	items sync.Map
	ttl   time.Duration
	now   func() time.Time
}

// NewCache 创建缓存，ttl <= 0 表示永不过期
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{ttl: ttl, now: time.Now}
}

// Set 设置缓存
func (c *Cache[T]) Set(key string, value T) {
	var exp int64
	if c.ttl > 0 {
		exp = c.now().Add(c.ttl).UnixNano()
	}
	c.items.Store(key, cacheItem[T]{value: value, expiration: exp})
}

// Get 获取缓存并验证是否过期
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	val, ok := c.items.Load(key)
	if !ok {
		return zero, false
	}

	item := val.(cacheItem[T])
	if item.expiration > 0 && c.now().UnixNano() > item.expiration {
		c.items.Delete(key) // 懒删除
		return zero, false
	}
	return item.value, true
}

// Delete 删除缓存
func (c *Cache[T]) Delete(key string) {
	c.items.Delete(key)
}

// Len 当前条目数（含尚未懒删除的过期条目）
func (c *Cache[T]) Len() int {
	n := 0
	c.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
