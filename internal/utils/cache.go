package utils

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize 未配置 CACHE_SIZE 时的容量
const DefaultCacheSize = 500

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

// GlobalCache 进程内 LRU 缓存，条目各自带 TTL；容量满时淘汰最久未用的条目
type GlobalCache struct {
	entries *lru.Cache[string, cacheEntry]
	now     func() time.Time
}

func NewCache(size int) *GlobalCache {
	if size < 1 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &GlobalCache{entries: entries, now: time.Now}
}

// Set 写入缓存，ttl 后过期
func (c *GlobalCache) Set(key string, value interface{}, ttl time.Duration) {
	c.entries.Add(key, cacheEntry{value: value, expires: c.now().Add(ttl)})
}

// Get 返回未过期的值；过期的条目顺手删除
func (c *GlobalCache) Get(key string) interface{} {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	if !c.now().Before(entry.expires) {
		c.entries.Remove(key)
		return nil
	}
	return entry.value
}

func (c *GlobalCache) Delete(key string) {
	c.entries.Remove(key)
}

// Purge 清空全部条目
func (c *GlobalCache) Purge() {
	c.entries.Purge()
}

func (c *GlobalCache) Len() int {
	return c.entries.Len()
}
