package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache 按 (操作, 参数) 记忆化的 TTL 缓存
// 条目一次写入后不再原地修改；手动刷新通过 InvalidateAll 整体清空
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry
	now   func() time.Time
}

// New 创建缓存
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		items: make(map[string]entry),
		now:   time.Now,
	}
}

// Key 组合操作名与参数生成缓存键
// 参数用 \x00 分隔，避免 ("ab","c") 与 ("a","bc") 碰撞
func Key(op string, args ...string) string {
	if len(args) == 0 {
		return op
	}
	return op + "\x00" + strings.Join(args, "\x00")
}

// Get 读取缓存；过期条目视为不存在并顺手删除
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(v.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return v.value, true
}

// Set 写入缓存
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// InvalidateAll 整体清空（手动刷新入口）
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

// Len 当前未过期条目数（含已到期但未被访问清理的条目不计）
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	now := c.now()
	for _, v := range c.items {
		if !now.After(v.expiresAt) {
			n++
		}
	}
	return n
}
