// Package mcache 提供统一的缓存引擎抽象（memcached 语义）
// 支持 memcached / redis / memory 三种驱动
package mcache

import "context"

// KeyValueStore 键值缓存接口（统一抽象）
type KeyValueStore interface {
	// 基础操作
	Get(ctx context.Context, key string, fallback any) (*Item, error)
	Set(ctx context.Context, key string, value any, ttl int64) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)

	// 批量操作（每个操作只有一次底层批量调用）
	GetMultiple(ctx context.Context, keys []string, fallbacks []any) (map[string]*Item, error)
	SetMultiple(ctx context.Context, items map[string]any, ttl int64) error
	DeleteMultiple(ctx context.Context, keys ...string) error

	// Clear 清空整个存储（影响共享存储上的所有键，不限于本实例前缀）
	Clear(ctx context.Context) error
}

// CounterStore 原子计数器接口
type CounterStore interface {
	Incr(ctx context.Context, key string) (*Counter, error)
	Decr(ctx context.Context, key string) (*Counter, error)
	IncrBy(ctx context.Context, key string, offset int64) (*Counter, error)
	DecrBy(ctx context.Context, key string, offset int64) (*Counter, error)
}

// Cache 缓存完整契约（键值 + 计数器 + 生命周期）
type Cache interface {
	KeyValueStore
	CounterStore

	// 工具方法
	Ping(ctx context.Context) error
	Close() error
}

// Serializer 序列化接口
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
