package mcache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore 内存存储客户端（本地开发与测试用）
// 对外保持 memcached 语义：计数器要求键已存在且值为 ASCII 十进制
type memoryStore struct {
	cache     *gocache.Cache
	threshold int64
	mu        sync.Mutex // 保护计数器的读-改-写
}

// newMemoryStore 创建内存存储客户端
func newMemoryStore(cfg *Config) (StoreClient, error) {
	mem := cfg.Memory
	if mem == nil {
		mem = DefaultMemoryConfig()
	}

	threshold := cfg.TTLThreshold
	if threshold <= 0 {
		threshold = DefaultTTLThreshold
	}
	return &memoryStore{
		cache:     gocache.New(mem.DefaultExpiration, mem.CleanupInterval),
		threshold: threshold,
	}, nil
}

// expiration 将归一化后的 TTL 转换为 go-cache 的过期时长
func (m *memoryStore) expiration(ttl int64) time.Duration {
	switch {
	case ttl > m.threshold:
		// 绝对时间戳
		return time.Until(time.Unix(ttl, 0))
	case ttl > 0:
		return time.Duration(ttl) * time.Second
	default:
		return gocache.DefaultExpiration
	}
}

// Get 获取值
func (m *memoryStore) Get(_ context.Context, key string) ([]byte, ResultCode) {
	data, found := m.cache.Get(key)
	if !found {
		return nil, ResultNotFound
	}
	value, ok := data.([]byte)
	if !ok {
		return nil, ResultFailure
	}
	return value, ResultSuccess
}

// Set 设置值
func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl int64) ResultCode {
	m.cache.Set(key, value, m.expiration(ttl))
	return ResultSuccess
}

// Delete 删除键
func (m *memoryStore) Delete(_ context.Context, key string) ResultCode {
	if _, found := m.cache.Get(key); !found {
		return ResultNotFound
	}
	m.cache.Delete(key)
	return ResultSuccess
}

// GetMulti 批量获取
func (m *memoryStore) GetMulti(ctx context.Context, keys []string) (map[string][]byte, ResultCode) {
	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if value, rc := m.Get(ctx, key); rc == ResultSuccess {
			values[key] = value
		}
	}
	return values, ResultSuccess
}

// SetMulti 批量设置
func (m *memoryStore) SetMulti(ctx context.Context, items map[string][]byte, ttl int64) ResultCode {
	for key, value := range items {
		m.Set(ctx, key, value, ttl)
	}
	return ResultSuccess
}

// DeleteMulti 批量删除
func (m *memoryStore) DeleteMulti(ctx context.Context, keys []string) ResultCode {
	missing := 0
	for _, key := range keys {
		if rc := m.Delete(ctx, key); rc == ResultNotFound {
			missing++
		}
	}
	if missing == len(keys) && len(keys) > 0 {
		return ResultNotFound
	}
	return ResultSuccess
}

// Increment 自增
func (m *memoryStore) Increment(ctx context.Context, key string, offset uint64) (int64, ResultCode) {
	return m.applyOffset(key, int64(offset))
}

// Decrement 自减，在 0 处饱和
func (m *memoryStore) Decrement(ctx context.Context, key string, offset uint64) (int64, ResultCode) {
	return m.applyOffset(key, -int64(offset))
}

// applyOffset 计数器的读-改-写，整体持锁保证原子性
// 键不存在返回 ResultNotFound，值非数字返回 ResultFailure
func (m *memoryStore) applyOffset(key string, offset int64) (int64, ResultCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, expiration, found := m.cache.GetWithExpiration(key)
	if !found {
		return 0, ResultNotFound
	}
	raw, ok := data.([]byte)
	if !ok {
		return 0, ResultFailure
	}

	current, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, ResultFailure
	}

	next := current + offset
	if next < 0 {
		next = 0
	}

	// 保留原有过期时间
	d := gocache.NoExpiration
	if !expiration.IsZero() {
		d = time.Until(expiration)
	}
	m.cache.Set(key, []byte(strconv.FormatInt(next, 10)), d)
	return next, ResultSuccess
}

// Flush 清空整个存储
func (m *memoryStore) Flush(_ context.Context) ResultCode {
	m.cache.Flush()
	return ResultSuccess
}

// Ping 检查连接（内存存储始终可用）
func (m *memoryStore) Ping(_ context.Context) error {
	return nil
}

// Close 关闭并清空
func (m *memoryStore) Close() error {
	m.cache.Flush()
	return nil
}

// String 返回存储类型
func (m *memoryStore) String() string {
	return "MemoryStore"
}
