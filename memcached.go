package mcache

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
)

// memcachedStore Memcached 存储客户端
// 底层 *memcache.Client 可安全并发使用
type memcachedStore struct {
	client *memcache.Client
}

// newMemcachedStore 创建 Memcached 存储客户端
// 权重通过在节点列表中重复地址实现（一致性哈希按节点槽位取模）
func newMemcachedStore(cfg *Config) (StoreClient, error) {
	if cfg.Memcached == nil {
		return nil, ErrInvalidConfig.WithMessage("cache invalid config: memcached config is required")
	}

	var addrs []string
	for _, srv := range cfg.Memcached.Servers {
		port := srv.Port
		if port == 0 {
			port = 11211
		}
		weight := srv.Weight
		if weight <= 0 {
			weight = 1
		}
		addr := fmt.Sprintf("%s:%d", srv.Host, port)
		for i := 0; i < weight; i++ {
			addrs = append(addrs, addr)
		}
	}

	client := memcache.New(addrs...)
	if cfg.Memcached.Timeout > 0 {
		client.Timeout = cfg.Memcached.Timeout
	}
	if cfg.Memcached.MaxIdleConns > 0 {
		client.MaxIdleConns = cfg.Memcached.MaxIdleConns
	}

	// 测试连接
	if err := client.Ping(); err != nil {
		return nil, ErrConnection.WithError(err)
	}

	return &memcachedStore{client: client}, nil
}

// resultCode 将客户端错误映射为显式结果码
func (m *memcachedStore) resultCode(err error) ResultCode {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, memcache.ErrCacheMiss):
		return ResultNotFound
	default:
		return ResultFailure
	}
}

// Get 获取值
func (m *memcachedStore) Get(_ context.Context, key string) ([]byte, ResultCode) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, m.resultCode(err)
	}
	return item.Value, ResultSuccess
}

// Set 设置值，ttl 为已归一化的 memcached 过期语义
func (m *memcachedStore) Set(_ context.Context, key string, value []byte, ttl int64) ResultCode {
	err := m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl),
	})
	return m.resultCode(err)
}

// Delete 删除键
func (m *memcachedStore) Delete(_ context.Context, key string) ResultCode {
	return m.resultCode(m.client.Delete(key))
}

// GetMulti 批量获取（单次网络往返）
func (m *memcachedStore) GetMulti(_ context.Context, keys []string) (map[string][]byte, ResultCode) {
	items, err := m.client.GetMulti(keys)
	if err != nil {
		return nil, ResultFailure
	}

	values := make(map[string][]byte, len(items))
	for key, item := range items {
		values[key] = item.Value
	}
	return values, ResultSuccess
}

// SetMulti 批量设置
// 协议没有批量写原语，逐键写入并聚合结果，任一硬错误即整体失败
func (m *memcachedStore) SetMulti(ctx context.Context, items map[string][]byte, ttl int64) ResultCode {
	for key, value := range items {
		if rc := m.Set(ctx, key, value, ttl); rc != ResultSuccess {
			return ResultFailure
		}
	}
	return ResultSuccess
}

// DeleteMulti 批量删除
// 全部未命中返回 ResultNotFound，出现硬错误返回 ResultFailure
func (m *memcachedStore) DeleteMulti(_ context.Context, keys []string) ResultCode {
	missing := 0
	for _, key := range keys {
		switch m.resultCode(m.client.Delete(key)) {
		case ResultNotFound:
			missing++
		case ResultFailure:
			return ResultFailure
		}
	}
	if missing == len(keys) && len(keys) > 0 {
		return ResultNotFound
	}
	return ResultSuccess
}

// Increment 自增，键不存在或值非数字时失败
func (m *memcachedStore) Increment(_ context.Context, key string, offset uint64) (int64, ResultCode) {
	value, err := m.client.Increment(key, offset)
	if err != nil {
		return 0, m.resultCode(err)
	}
	return int64(value), ResultSuccess
}

// Decrement 自减，memcached 语义下计数器在 0 处饱和
func (m *memcachedStore) Decrement(_ context.Context, key string, offset uint64) (int64, ResultCode) {
	value, err := m.client.Decrement(key, offset)
	if err != nil {
		return 0, m.resultCode(err)
	}
	return int64(value), ResultSuccess
}

// Flush 清空所有节点上的全部键
func (m *memcachedStore) Flush(_ context.Context) ResultCode {
	return m.resultCode(m.client.FlushAll())
}

// Ping 检查所有节点连通性
func (m *memcachedStore) Ping(_ context.Context) error {
	return m.client.Ping()
}

// Close 关闭空闲连接
func (m *memcachedStore) Close() error {
	return m.client.Close()
}

// String 返回存储类型
func (m *memcachedStore) String() string {
	return "MemcachedStore"
}
