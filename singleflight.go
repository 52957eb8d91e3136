package mcache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SingleflightCache 防击穿缓存装饰器
// 内部持有 singleflight.Group，确保同一 key 的并发回源只执行一次
type SingleflightCache struct {
	Cache
	group singleflight.Group
}

// NewSingleflightCache 创建防击穿缓存装饰器
func NewSingleflightCache(c Cache) *SingleflightCache {
	return &SingleflightCache{Cache: c}
}

// Do 执行缓存操作（防击穿）
// 多个相同 key 的并发请求只会执行一次 fn，所有请求返回相同结果
func (s *SingleflightCache) Do(
	ctx context.Context,
	key string,
	ttl int64,
	fn func() (any, error),
) (any, error) {
	v, err, _ := s.group.Do(key, func() (any, error) {
		item, gerr := s.Cache.Get(ctx, key, nil)
		if gerr == nil && item.Found {
			var r any
			if serr := item.Scan(&r); serr == nil {
				return r, nil
			}
		}
		r, ferr := fn()
		if ferr != nil {
			return nil, ferr
		}
		_ = s.Cache.Set(ctx, key, r, ttl)
		return r, nil
	})
	return v, err
}

// Forget 清除 singleflight 状态，下次请求会重新执行 fn
func (s *SingleflightCache) Forget(key string) {
	s.group.Forget(key)
}

// Remember 标准缓存回源（不防击穿），适合非热点数据
func Remember[T any](
	ctx context.Context,
	c Cache,
	key string,
	ttl int64,
	fn func() (T, error),
) (T, error) {
	var result T
	item, err := c.Get(ctx, key, nil)
	if err == nil && item.Found {
		if serr := item.Scan(&result); serr == nil {
			return result, nil
		}
	}
	result, err = fn()
	if err != nil {
		return result, err
	}
	_ = c.Set(ctx, key, result, ttl)
	return result, nil
}

// RememberWithLock 带锁的缓存回源（防击穿）
// 使用 singleflight 确保同一 key 的多个并发请求只执行一次，适合热点数据
func RememberWithLock[T any](
	ctx context.Context,
	sf *SingleflightCache,
	key string,
	ttl int64,
	fn func() (T, error),
) (T, error) {
	v, err, _ := sf.group.Do(key, func() (any, error) {
		var cached T
		item, gerr := sf.Cache.Get(ctx, key, nil)
		if gerr == nil && item.Found {
			if serr := item.Scan(&cached); serr == nil {
				return cached, nil
			}
		}
		r, ferr := fn()
		if ferr != nil {
			return nil, ferr
		}
		_ = sf.Cache.Set(ctx, key, r, ttl)
		return r, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	result, ok := v.(T)
	if !ok {
		var zero T
		return zero, ErrSerialization.WithMessage("invalid result type")
	}
	return result, nil
}

// GetTyped 泛型 Get，返回值与是否命中
func GetTyped[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var result T
	item, err := c.Get(ctx, key, nil)
	if err != nil {
		return result, false, err
	}
	if !item.Found {
		return result, false, nil
	}
	if err := item.Scan(&result); err != nil {
		return result, false, err
	}
	return result, true, nil
}

// SetTyped 泛型 Set
func SetTyped[T any](ctx context.Context, c Cache, key string, value T, ttl int64) error {
	return c.Set(ctx, key, value, ttl)
}
