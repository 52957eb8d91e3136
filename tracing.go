package mcache

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const cacheTracerName = "mcache"

// tracedCache 链路追踪缓存装饰器
type tracedCache struct {
	Cache
	tracer trace.Tracer
}

// NewTracing 创建带链路追踪的缓存实例
func NewTracing(c Cache) Cache {
	return &tracedCache{
		Cache:  c,
		tracer: otel.Tracer(cacheTracerName),
	}
}

// startSpan 启动一个新 Span
func (t *tracedCache) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// wrapOperation 包装操作，自动处理 Span
func (t *tracedCache) wrapOperation(
	ctx context.Context,
	operation string,
	key string,
	fn func(ctx context.Context) error,
) error {
	ctx, span := t.startSpan(ctx, operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("cache.key", key),
		attribute.String("cache.operation", operation),
	)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	span.SetAttributes(attribute.Int64("cache.duration_ms", duration.Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// wrapOperationMultiKeys 包装多键操作
func (t *tracedCache) wrapOperationMultiKeys(
	ctx context.Context,
	operation string,
	count int,
	fn func(ctx context.Context) error,
) error {
	ctx, span := t.startSpan(ctx, operation)
	defer span.End()

	span.SetAttributes(
		attribute.Int("cache.keys_count", count),
		attribute.String("cache.operation", operation),
	)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	span.SetAttributes(attribute.Int64("cache.duration_ms", duration.Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Get 获取缓存（带链路追踪），未命中不算错误
func (t *tracedCache) Get(ctx context.Context, key string, fallback any) (*Item, error) {
	var item *Item
	err := t.wrapOperation(ctx, "cache.Get", key, func(ctx context.Context) error {
		var err error
		item, err = t.Cache.Get(ctx, key, fallback)
		if err == nil {
			trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("cache.hit", item.Found))
		}
		return err
	})
	return item, err
}

// Set 设置缓存（带链路追踪）
func (t *tracedCache) Set(ctx context.Context, key string, value any, ttl int64) error {
	return t.wrapOperation(ctx, "cache.Set", key, func(ctx context.Context) error {
		if ttl > 0 {
			trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("cache.ttl_seconds", ttl))
		}
		return t.Cache.Set(ctx, key, value, ttl)
	})
}

// Delete 删除缓存（带链路追踪）
func (t *tracedCache) Delete(ctx context.Context, key string) error {
	return t.wrapOperation(ctx, "cache.Delete", key, func(ctx context.Context) error {
		return t.Cache.Delete(ctx, key)
	})
}

// Has 检查键是否存在（带链路追踪）
func (t *tracedCache) Has(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := t.wrapOperation(ctx, "cache.Has", key, func(ctx context.Context) error {
		var err error
		exists, err = t.Cache.Has(ctx, key)
		return err
	})
	return exists, err
}

// GetMultiple 批量获取（带链路追踪）
func (t *tracedCache) GetMultiple(ctx context.Context, keys []string, fallbacks []any) (map[string]*Item, error) {
	var items map[string]*Item
	err := t.wrapOperationMultiKeys(ctx, "cache.GetMultiple", len(keys), func(ctx context.Context) error {
		var err error
		items, err = t.Cache.GetMultiple(ctx, keys, fallbacks)
		return err
	})
	return items, err
}

// SetMultiple 批量设置（带链路追踪）
func (t *tracedCache) SetMultiple(ctx context.Context, items map[string]any, ttl int64) error {
	return t.wrapOperation(ctx, "cache.SetMultiple", fmt.Sprintf("%d items", len(items)), func(ctx context.Context) error {
		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.Int("cache.items_count", len(items)))
		if ttl > 0 {
			span.SetAttributes(attribute.Int64("cache.ttl_seconds", ttl))
		}
		return t.Cache.SetMultiple(ctx, items, ttl)
	})
}

// DeleteMultiple 批量删除（带链路追踪）
func (t *tracedCache) DeleteMultiple(ctx context.Context, keys ...string) error {
	return t.wrapOperationMultiKeys(ctx, "cache.DeleteMultiple", len(keys), func(ctx context.Context) error {
		return t.Cache.DeleteMultiple(ctx, keys...)
	})
}

// Clear 清空存储（带链路追踪）
func (t *tracedCache) Clear(ctx context.Context) error {
	return t.wrapOperation(ctx, "cache.Clear", "", func(ctx context.Context) error {
		return t.Cache.Clear(ctx)
	})
}

// Incr 自增（带链路追踪）
func (t *tracedCache) Incr(ctx context.Context, key string) (*Counter, error) {
	var counter *Counter
	err := t.wrapOperation(ctx, "cache.Incr", key, func(ctx context.Context) error {
		var err error
		counter, err = t.Cache.Incr(ctx, key)
		return err
	})
	return counter, err
}

// Decr 自减（带链路追踪）
func (t *tracedCache) Decr(ctx context.Context, key string) (*Counter, error) {
	var counter *Counter
	err := t.wrapOperation(ctx, "cache.Decr", key, func(ctx context.Context) error {
		var err error
		counter, err = t.Cache.Decr(ctx, key)
		return err
	})
	return counter, err
}

// IncrBy 自增指定值（带链路追踪）
func (t *tracedCache) IncrBy(ctx context.Context, key string, offset int64) (*Counter, error) {
	var counter *Counter
	err := t.wrapOperation(ctx, "cache.IncrBy", key, func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("cache.offset", offset))
		var err error
		counter, err = t.Cache.IncrBy(ctx, key, offset)
		return err
	})
	return counter, err
}

// DecrBy 自减指定值（带链路追踪）
func (t *tracedCache) DecrBy(ctx context.Context, key string, offset int64) (*Counter, error) {
	var counter *Counter
	err := t.wrapOperation(ctx, "cache.DecrBy", key, func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("cache.offset", offset))
		var err error
		counter, err = t.Cache.DecrBy(ctx, key, offset)
		return err
	})
	return counter, err
}

// Ping 检查连接（带链路追踪）
func (t *tracedCache) Ping(ctx context.Context) error {
	return t.wrapOperation(ctx, "cache.Ping", "", func(ctx context.Context) error {
		return t.Cache.Ping(ctx)
	})
}
