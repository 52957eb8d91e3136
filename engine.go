package mcache

import (
	"context"

	"go.uber.org/zap"
)

// Engine 缓存引擎
// 组合键编码、TTL 归一化、结果解释三层，实现 Cache 契约
// 无持久状态：每次调用都是对共享存储客户端的一次同步请求/响应，
// 连接在构造时建立一次并复用，本层不做超时、重试和取消
type Engine struct {
	store      StoreClient
	serializer Serializer
	prefix     string
	defaultTTL int64
	ttl        *ttlNormalizer
	logger     *zap.Logger
}

// newEngine 创建引擎实例（store 已连接就绪）
func newEngine(store StoreClient, cfg *Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      store,
		serializer: cfg.Serializer,
		prefix:     cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
		ttl:        newTTLNormalizer(cfg.TTLThreshold, cfg.now),
		logger:     logger,
	}
}

// buildKey 构建完整的存储键名
func (e *Engine) buildKey(key string) string {
	return buildKey(e.prefix, key)
}

// effectiveTTL 计算下发给存储端的 TTL
// 0 替换为配置的默认 TTL，随后归一化（写调用前的最后一步）
func (e *Engine) effectiveTTL(ttl int64) int64 {
	if ttl == 0 {
		ttl = e.defaultTTL
	}
	return e.ttl.normalize(ttl)
}

// marshalFallback 序列化回退值（nil 回退保持 nil）
func (e *Engine) marshalFallback(fallback any) ([]byte, error) {
	if fallback == nil {
		return nil, nil
	}
	raw, err := e.serializer.Marshal(fallback)
	if err != nil {
		return nil, ErrSerialization.WithError(err)
	}
	return raw, nil
}

// Get 获取缓存项
// 未命中或底层调用失败时返回包装了 fallback 的 Item（Found=false）；
// 命中与否以结果码判定，与值本身是否为空无关
func (e *Engine) Get(ctx context.Context, key string, fallback any) (*Item, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	value, rc := e.store.Get(ctx, e.buildKey(key))
	if rc == ResultSuccess {
		return &Item{Key: key, Found: true, raw: value, serializer: e.serializer}, nil
	}

	if rc == ResultFailure {
		e.logger.Warn("cache get degraded to fallback",
			zap.String("key", key),
			zap.String("result", rc.String()),
		)
	}

	raw, err := e.marshalFallback(fallback)
	if err != nil {
		return nil, err
	}
	return &Item{Key: key, Found: false, raw: raw, serializer: e.serializer}, nil
}

// Set 设置缓存
// 所有操作（包括 Set）统一经过键编码加前缀
func (e *Engine) Set(ctx context.Context, key string, value any, ttl int64) error {
	if err := validateKey(key); err != nil {
		return err
	}

	raw, err := e.serializer.Marshal(value)
	if err != nil {
		return ErrSerialization.WithError(err)
	}

	if rc := e.store.Set(ctx, e.buildKey(key), raw, e.effectiveTTL(ttl)); rc != ResultSuccess {
		return ErrOperation.WithMessage("cache set failed")
	}
	return nil
}

// Delete 删除缓存，键不存在同样视为成功
func (e *Engine) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if rc := e.store.Delete(ctx, e.buildKey(key)); !deleteOK(rc) {
		return ErrOperation.WithMessage("cache delete failed")
	}
	return nil
}

// Has 检查键是否存在
// 基于 Get 的结果码判定，存储值为 0 或空字符串时依然返回 true
func (e *Engine) Has(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, rc := e.store.Get(ctx, e.buildKey(key))
	return rc == ResultSuccess, nil
}

// GetMultiple 批量获取（单次底层批量调用）
// 批量调用整体失败时，每个键回退到对应位置的 fallback
// fallbacks 可短于 keys，缺省位置回退为 nil
func (e *Engine) GetMultiple(ctx context.Context, keys []string, fallbacks []any) (map[string]*Item, error) {
	if err := validateKeys(keys); err != nil {
		return nil, err
	}

	fallbackAt := func(i int) any {
		if i < len(fallbacks) {
			return fallbacks[i]
		}
		return nil
	}

	items := make(map[string]*Item, len(keys))
	if len(keys) == 0 {
		return items, nil
	}

	storeKeys := make([]string, len(keys))
	for i, key := range keys {
		storeKeys[i] = e.buildKey(key)
	}

	values, rc := e.store.GetMulti(ctx, storeKeys)
	if rc == ResultFailure {
		e.logger.Warn("cache multi-get degraded to fallbacks",
			zap.Int("keys", len(keys)),
		)
		values = nil
	}

	for i, key := range keys {
		if value, ok := values[storeKeys[i]]; ok {
			items[key] = &Item{Key: key, Found: true, raw: value, serializer: e.serializer}
			continue
		}
		raw, err := e.marshalFallback(fallbackAt(i))
		if err != nil {
			return nil, err
		}
		items[key] = &Item{Key: key, Found: false, raw: raw, serializer: e.serializer}
	}
	return items, nil
}

// SetMultiple 批量设置（单次底层批量调用）
// 先校验全部键再写入，单个非法键使整个请求在任何 I/O 前失败；
// TTL 对整批归一化一次
func (e *Engine) SetMultiple(ctx context.Context, items map[string]any, ttl int64) error {
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	if err := validateKeys(keys); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	batch := make(map[string][]byte, len(items))
	for key, value := range items {
		raw, err := e.serializer.Marshal(value)
		if err != nil {
			return ErrSerialization.WithError(err)
		}
		batch[e.buildKey(key)] = raw
	}

	if rc := e.store.SetMulti(ctx, batch, e.effectiveTTL(ttl)); rc != ResultSuccess {
		return ErrOperation.WithMessage("cache multi-set failed")
	}
	return nil
}

// DeleteMultiple 批量删除（单次底层批量调用）
// 所有键均不存在同样视为成功
func (e *Engine) DeleteMultiple(ctx context.Context, keys ...string) error {
	if err := validateKeys(keys); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	storeKeys := make([]string, len(keys))
	for i, key := range keys {
		storeKeys[i] = e.buildKey(key)
	}

	if rc := e.store.DeleteMulti(ctx, storeKeys); !deleteOK(rc) {
		return ErrOperation.WithMessage("cache multi-delete failed")
	}
	return nil
}

// Clear 清空整个存储
// 作用于共享存储上的所有键，不限于本实例的前缀命名空间
func (e *Engine) Clear(ctx context.Context) error {
	if rc := e.store.Flush(ctx); rc != ResultSuccess {
		return ErrOperation.WithMessage("cache clear failed")
	}
	e.logger.Info("cache cleared", zap.String("prefix", e.prefix))
	return nil
}

// Incr 自增 1
func (e *Engine) Incr(ctx context.Context, key string) (*Counter, error) {
	return e.IncrBy(ctx, key, 1)
}

// Decr 自减 1
func (e *Engine) Decr(ctx context.Context, key string) (*Counter, error) {
	return e.DecrBy(ctx, key, 1)
}

// IncrBy 自增指定值，负的 offset 等价于自减
// 键不存在或值非数字时失败
func (e *Engine) IncrBy(ctx context.Context, key string, offset int64) (*Counter, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	value, rc := e.applyOffset(ctx, e.buildKey(key), offset)
	if rc != ResultSuccess {
		return nil, ErrIncrement
	}
	return &Counter{Key: key, Value: value}, nil
}

// DecrBy 自减指定值，负的 offset 等价于自增
// 键不存在时失败（与自增的失败语义不同，错误保持区分）
func (e *Engine) DecrBy(ctx context.Context, key string, offset int64) (*Counter, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	value, rc := e.applyOffset(ctx, e.buildKey(key), -offset)
	if rc != ResultSuccess {
		return nil, ErrDecrement
	}
	return &Counter{Key: key, Value: value}, nil
}

// applyOffset 按符号路由到底层的自增/自减
func (e *Engine) applyOffset(ctx context.Context, storeKey string, offset int64) (int64, ResultCode) {
	if offset < 0 {
		return e.store.Decrement(ctx, storeKey, uint64(-offset))
	}
	return e.store.Increment(ctx, storeKey, uint64(offset))
}

// Ping 检查存储连接
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return ErrConnection.WithError(err)
	}
	return nil
}

// Close 关闭存储连接
func (e *Engine) Close() error {
	if err := e.store.Close(); err != nil {
		return ErrOperation.WithError(err)
	}
	return nil
}
