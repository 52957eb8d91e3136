package mcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore Redis 存储客户端
// 以 memcached 语义对外：计数器要求键已存在，自减在 0 处饱和
type redisStore struct {
	client    redis.UniversalClient
	threshold int64
}

// incrScript / decrScript 保持 memcached 计数器语义：
// 键不存在时失败而不是从 0 创建，自减不跌破 0
var (
	incrScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return false end
return redis.call('INCRBY', KEYS[1], ARGV[1])`)

	decrScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return false end
local v = redis.call('DECRBY', KEYS[1], ARGV[1])
if v < 0 then
  redis.call('SET', KEYS[1], '0', 'KEEPTTL')
  v = 0
end
return v`)
)

// newRedisStore 创建 Redis 存储客户端
func newRedisStore(cfg *Config) (StoreClient, error) {
	if cfg.Redis == nil {
		return nil, ErrInvalidConfig.WithMessage("cache invalid config: redis config is required")
	}

	var client redis.UniversalClient

	switch cfg.Redis.Mode {
	case RedisStandalone, "":
		// 单机模式
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Username:     cfg.Redis.Username,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

	case RedisCluster:
		// 集群模式
		if len(cfg.Redis.Addrs) == 0 {
			return nil, ErrInvalidConfig.WithMessage("cache invalid config: cluster mode requires addrs")
		}
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.Redis.Addrs,
			Username:     cfg.Redis.Username,
			Password:     cfg.Redis.Password,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

	case RedisSentinel:
		// 哨兵模式
		if len(cfg.Redis.Addrs) == 0 {
			return nil, ErrInvalidConfig.WithMessage("cache invalid config: sentinel mode requires addrs")
		}
		if cfg.Redis.MasterName == "" {
			return nil, ErrInvalidConfig.WithMessage("cache invalid config: sentinel mode requires master name")
		}
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.Redis.MasterName,
			SentinelAddrs: cfg.Redis.Addrs,
			Username:      cfg.Redis.Username,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			MaxRetries:    cfg.Redis.MaxRetries,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
		})

	default:
		return nil, ErrInvalidConfig.WithMessage("cache invalid config: unsupported redis mode")
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, ErrConnection.WithError(err)
	}

	threshold := cfg.TTLThreshold
	if threshold <= 0 {
		threshold = DefaultTTLThreshold
	}
	return &redisStore{client: client, threshold: threshold}, nil
}

// Get 获取值
func (r *redisStore) Get(ctx context.Context, key string) ([]byte, ResultCode) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ResultNotFound
		}
		return nil, ResultFailure
	}
	return data, ResultSuccess
}

// Set 设置值
// ttl 为归一化后的秒数：> 分界值为绝对 unix 时间戳，映射为 ExpireAt
func (r *redisStore) Set(ctx context.Context, key string, value []byte, ttl int64) ResultCode {
	var err error
	switch {
	case ttl > r.threshold:
		err = r.client.SetArgs(ctx, key, value, redis.SetArgs{ExpireAt: time.Unix(ttl, 0)}).Err()
	case ttl > 0:
		err = r.client.Set(ctx, key, value, time.Duration(ttl)*time.Second).Err()
	default:
		err = r.client.Set(ctx, key, value, 0).Err()
	}
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// Delete 删除键
func (r *redisStore) Delete(ctx context.Context, key string) ResultCode {
	deleted, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return ResultFailure
	}
	if deleted == 0 {
		return ResultNotFound
	}
	return ResultSuccess
}

// GetMulti 批量获取（单次 MGET）
func (r *redisStore) GetMulti(ctx context.Context, keys []string) (map[string][]byte, ResultCode) {
	results, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, ResultFailure
	}

	values := make(map[string][]byte, len(keys))
	for i, result := range results {
		if result == nil {
			continue
		}
		str, ok := result.(string)
		if !ok {
			continue
		}
		values[keys[i]] = []byte(str)
	}
	return values, ResultSuccess
}

// SetMulti 批量设置（使用 Pipeline，单次网络往返）
func (r *redisStore) SetMulti(ctx context.Context, items map[string][]byte, ttl int64) ResultCode {
	pipe := r.client.Pipeline()
	for key, value := range items {
		switch {
		case ttl > r.threshold:
			pipe.SetArgs(ctx, key, value, redis.SetArgs{ExpireAt: time.Unix(ttl, 0)})
		case ttl > 0:
			pipe.Set(ctx, key, value, time.Duration(ttl)*time.Second)
		default:
			pipe.Set(ctx, key, value, 0)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// DeleteMulti 批量删除（单次 DEL）
func (r *redisStore) DeleteMulti(ctx context.Context, keys []string) ResultCode {
	deleted, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return ResultFailure
	}
	if deleted == 0 {
		return ResultNotFound
	}
	return ResultSuccess
}

// Increment 自增
func (r *redisStore) Increment(ctx context.Context, key string, offset uint64) (int64, ResultCode) {
	value, err := incrScript.Run(ctx, r.client, []string{key}, offset).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ResultNotFound
		}
		return 0, ResultFailure
	}
	return value, ResultSuccess
}

// Decrement 自减
func (r *redisStore) Decrement(ctx context.Context, key string, offset uint64) (int64, ResultCode) {
	value, err := decrScript.Run(ctx, r.client, []string{key}, offset).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ResultNotFound
		}
		return 0, ResultFailure
	}
	return value, ResultSuccess
}

// Flush 清空整个存储
func (r *redisStore) Flush(ctx context.Context) ResultCode {
	if err := r.client.FlushAll(ctx).Err(); err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// Ping 检查连接
func (r *redisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close 关闭连接
func (r *redisStore) Close() error {
	return r.client.Close()
}

// String 返回存储类型
func (r *redisStore) String() string {
	return "RedisStore"
}
