package mcache

import (
	"time"

	"go.uber.org/zap"
)

// DriverType 驱动类型
type DriverType string

const (
	DriverMemcached DriverType = "memcached"
	DriverRedis     DriverType = "redis"
	DriverMemory    DriverType = "memory"
)

// RedisMode Redis 模式
type RedisMode string

const (
	RedisStandalone RedisMode = "standalone"
	RedisCluster    RedisMode = "cluster"
	RedisSentinel   RedisMode = "sentinel"
)

// Config 缓存配置
type Config struct {
	// 驱动类型
	Driver DriverType `mapstructure:"driver"`

	// Memcached 配置
	Memcached *MemcachedConfig `mapstructure:"memcached"`

	// Redis 配置
	Redis *RedisConfig `mapstructure:"redis"`

	// Memory 配置
	Memory *MemoryConfig `mapstructure:"memory"`

	// 键前缀（命名空间隔离）
	KeyPrefix string `mapstructure:"key_prefix"`

	// 默认 TTL（秒），0 表示使用存储端默认
	DefaultTTL int64 `mapstructure:"default_ttl"`

	// TTL 相对/绝对语义分界值（秒），0 表示使用 DefaultTTLThreshold
	TTLThreshold int64 `mapstructure:"ttl_threshold"`

	// 序列化器
	Serializer Serializer `mapstructure:"-"`

	// 日志（可选，缺省为 Nop）
	Logger *zap.Logger `mapstructure:"-"`

	// 时钟，仅测试注入用
	now func() time.Time
}

// MemcachedServer 单个 memcached 服务节点
type MemcachedServer struct {
	Host   string `mapstructure:"host"`   // 主机（必填）
	Port   int    `mapstructure:"port"`   // 端口，0 使用 11211
	Weight int    `mapstructure:"weight"` // 权重，<=0 视为 1
}

// MemcachedConfig Memcached 配置
type MemcachedConfig struct {
	Servers      []MemcachedServer `mapstructure:"servers"`
	Timeout      time.Duration     `mapstructure:"timeout"`        // 网络超时，0 使用客户端默认
	MaxIdleConns int               `mapstructure:"max_idle_conns"` // 每节点最大空闲连接
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`  // 地址（单机）
	Addrs        []string      `mapstructure:"addrs"` // 地址列表（集群/哨兵）
	Mode         RedisMode     `mapstructure:"mode"`  // standalone, cluster, sentinel
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// 哨兵模式配置
	MasterName string `mapstructure:"master_name"`
}

// MemoryConfig 内存缓存配置
type MemoryConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"` // 默认过期时间
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`   // 清理间隔
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Driver:       DriverMemory,
		Serializer:   &JSONSerializer{},
		KeyPrefix:    "",
		DefaultTTL:   0,
		TTLThreshold: DefaultTTLThreshold,
		Memory:       DefaultMemoryConfig(),
	}
}

// DefaultMemcachedConfig 返回默认 Memcached 配置
func DefaultMemcachedConfig() *MemcachedConfig {
	return &MemcachedConfig{
		Servers:      []MemcachedServer{{Host: "localhost", Port: 11211, Weight: 1}},
		Timeout:      500 * time.Millisecond,
		MaxIdleConns: 2,
	}
}

// DefaultRedisConfig 返回默认 Redis 配置
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         "localhost:6379",
		Mode:         RedisStandalone,
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// DefaultMemoryConfig 返回默认 Memory 配置
func DefaultMemoryConfig() *MemoryConfig {
	return &MemoryConfig{
		DefaultExpiration: 10 * time.Minute,
		CleanupInterval:   5 * time.Minute,
	}
}

// Option 配置选项
type Option func(*Config)

// WithMemcached 设置 Memcached 配置
func WithMemcached(cfg *MemcachedConfig) Option {
	return func(c *Config) {
		c.Driver = DriverMemcached
		c.Memcached = cfg
	}
}

// WithRedis 设置 Redis 配置
func WithRedis(cfg *RedisConfig) Option {
	return func(c *Config) {
		c.Driver = DriverRedis
		c.Redis = cfg
	}
}

// WithMemory 设置 Memory 配置
func WithMemory(cfg *MemoryConfig) Option {
	return func(c *Config) {
		c.Driver = DriverMemory
		c.Memory = cfg
	}
}

// WithKeyPrefix 设置键前缀
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// WithDefaultTTL 设置默认 TTL（秒）
func WithDefaultTTL(ttl int64) Option {
	return func(c *Config) {
		c.DefaultTTL = ttl
	}
}

// WithTTLThreshold 设置 TTL 相对/绝对分界值（秒）
func WithTTLThreshold(threshold int64) Option {
	return func(c *Config) {
		c.TTLThreshold = threshold
	}
}

// WithSerializer 设置序列化器
func WithSerializer(s Serializer) Option {
	return func(c *Config) {
		c.Serializer = s
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Validate 验证配置
// 在任何连接尝试前快速失败
func (c *Config) Validate() error {
	// 验证序列化器
	if c.Serializer == nil {
		return ErrInvalidConfig.WithMessage("cache invalid config: serializer is required")
	}

	switch c.Driver {
	case DriverMemcached:
		if c.Memcached == nil || len(c.Memcached.Servers) == 0 {
			return ErrInvalidConfig.WithMessage("cache invalid config: memcached requires at least 1 server")
		}
		for _, srv := range c.Memcached.Servers {
			if srv.Host == "" {
				return ErrInvalidConfig.WithMessage("cache invalid config: memcached host is required")
			}
		}

	case DriverRedis:
		if c.Redis == nil {
			return ErrInvalidConfig.WithMessage("cache invalid config: redis config is required")
		}
		switch c.Redis.Mode {
		case RedisStandalone, "":
			if c.Redis.Addr == "" {
				return ErrInvalidConfig.WithMessage("cache invalid config: redis addr is required for standalone mode")
			}
		case RedisCluster:
			if len(c.Redis.Addrs) < 3 {
				return ErrInvalidConfig.WithMessage("cache invalid config: redis cluster requires at least 3 nodes")
			}
		case RedisSentinel:
			if len(c.Redis.Addrs) == 0 {
				return ErrInvalidConfig.WithMessage("cache invalid config: redis sentinel requires at least 1 sentinel node")
			}
			if c.Redis.MasterName == "" {
				return ErrInvalidConfig.WithMessage("cache invalid config: redis sentinel requires master name")
			}
		default:
			return ErrInvalidConfig.WithMessage("cache invalid config: invalid redis mode")
		}

	case DriverMemory:
		if c.Memory == nil {
			return ErrInvalidConfig.WithMessage("cache invalid config: memory config is required")
		}

	default:
		// 未知驱动按运行环境缺失处理
		return ErrDriverMissing
	}

	return nil
}
