package mcache

// New 创建缓存实例
// 连接在此一次性建立，之后由引擎在所有操作间复用
func New(cfg *Config) (Cache, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// 设置默认序列化器
	if cfg.Serializer == nil {
		cfg.Serializer = &JSONSerializer{}
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 根据驱动类型创建存储客户端
	var (
		store StoreClient
		err   error
	)
	switch cfg.Driver {
	case DriverMemcached:
		store, err = newMemcachedStore(cfg)
	case DriverRedis:
		store, err = newRedisStore(cfg)
	case DriverMemory:
		store, err = newMemoryStore(cfg)
	default:
		return nil, ErrDriverMissing
	}
	if err != nil {
		return nil, err
	}

	return newEngine(store, cfg), nil
}

// NewWithOptions 使用 Options 模式创建缓存实例
func NewWithOptions(opts ...Option) (Cache, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return New(cfg)
}

// NewWithStore 使用外部存储客户端创建缓存实例
// 客户端需可安全并发使用，否则调用方必须串行化访问
func NewWithStore(store StoreClient, opts ...Option) (Cache, error) {
	if store == nil {
		return nil, ErrDriverMissing
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Serializer == nil {
		cfg.Serializer = &JSONSerializer{}
	}
	return newEngine(store, cfg), nil
}
