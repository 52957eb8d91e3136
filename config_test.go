package mcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{
			name:    "default config is valid",
			cfg:     DefaultConfig(),
			wantErr: nil,
		},
		{
			name: "missing serializer",
			cfg: &Config{
				Driver: DriverMemory,
				Memory: DefaultMemoryConfig(),
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "memcached without servers",
			cfg: &Config{
				Driver:     DriverMemcached,
				Serializer: &JSONSerializer{},
				Memcached:  &MemcachedConfig{},
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "memcached empty host fails fast",
			cfg: &Config{
				Driver:     DriverMemcached,
				Serializer: &JSONSerializer{},
				Memcached: &MemcachedConfig{
					Servers: []MemcachedServer{{Host: "", Port: 11211}},
				},
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "redis standalone without addr",
			cfg: &Config{
				Driver:     DriverRedis,
				Serializer: &JSONSerializer{},
				Redis:      &RedisConfig{Mode: RedisStandalone},
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "redis cluster needs 3 nodes",
			cfg: &Config{
				Driver:     DriverRedis,
				Serializer: &JSONSerializer{},
				Redis:      &RedisConfig{Mode: RedisCluster, Addrs: []string{"a:1", "b:2"}},
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "redis sentinel needs master name",
			cfg: &Config{
				Driver:     DriverRedis,
				Serializer: &JSONSerializer{},
				Redis:      &RedisConfig{Mode: RedisSentinel, Addrs: []string{"a:1"}},
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "unknown driver is a runtime error",
			cfg: &Config{
				Driver:     DriverType("apcu"),
				Serializer: &JSONSerializer{},
			},
			wantErr: ErrDriverMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithMemcached(DefaultMemcachedConfig()),
		WithKeyPrefix("app:"),
		WithDefaultTTL(300),
		WithTTLThreshold(30 * 24 * 3600),
	} {
		opt(cfg)
	}

	assert.Equal(t, DriverMemcached, cfg.Driver)
	assert.Equal(t, "app:", cfg.KeyPrefix)
	assert.Equal(t, int64(300), cfg.DefaultTTL)
	assert.Equal(t, int64(30*24*3600), cfg.TTLThreshold)
	require.NotNil(t, cfg.Memcached)
	assert.Equal(t, "localhost", cfg.Memcached.Servers[0].Host)
}

// TestNewFailsBeforeConnection 配置错误在任何连接尝试前返回
func TestNewFailsBeforeConnection(t *testing.T) {
	_, err := New(&Config{
		Driver:     DriverMemcached,
		Serializer: &JSONSerializer{},
		Memcached: &MemcachedConfig{
			Servers: []MemcachedServer{{Host: ""}},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(&Config{Driver: DriverType("unknown"), Serializer: &JSONSerializer{}})
	assert.ErrorIs(t, err, ErrDriverMissing)
}
