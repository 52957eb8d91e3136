package mcache

import (
	"github.com/spf13/viper"
)

// LoadConfig 从配置文件加载缓存配置
// 支持 viper 能识别的格式（yaml/json/toml 等），键名见 Config 的 mapstructure 标签
// 加载结果可直接交给 New；Serializer 与 Logger 不从文件读取，由调用方注入
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, ErrInvalidConfig.WithError(err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, ErrInvalidConfig.WithError(err)
	}

	// 文件里出现了对应驱动的配置块但未显式指定驱动时，按块推断
	if !v.IsSet("driver") {
		switch {
		case v.IsSet("memcached"):
			cfg.Driver = DriverMemcached
		case v.IsSet("redis"):
			cfg.Driver = DriverRedis
		}
	}

	return cfg, nil
}
