package mcache

import "fmt"

// validateKey 校验逻辑键
// 任何公开操作（含批量操作的每个元素）在网络调用前都必须通过校验
func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}

// validateKeys 批量校验，单个非法键使整个请求在任何 I/O 前失败
func validateKeys(keys []string) error {
	for i, key := range keys {
		if err := validateKey(key); err != nil {
			return ErrInvalidKey.WithMessage(fmt.Sprintf("cache key at index %d must be a non-empty string", i))
		}
	}
	return nil
}

// buildKey 构建完整的存储键名（前缀 + 逻辑键）
// 纯字符串拼接，不做转义；字符集/长度限制由调用方保证
func buildKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + key
}
