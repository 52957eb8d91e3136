package mcache

import "time"

// DefaultTTLThreshold TTL 相对/绝对语义的默认分界值（秒）
// 超过该值的 TTL 被视为"从现在起的秒数"，转换为绝对 unix 时间戳后下发
// 注意：该常量沿用历史值 30*60*3600（约 125 天），并非 memcached 标准的
// 30 天（30*24*3600）。可通过 WithTTLThreshold 覆盖
const DefaultTTLThreshold int64 = 30 * 60 * 3600

// ttlNormalizer TTL 归一化器
// 把调用方传入的 TTL 转换为存储端期望的单位（相对秒数或绝对时间戳）
type ttlNormalizer struct {
	threshold int64
	now       func() time.Time
}

func newTTLNormalizer(threshold int64, now func() time.Time) *ttlNormalizer {
	if threshold <= 0 {
		threshold = DefaultTTLThreshold
	}
	if now == nil {
		now = time.Now
	}
	return &ttlNormalizer{threshold: threshold, now: now}
}

// normalize 归一化 TTL
// ttl == 0 原样返回（使用存储端默认过期策略）
// ttl > threshold 返回 now + ttl（绝对时间戳）
// 其余原样返回（相对秒数）
// 必须在写调用前的最后时刻执行，保证 now 反映真实写入时间
func (n *ttlNormalizer) normalize(ttl int64) int64 {
	if ttl == 0 {
		return ttl
	}
	if ttl > n.threshold {
		return n.now().Unix() + ttl
	}
	return ttl
}
