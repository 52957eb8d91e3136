package mcache

import "context"

// StoreClient 底层存储客户端契约（外部协作方）
// 所有方法返回显式的 (值, ResultCode) 对；TTL 参数为已归一化的秒数
// （<= 分界值为相对秒数，> 分界值为绝对 unix 时间戳，0 为存储端默认）
// 实现必须可安全并发使用：引擎持有单个客户端并在所有操作间共享
type StoreClient interface {
	Get(ctx context.Context, key string) ([]byte, ResultCode)
	Set(ctx context.Context, key string, value []byte, ttl int64) ResultCode
	Delete(ctx context.Context, key string) ResultCode

	GetMulti(ctx context.Context, keys []string) (map[string][]byte, ResultCode)
	SetMulti(ctx context.Context, items map[string][]byte, ttl int64) ResultCode
	DeleteMulti(ctx context.Context, keys []string) ResultCode

	// 计数器操作：键不存在返回 ResultNotFound，值非数字返回 ResultFailure
	Increment(ctx context.Context, key string, offset uint64) (int64, ResultCode)
	Decrement(ctx context.Context, key string, offset uint64) (int64, ResultCode)

	// Flush 清空整个存储
	Flush(ctx context.Context) ResultCode

	Ping(ctx context.Context) error
	Close() error
}
