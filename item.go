package mcache

// Item 缓存项值对象
// 包装 (逻辑键, 是否命中, 原始值)；返回后归调用方所有，引擎不保留引用
type Item struct {
	Key   string // 逻辑键（未加前缀）
	Found bool   // 是否在存储中命中

	raw        []byte
	serializer Serializer
}

// Bytes 返回原始字节值（未命中时为回退值的序列化结果，可能为 nil）
func (it *Item) Bytes() []byte {
	return it.raw
}

// Scan 将值反序列化到 dst
// 未命中且无回退值时返回 ErrNotFound
func (it *Item) Scan(dst any) error {
	if it.raw == nil {
		if !it.Found {
			return ErrNotFound
		}
		return nil
	}
	if err := it.serializer.Unmarshal(it.raw, dst); err != nil {
		return ErrSerialization.WithError(err)
	}
	return nil
}

// Counter 计数器值对象，仅在自增/自减成功后产生
type Counter struct {
	Key   string // 逻辑键（未加前缀）
	Value int64  // 操作后的当前值
}
