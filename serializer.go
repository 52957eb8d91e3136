package mcache

import "encoding/json"

// JSONSerializer JSON 序列化器（默认）
// 整数序列化为 ASCII 十进制，与 memcached 计数器的存储格式一致
type JSONSerializer struct{}

// Marshal 序列化
func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal 反序列化
func (s *JSONSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
