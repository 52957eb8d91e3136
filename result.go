package mcache

// ResultCode 存储调用的显式结果码
// 每次调用随返回值一起给出，不依赖客户端共享的"上一次结果"状态，
// 避免并发使用同一客户端时的读取竞态
type ResultCode int

const (
	// ResultSuccess 操作成功
	ResultSuccess ResultCode = iota
	// ResultNotFound 键不存在
	ResultNotFound
	// ResultFailure 其他任何失败（网络、服务端错误等）
	ResultFailure
)

// String 返回结果码文本
func (rc ResultCode) String() string {
	switch rc {
	case ResultSuccess:
		return "success"
	case ResultNotFound:
		return "not_found"
	case ResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// deleteOK 删除结果解释
// 删除不存在的键视为成功（幂等删除是契约要求，不是偶然行为）
// 批量删除对聚合结果应用同一规则
func deleteOK(rc ResultCode) bool {
	return rc == ResultSuccess || rc == ResultNotFound
}
