package mcache

import "errors"

// Error 缓存错误类型（错误码 + 错误信息 + 原始错误）
type Error struct {
	Code    int    `json:"code"`    // 错误码
	Message string `json:"message"` // 错误信息
	Err     error  `json:"-"`       // 原始错误
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 检查错误是否为指定类型
// 当 target 也是 *Error 时，比较 Code 是否相同
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Err, target)
}

// WithError 添加原始错误（返回新实例，不修改预定义错误）
func (e *Error) WithError(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// WithMessage 添加错误信息（返回新实例，不修改预定义错误）
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// NewError 创建新的错误
// code 错误码
// message 错误信息
// err 可选原始错误
func NewError(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 预定义错误
var (
	ErrNotFound      = NewError(3001, "cache key not found", nil)
	ErrInvalidKey    = NewError(3002, "cache key must be a non-empty string", nil)
	ErrInvalidConfig = NewError(3003, "cache invalid config", nil)
	ErrDriverMissing = NewError(3004, "cache driver not available", nil)
	ErrConnection    = NewError(3005, "cache connection failed", nil)
	ErrSerialization = NewError(3006, "cache serialization failed", nil)
	ErrOperation     = NewError(3007, "cache operation failed", nil)

	// 计数器错误（两种失败语义不同，信息必须保持区分）
	ErrIncrement = NewError(3008, "increment failed: key missing or value non-numeric", nil)
	ErrDecrement = NewError(3009, "decrement failed: key missing", nil)
)
