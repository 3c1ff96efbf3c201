package splitter

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrInvalidPolicy 无效的分割策略（例如非正数的分片大小）
	ErrInvalidPolicy = errors.New("invalid split policy")

	// ErrUnexpected 分片构建过程中的意外内部错误
	ErrUnexpected = errors.New("unexpected runtime failure")
)

// PolicyError 策略校验错误
type PolicyError struct {
	Field  string // 出错的字段
	Value  any    // 实际值
	Reason string // 原因
}

// Error 实现error接口
func (e *PolicyError) Error() string {
	return fmt.Sprintf("invalid split policy: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap 使 errors.Is(err, ErrInvalidPolicy) 成立
func (e *PolicyError) Unwrap() error {
	return ErrInvalidPolicy
}

// IsInvalidPolicy 检查是否为策略错误
func IsInvalidPolicy(err error) bool {
	return errors.Is(err, ErrInvalidPolicy)
}
