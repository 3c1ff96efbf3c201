package splitter

import "fmt"

// Mode 分割模式
type Mode string

const (
	// ModeLength 按字数分割
	ModeLength Mode = "length"
	// ModeSeparator 按分隔符分割
	ModeSeparator Mode = "separator"
)

// ParseMode 解析模式名称
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLength, ModeSeparator:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown split mode %q", ErrInvalidPolicy, s)
	}
}

// Policy 分割策略，只有 LengthPolicy 和 SeparatorPolicy 两种实现
type Policy interface {
	Mode() Mode
	validate() error
}

// LengthPolicy 按长度分割，并在句子边界处智能断开
type LengthPolicy struct {
	MaxChunkSize int // 单片最大字符数（按 rune 计）
}

// Mode 返回分割模式
func (LengthPolicy) Mode() Mode { return ModeLength }

func (p LengthPolicy) validate() error {
	if p.MaxChunkSize < 1 {
		return &PolicyError{Field: "MaxChunkSize", Value: p.MaxChunkSize, Reason: "must be at least 1"}
	}
	return nil
}

// SeparatorPolicy 按分隔符分割。Pattern 为空表示不分割
type SeparatorPolicy struct {
	Pattern string
	IsRegex bool // false 时按字面子串匹配
}

// Mode 返回分割模式
func (SeparatorPolicy) Mode() Mode { return ModeSeparator }

func (SeparatorPolicy) validate() error { return nil }

// Validate 校验策略，nil 策略同样视为无效
func Validate(p Policy) error {
	if p == nil {
		return &PolicyError{Field: "Policy", Value: nil, Reason: "policy is required"}
	}
	return p.validate()
}
