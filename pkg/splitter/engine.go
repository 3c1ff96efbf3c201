// Package splitter 将文本按策略切分为有序分片。
//
// 引擎本身不做 I/O，不保留任何运行间状态，可在多个 goroutine 中并发调用。
package splitter

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultRegexTimeout 一次分割中正则执行的默认总时长上限
const DefaultRegexTimeout = 2 * time.Second

// Engine 分片引擎
type Engine struct {
	logger       *zap.Logger
	regexTimeout time.Duration
}

// Option 引擎选项
type Option func(*Engine)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRegexTimeout 设置一次分割中正则执行的总时长上限，<=0 时使用默认值
func WithRegexTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.regexTimeout = d
		}
	}
}

// New 创建分片引擎
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:       zap.NewNop(),
		regexTimeout: DefaultRegexTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Split 按策略切分文本。
// 只有无效策略会返回 ErrInvalidPolicy；正则编译失败或匹配超时会回退到字面分割，
// 并在结果中标记 Fallback。内部 panic 被转换为 ErrUnexpected，且不返回部分结果。
func (e *Engine) Split(text string, p Policy) (res *Result, err error) {
	p = deref(p)
	if err := Validate(p); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("分片过程出现意外错误",
				zap.String("mode", string(p.Mode())),
				zap.Any("panic", r))
			res = nil
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	switch pol := p.(type) {
	case LengthPolicy:
		res = &Result{
			Mode:   ModeLength,
			Chunks: splitByLength(text, pol.MaxChunkSize),
		}
	case SeparatorPolicy:
		res = e.splitBySeparator(text, pol)
	default:
		return nil, &PolicyError{Field: "Policy", Value: fmt.Sprintf("%T", p), Reason: "unsupported policy type"}
	}

	e.logger.Debug("分片完成",
		zap.String("mode", string(res.Mode)),
		zap.Int("chunks", len(res.Chunks)),
		zap.Bool("fallback", res.Fallback))
	return res, nil
}

// deref 将指针形式的策略转换为值形式
func deref(p Policy) Policy {
	switch v := p.(type) {
	case *LengthPolicy:
		if v == nil {
			return nil
		}
		return *v
	case *SeparatorPolicy:
		if v == nil {
			return nil
		}
		return *v
	}
	return p
}

var defaultEngine = New()

// Split 使用默认引擎切分文本，仅返回分片文本
func Split(text string, p Policy) ([]string, error) {
	res, err := defaultEngine.Split(text, p)
	if err != nil {
		return nil, err
	}
	return res.Texts(), nil
}
