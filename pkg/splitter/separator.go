package splitter

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
)

// errRegexBudget 一次分割的正则执行时间已用尽
var errRegexBudget = errors.New("regex execution budget exhausted")

// span 分隔符匹配区间，字节偏移，左闭右开
type span struct {
	start, end int
}

// splitBySeparator 按分隔符切分。分隔符附着在其后的分片开头
func (e *Engine) splitBySeparator(text string, p SeparatorPolicy) *Result {
	res := &Result{Mode: ModeSeparator}

	if p.Pattern == "" {
		res.Chunks = newChunks([]string{text})
		return res
	}

	var spans []span
	if p.IsRegex {
		re, err := regexp2.Compile(p.Pattern, regexp2.ECMAScript)
		if err != nil {
			e.logger.Warn("正则编译失败，回退到字符串分割",
				zap.String("pattern", p.Pattern),
				zap.Error(err))
			res.Fallback = true
			res.Chunks = splitLiteralDropping(text, p.Pattern)
			return res
		}

		spans, err = regexSpans(re, text, e.regexTimeout)
		if err != nil {
			e.logger.Warn("正则匹配超时，回退到字符串分割",
				zap.String("pattern", p.Pattern),
				zap.Duration("timeout", e.regexTimeout),
				zap.Error(err))
			res.Fallback = true
			res.Chunks = splitLiteralDropping(text, p.Pattern)
			return res
		}
	} else {
		spans = literalSpans(text, p.Pattern)
	}

	res.Chunks = newChunks(walkSpans(text, spans))
	if len(res.Chunks) == 0 && text != "" {
		res.Chunks = newChunks([]string{text})
	}
	return res
}

// regexSpans 收集全部正则匹配位置。所有匹配共享 budget 指定的总时长，
// 每次查找前把剩余时长设为 MatchTimeout。匹配下标按 rune 计，返回时换算为字节偏移
func regexSpans(re *regexp2.Regexp, text string, budget time.Duration) ([]span, error) {
	runes := []rune(text)
	offsets := runeOffsets(text)
	deadline := time.Now().Add(budget)

	next := func(prev *regexp2.Match) (*regexp2.Match, error) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, errRegexBudget
		}
		re.MatchTimeout = remaining
		if prev == nil {
			return re.FindRunesMatch(runes)
		}
		return re.FindNextMatch(prev)
	}

	var spans []span
	m, err := next(nil)
	for ; m != nil && err == nil; m, err = next(m) {
		spans = append(spans, span{start: offsets[m.Index], end: offsets[m.Index+m.Length]})
	}
	if err != nil {
		return nil, err
	}
	return spans, nil
}

// literalSpans 收集字面子串的全部非重叠出现位置
func literalSpans(text, sep string) []span {
	var spans []span
	pos := 0
	for {
		i := strings.Index(text[pos:], sep)
		if i < 0 {
			return spans
		}
		start := pos + i
		spans = append(spans, span{start: start, end: start + len(sep)})
		pos = start + len(sep)
	}
}

// walkSpans 依次遍历分隔符与非分隔符区间：遇到分隔符时输出当前缓冲区（非空时），
// 并以分隔符本身开始新的缓冲区。片段直接从原文按字节截取，首尾相接可还原原文。
func walkSpans(text string, spans []span) []string {
	parts := make([]string, 0, len(spans)+1)
	bufStart := 0
	for _, s := range spans {
		if s.start > bufStart {
			parts = append(parts, text[bufStart:s.start])
		}
		bufStart = s.start
	}
	if bufStart < len(text) {
		parts = append(parts, text[bufStart:])
	}
	return parts
}

// splitLiteralDropping 正则不可用时的回退路径：按字面子串切分，丢弃分隔符，
// 每个片段（包括空片段）各自成为一个分片。
func splitLiteralDropping(text, sep string) []Chunk {
	parts := strings.Split(text, sep)
	sepLen := utf8.RuneCountInString(sep)

	chunks := make([]Chunk, 0, len(parts))
	pos := 0
	for i, part := range parts {
		n := utf8.RuneCountInString(part)
		chunks = append(chunks, Chunk{
			Index:   i,
			Content: part,
			Start:   pos,
			End:     pos + n,
			Length:  n,
		})
		pos += n + sepLen
	}
	return chunks
}
