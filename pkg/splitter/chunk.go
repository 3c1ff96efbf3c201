package splitter

import (
	"strings"
	"unicode/utf8"
)

// Chunk 文档中的一个连续片段。偏移和长度均以 rune 计
type Chunk struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Length  int    `json:"length"`
}

// Result 一次分割的完整结果，每次运行都整体替换
type Result struct {
	Mode   Mode    `json:"mode"`
	Chunks []Chunk `json:"chunks"`
	// Fallback 为 true 表示正则无法使用，已回退到字面子串分割（分隔符被丢弃）
	Fallback bool `json:"fallback"`
}

// Len 分片数量
func (r *Result) Len() int {
	return len(r.Chunks)
}

// Texts 返回分片文本
func (r *Result) Texts() []string {
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Content
	}
	return texts
}

// Join 按顺序拼接分片内容
func Join(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Content)
	}
	return sb.String()
}

// newChunks 由连续的文本片段构造分片，Start/End 按累计 rune 数计算
func newChunks(parts []string) []Chunk {
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
		pos += n
	}
	return chunks
}

// runeOffsets 返回每个 rune 的起始字节偏移，末尾追加 len(text)。
// 无效字节按宽度为 1 的单个 rune 计，与 []rune(text) 的下标一一对应
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		offsets = append(offsets, i)
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
	}
	return append(offsets, len(text))
}
