package splitter

import (
	"strconv"
	"strings"
)

// 模板占位符
const (
	PlaceholderCurrent = "{current}"
	PlaceholderTotal   = "{total}"
)

// DefaultHeaderTemplate 默认分片头部
const DefaultHeaderTemplate = ">>> 当前分片 {current} / {total} <<<\n\n"

// ApplyHeader 替换模板中第一个 {current} 和第一个 {total}。
// 重复出现的占位符保持原样。
func ApplyHeader(template string, current, total int) string {
	s := strings.Replace(template, PlaceholderCurrent, strconv.Itoa(current), 1)
	return strings.Replace(s, PlaceholderTotal, strconv.Itoa(total), 1)
}

// Artifact 生成第 i 个分片（从 0 开始）的复制/下载内容：头部 + 分片文本
func Artifact(template string, chunks []Chunk, i int) string {
	return ApplyHeader(template, i+1, len(chunks)) + chunks[i].Content
}
