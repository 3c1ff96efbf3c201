package output

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/nerdneilsfield/go-text-splitter/pkg/splitter"
)

// ErrClipboardUnavailable 当前系统没有可用的剪贴板
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard 剪贴板
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// SystemClipboard 系统剪贴板
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

// CopyChunk 将第 index 个分片（从 0 开始）连同头部复制到剪贴板，返回复制的内容
func CopyChunk(cb Clipboard, template string, chunks []splitter.Chunk, index int) (string, error) {
	if index < 0 || index >= len(chunks) {
		return "", fmt.Errorf("chunk %d out of range [1, %d]", index+1, len(chunks))
	}
	content := splitter.Artifact(template, chunks, index)
	if err := cb.WriteAll(content); err != nil {
		return content, fmt.Errorf("copy chunk %d: %w", index+1, err)
	}
	return content, nil
}
