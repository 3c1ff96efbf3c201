package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nerdneilsfield/go-text-splitter/pkg/splitter"
	"go.uber.org/zap"
)

// ArtifactName 下载文件名：<base>_Part_<n>.txt，n 从 1 开始
func ArtifactName(base string, index int) string {
	return fmt.Sprintf("%s_Part_%d.txt", base, index+1)
}

// Writer 将分片写入目录
type Writer struct {
	dir      string
	template string
	logger   *zap.Logger
}

// NewWriter 创建分片写入器
func NewWriter(dir, template string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, template: template, logger: logger}
}

// WriteAll 写入全部分片，返回写入的文件路径。任意一个失败即停止
func (w *Writer) WriteAll(base string, chunks []splitter.Chunk) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(chunks))
	for i := range chunks {
		path := filepath.Join(w.dir, ArtifactName(base, i))
		content := splitter.Artifact(w.template, chunks, i)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write chunk %d: %w", i+1, err)
		}
		w.logger.Debug("分片已写入",
			zap.String("file", path),
			zap.Int("length", chunks[i].Length))
		paths = append(paths, path)
	}
	return paths, nil
}

// Preview 分片开头 n 个字符，n<=0 时返回全文
func Preview(content string, n int) string {
	if n <= 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n])
}

// flatten 将换行和制表符替换为可见符号，便于单行显示
func flatten(s string) string {
	return strings.NewReplacer("\r\n", "⏎", "\n", "⏎", "\r", "⏎", "\t", " ").Replace(s)
}
