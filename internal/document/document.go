package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// 预定义错误
var (
	// ErrBinaryFile 二进制文件不支持
	ErrBinaryFile = errors.New("binary file not supported")

	// ErrEmptyPath 未指定文件路径
	ErrEmptyPath = errors.New("empty file path")
)

// BinaryExtensions 直接拒绝的二进制扩展名
var BinaryExtensions = []string{"png", "jpg", "jpeg", "gif", "pdf", "doc", "docx", "zip", "rar", "exe"}

// StdinName 从标准输入读取时使用的名称
const StdinName = "stdin"

// Document 已解码的待分割文本
type Document struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	BaseName string `json:"base_name"`
	Size     int64  `json:"size"`
	Encoding string `json:"encoding"`
	Kind     Kind   `json:"kind"`
	Content  string `json:"-"`
}

// CharCount 字符数（rune）
func (d *Document) CharCount() int {
	return utf8.RuneCountInString(d.Content)
}

// Summary 文档摘要：名称 | 大小 | 字符数
func (d *Document) Summary() string {
	return fmt.Sprintf("%s | %s | %s 字符", d.Name, FormatSize(d.Size), humanize.Comma(int64(d.CharCount())))
}

// ReadFile 读取并解码文件。"-" 表示标准输入
func ReadFile(path, encodingName string) (*Document, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if path == "-" {
		return Read(os.Stdin, StdinName, encodingName)
	}

	if err := CheckExtension(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO错误: 文件流读取失败: %w", err)
	}
	defer f.Close()

	doc, err := Read(f, filepath.Base(path), encodingName)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Read 从 reader 读取全部内容并解码
func Read(r io.Reader, name, encodingName string) (*Document, error) {
	if err := CheckExtension(name); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("IO错误: 文件流读取失败: %w", err)
	}

	if err := CheckContent(name, data); err != nil {
		return nil, err
	}

	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	text, used, err := Decode(data, encodingName)
	if err != nil {
		return nil, err
	}

	return &Document{
		Name:     name,
		BaseName: BaseName(name),
		Size:     int64(len(data)),
		Encoding: used,
		Kind:     KindOf(name),
		Content:  text,
	}, nil
}

// CheckExtension 按扩展名拒绝二进制文件
func CheckExtension(name string) error {
	ext := extension(name)
	for _, b := range BinaryExtensions {
		if ext == b {
			return fmt.Errorf("%w: 不支持 .%s 二进制格式，请仅使用文本类文件", ErrBinaryFile, ext)
		}
	}
	return nil
}

// CheckContent 按内容嗅探拒绝图片、音视频、PDF、压缩包等二进制文件。
// 无法识别的类型（如无 BOM 的 UTF-16 或其他旧编码）放行。
func CheckContent(name string, data []byte) error {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	if mtype.Is("application/octet-stream") {
		return nil
	}
	return fmt.Errorf("%w: %s 的内容类型为 %s", ErrBinaryFile, name, mtype.String())
}

// BaseName 去掉最后一个扩展名；结果为空时保留原名
func BaseName(name string) string {
	name = filepath.Base(name)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		return name
	}
	return base
}

func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// FormatSize 人类可读的文件大小
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(bytes))
}
