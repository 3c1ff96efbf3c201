package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingAuto 自动检测编码
const EncodingAuto = "auto"

// DefaultEncoding 默认编码
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding 不支持的编码名称
var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding 可选的字符编码
type Encoding struct {
	Name    string
	Label   string
	Aliases []string
	enc     encoding.Encoding
}

// Decode 将字节解码为字符串
func (e Encoding) Decode(data []byte) (string, error) {
	res, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), e.enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", e.Name, err)
	}
	return string(res), nil
}

var encodings = []Encoding{
	{Name: "utf-8", Label: "UTF-8 (通用)", Aliases: []string{"utf8"}, enc: xunicode.UTF8BOM},
	{Name: "gbk", Label: "GBK (简体中文)", Aliases: []string{"cp936", "gb2312"}, enc: simplifiedchinese.GBK},
	{Name: "gb18030", Label: "GB18030 (简体中文)", Aliases: []string{"gb-18030"}, enc: simplifiedchinese.GB18030},
	{Name: "big5", Label: "Big5 (繁体中文)", Aliases: []string{"big-5"}, enc: traditionalchinese.Big5},
	{Name: "shift_jis", Label: "Shift_JIS (日文)", Aliases: []string{"shift-jis", "sjis"}, enc: japanese.ShiftJIS},
	{Name: "euc-jp", Label: "EUC-JP (日文)", Aliases: []string{"eucjp"}, enc: japanese.EUCJP},
	{Name: "euc-kr", Label: "EUC-KR (韩文)", Aliases: []string{"euckr"}, enc: korean.EUCKR},
	{Name: "windows-1252", Label: "Windows-1252 (西欧)", Aliases: []string{"cp1252"}, enc: charmap.Windows1252},
	{Name: "iso-8859-1", Label: "ISO-8859-1 (西欧)", Aliases: []string{"latin1", "latin-1"}, enc: charmap.ISO8859_1},
	{Name: "utf-16le", Label: "UTF-16 LE", Aliases: []string{"utf16le"}, enc: xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM)},
	{Name: "utf-16be", Label: "UTF-16 BE", Aliases: []string{"utf16be"}, enc: xunicode.UTF16(xunicode.BigEndian, xunicode.UseBOM)},
}

// Encodings 返回全部支持的编码
func Encodings() []Encoding {
	out := make([]Encoding, len(encodings))
	copy(out, encodings)
	return out
}

// LookupEncoding 按名称或别名查找编码，大小写不敏感
func LookupEncoding(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range encodings {
		if e.Name == key {
			return e, nil
		}
		for _, alias := range e.Aliases {
			if alias == key {
				return e, nil
			}
		}
	}

	if suggestions := SuggestEncodings(name); len(suggestions) > 0 {
		return Encoding{}, fmt.Errorf("%w: %q (did you mean: %s?)", ErrUnknownEncoding, name, strings.Join(suggestions, ", "))
	}
	return Encoding{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// SuggestEncodings 为输错的编码名称给出候选
func SuggestEncodings(name string) []string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil
	}

	names := make([]string, len(encodings))
	for i, e := range encodings {
		names[i] = e.Name
	}
	return suggest(key, names)
}

// suggest 子序列匹配或编辑距离不超过 2 的候选，按距离排序
func suggest(key string, candidates []string) []string {
	type scored struct {
		name     string
		distance int
	}

	var matches []scored
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(key, c)
		if fuzzy.MatchNormalizedFold(key, c) || d <= 2 {
			matches = append(matches, scored{name: c, distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	out := make([]string, 0, 3)
	for _, m := range matches {
		if len(out) == 3 {
			break
		}
		out = append(out, m.name)
	}
	return out
}

// Suggest 在任意候选中查找相近名称
func Suggest(key string, candidates []string) []string {
	return suggest(strings.ToLower(strings.TrimSpace(key)), candidates)
}

// Decode 按编码名称解码，名称为 auto 时自动检测。返回实际使用的编码名称
func Decode(data []byte, name string) (string, string, error) {
	if strings.EqualFold(strings.TrimSpace(name), EncodingAuto) {
		text, used := detectAndDecode(data)
		return text, used, nil
	}

	enc, err := LookupEncoding(name)
	if err != nil {
		return "", "", err
	}
	text, err := enc.Decode(data)
	if err != nil {
		return "", "", err
	}
	return text, enc.Name, nil
}

// detectAndDecode 检测并转换文本编码：BOM、UTF-8 校验、chardet、常见编码逐一尝试
func detectAndDecode(data []byte) (string, string) {
	if len(data) == 0 {
		return "", DefaultEncoding
	}

	// 检查 BOM
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return string(data[3:]), "utf-8"
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		if text, err := mustLookup("utf-16le").Decode(data); err == nil {
			return text, "utf-16le"
		}
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		if text, err := mustLookup("utf-16be").Decode(data); err == nil {
			return text, "utf-16be"
		}
	}

	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	// chardet 检测
	if result, err := chardet.NewTextDetector().DetectBest(data); err == nil && result.Confidence >= 50 {
		if enc, err := LookupEncoding(result.Charset); err == nil {
			if text, err := enc.Decode(data); err == nil && isReasonableText(text) {
				return text, enc.Name
			}
		}
	}

	// 尝试常见编码
	for _, name := range []string{"gbk", "gb18030", "big5", "shift_jis", "euc-jp", "euc-kr", "windows-1252"} {
		enc := mustLookup(name)
		text, err := enc.Decode(data)
		if err == nil && utf8.ValidString(text) && isReasonableText(text) {
			return text, enc.Name
		}
	}

	// 都失败时按 UTF-8 处理，非法字节替换为 U+FFFD
	text, _ := mustLookup(DefaultEncoding).Decode(data)
	return text, DefaultEncoding
}

func mustLookup(name string) Encoding {
	enc, err := LookupEncoding(name)
	if err != nil {
		panic(err)
	}
	return enc
}

// isReasonableText 超过 90% 为可打印字符时认为解码合理
func isReasonableText(text string) bool {
	if len(text) == 0 {
		return false
	}

	printable, total := 0, 0
	for _, r := range text {
		total++
		if r != utf8.RuneError && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
			printable++
		}
	}
	return float64(printable)/float64(total) > 0.9
}
