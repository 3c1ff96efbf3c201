package splitter

// SearchWindow 智能断点检测向前回看的字符数
const SearchWindow = 500

// Delimiters 断点字符：换行符、中日文句末标点、英文句末标点
var Delimiters = []rune{'\n', '。', '！', '？', '.', '!', '?'}

func isDelimiter(r rune) bool {
	switch r {
	case '\n', '。', '！', '？', '.', '!', '?':
		return true
	}
	return false
}

// splitByLength 按最大长度切分，尽量在窗口内最后一个断点字符之后断开。
// 分片内容按字节偏移从原文截取，无效 UTF-8 字节原样保留
func splitByLength(text string, size int) []Chunk {
	runes := []rune(text)
	offsets := runeOffsets(text)
	total := len(runes)
	chunks := make([]Chunk, 0, total/size+1)

	for cursor := 0; cursor < total; {
		end := min(cursor+size, total)
		if end < total {
			end = snapToBoundary(runes, cursor, end)
		}

		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Content: text[offsets[cursor]:offsets[end]],
			Start:   cursor,
			End:     end,
			Length:  end - cursor,
		})
		cursor = end
	}

	return chunks
}

// snapToBoundary 在 [max(cursor, end-SearchWindow), end) 中从右向左查找第一个断点字符，
// 找到时在其后断开。返回值始终大于 cursor。
func snapToBoundary(runes []rune, cursor, end int) int {
	windowStart := max(cursor, end-SearchWindow)
	for i := end - 1; i >= windowStart; i-- {
		if isDelimiter(runes[i]) {
			return max(i+1, cursor+1)
		}
	}
	return end
}
