package splitter

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSplitBySeparator(t *testing.T) {
	engine := New(WithLogger(zaptest.NewLogger(t)))

	tests := []struct {
		name     string
		text     string
		policy   SeparatorPolicy
		expected []string
		fallback bool
	}{
		{
			name:     "Regex Retains Separator",
			text:     "AxBxC",
			policy:   SeparatorPolicy{Pattern: "x", IsRegex: true},
			expected: []string{"A", "xB", "xC"},
		},
		{
			name:     "Literal Retains Separator",
			text:     "AxBxC",
			policy:   SeparatorPolicy{Pattern: "x"},
			expected: []string{"A", "xB", "xC"},
		},
		{
			name:     "Leading Separator",
			text:     "xAxB",
			policy:   SeparatorPolicy{Pattern: "x", IsRegex: true},
			expected: []string{"xA", "xB"},
		},
		{
			name:     "Adjacent Separators",
			text:     "AxxB",
			policy:   SeparatorPolicy{Pattern: "x", IsRegex: true},
			expected: []string{"A", "x", "xB"},
		},
		{
			name:     "Trailing Separator",
			text:     "AxBx",
			policy:   SeparatorPolicy{Pattern: "x", IsRegex: true},
			expected: []string{"A", "xB", "x"},
		},
		{
			name:     "Chapter Headings",
			text:     "序言\n第一章 开始\n正文\n第二章 继续\n正文",
			policy:   SeparatorPolicy{Pattern: "第.+章", IsRegex: true},
			expected: []string{"序言\n", "第一章 开始\n正文\n", "第二章 继续\n正文"},
		},
		{
			name:     "No Match",
			text:     "plain text",
			policy:   SeparatorPolicy{Pattern: "zzz", IsRegex: true},
			expected: []string{"plain text"},
		},
		{
			name:     "Literal Special Characters",
			text:     "a.b.c",
			policy:   SeparatorPolicy{Pattern: "."},
			expected: []string{"a", ".b", ".c"},
		},
		{
			name:     "Regex Dot Matches Everything",
			text:     "ab",
			policy:   SeparatorPolicy{Pattern: ".", IsRegex: true},
			expected: []string{"a", "b"},
		},
		{
			name:     "Lookahead Split",
			text:     "## A\ntext\n## B\nmore",
			policy:   SeparatorPolicy{Pattern: "(?=## )", IsRegex: true},
			expected: []string{"## A\ntext\n", "## B\nmore"},
		},
		{
			name:     "Invalid Regex Falls Back And Drops Separators",
			text:     "a(b(c",
			policy:   SeparatorPolicy{Pattern: "(", IsRegex: true},
			expected: []string{"a", "b", "c"},
			fallback: true,
		},
		{
			name:     "Fallback Keeps Empty Fragments",
			text:     "[a[",
			policy:   SeparatorPolicy{Pattern: "[", IsRegex: true},
			expected: []string{"", "a", ""},
			fallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Split(tt.text, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, ModeSeparator, res.Mode)
			assert.Equal(t, tt.expected, res.Texts())
			assert.Equal(t, tt.fallback, res.Fallback)
			if !tt.fallback {
				assert.Equal(t, tt.text, Join(res.Chunks))
			}
		})
	}
}

func TestSplitBySeparator_EmptyPattern(t *testing.T) {
	engine := New()

	res, err := engine.Split("whole document", SeparatorPolicy{Pattern: ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"whole document"}, res.Texts())

	// 空模式 + 空文本得到一个空分片
	res, err = engine.Split("", SeparatorPolicy{Pattern: "", IsRegex: true})
	require.NoError(t, err)
	require.Len(t, res.Chunks, 1)
	assert.Equal(t, "", res.Chunks[0].Content)
}

func TestSplitBySeparator_EmptyText(t *testing.T) {
	res, err := New().Split("", SeparatorPolicy{Pattern: "x", IsRegex: true})
	require.NoError(t, err)
	assert.Empty(t, res.Chunks)
}

func TestSplitBySeparator_FallbackOffsets(t *testing.T) {
	res, err := New().Split("ab((cd", SeparatorPolicy{Pattern: "((", IsRegex: true})
	require.NoError(t, err)
	require.True(t, res.Fallback)
	require.Len(t, res.Chunks, 2)
	assert.Equal(t, 0, res.Chunks[0].Start)
	assert.Equal(t, 4, res.Chunks[1].Start)
	assert.Equal(t, 6, res.Chunks[1].End)
}

func TestSplitBySeparator_CatastrophicPattern(t *testing.T) {
	engine := New(
		WithLogger(zaptest.NewLogger(t)),
		WithRegexTimeout(50*time.Millisecond),
	)
	text := strings.Repeat("a", 40) + "b"

	done := make(chan *Result, 1)
	go func() {
		res, err := engine.Split(text, SeparatorPolicy{Pattern: "(a+)+$", IsRegex: true})
		assert.NoError(t, err)
		done <- res
	}()

	select {
	case res := <-done:
		require.NotNil(t, res)
		assert.True(t, res.Fallback)
		assert.Equal(t, []string{text}, res.Texts())
	case <-time.After(30 * time.Second):
		t.Fatal("catastrophic pattern was not bounded")
	}
}

func TestSplitBySeparator_RandomReconstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abx.\n章第 ")
	patterns := []string{"x", "a+", "第.章", `\n`, "(?=a)", "x|\\.", "b*", ".", "章"}

	engine := New()
	for iter := 0; iter < 200; iter++ {
		runes := make([]rune, rng.Intn(200))
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)
		pattern := patterns[rng.Intn(len(patterns))]

		for _, isRegex := range []bool{true, false} {
			res, err := engine.Split(text, SeparatorPolicy{Pattern: pattern, IsRegex: isRegex})
			require.NoError(t, err)
			require.False(t, res.Fallback)
			require.Equal(t, text, Join(res.Chunks), "pattern %q regex=%v", pattern, isRegex)
			if text != "" {
				require.NotEmpty(t, res.Chunks)
			}
			for _, c := range res.Chunks {
				require.NotEmpty(t, c.Content)
			}
		}
	}
}

func TestSplitBySeparator_BudgetCoversWholeSplit(t *testing.T) {
	// 每个片段都能在单次超时内匹配成功，但累计耗时远超总时长上限
	segment := strings.Repeat("a", 17) + "b d"
	text := strings.Repeat(segment, 60)
	engine := New(
		WithLogger(zaptest.NewLogger(t)),
		WithRegexTimeout(200*time.Millisecond),
	)

	start := time.Now()
	res, err := engine.Split(text, SeparatorPolicy{Pattern: "(a+)+c|d", IsRegex: true})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, []string{text}, res.Texts())
	assert.Less(t, elapsed, 3*time.Second)
}

func TestSplitBySeparator_FastPatternWithinBudget(t *testing.T) {
	text := strings.Repeat("段落内容\n---\n", 2000)
	engine := New(WithRegexTimeout(time.Second))

	res, err := engine.Split(text, SeparatorPolicy{Pattern: "---", IsRegex: true})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Len(t, res.Chunks, 2001)
	assert.Equal(t, text, Join(res.Chunks))
}

func FuzzSplitBySeparator(f *testing.F) {
	f.Add("AxBxC", "x", true)
	f.Add("ab\xffcd.ef", "c", false)
	f.Add("ab\xffcd.ef", "c", true)
	f.Add("第一章\n第二章", "第.章", true)
	f.Add("a(b", "(", true)

	engine := New(WithRegexTimeout(100 * time.Millisecond))
	f.Fuzz(func(t *testing.T, text, pattern string, isRegex bool) {
		res, err := engine.Split(text, SeparatorPolicy{Pattern: pattern, IsRegex: isRegex})
		if err != nil {
			t.Fatal(err)
		}
		if res.Fallback {
			// 回退路径丢弃分隔符，用分隔符重新连接即可还原
			if got := strings.Join(res.Texts(), pattern); got != text {
				t.Fatalf("fallback reconstruction mismatch: %q != %q", got, text)
			}
			return
		}
		if got := Join(res.Chunks); got != text {
			t.Fatalf("reconstruction mismatch: %q != %q", got, text)
		}
	})
}
