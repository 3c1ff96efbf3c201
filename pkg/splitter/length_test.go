package splitter

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitByLength(t *testing.T) {
	engine := New()

	t.Run("Empty Text", func(t *testing.T) {
		res, err := engine.Split("", LengthPolicy{MaxChunkSize: 10})
		require.NoError(t, err)
		assert.Empty(t, res.Chunks)
		assert.Equal(t, ModeLength, res.Mode)
	})

	t.Run("Shorter Than Size", func(t *testing.T) {
		res, err := engine.Split("hello", LengthPolicy{MaxChunkSize: 10})
		require.NoError(t, err)
		require.Len(t, res.Chunks, 1)
		assert.Equal(t, "hello", res.Chunks[0].Content)
		assert.Equal(t, 5, res.Chunks[0].Length)
	})

	t.Run("Snaps After Period", func(t *testing.T) {
		text := "Sentence one. Sentence two. Sentence three."
		res, err := engine.Split(text, LengthPolicy{MaxChunkSize: 15})
		require.NoError(t, err)

		assert.Equal(t, []string{
			"Sentence one.",
			" Sentence two.",
			" Sentence three",
			".",
		}, res.Texts())
		assert.Equal(t, text, Join(res.Chunks))
	})

	t.Run("Hard Cut Without Delimiter", func(t *testing.T) {
		res, err := engine.Split("abcdefghij", LengthPolicy{MaxChunkSize: 4})
		require.NoError(t, err)
		assert.Equal(t, []string{"abcd", "efgh", "ij"}, res.Texts())
	})

	t.Run("Rightmost Delimiter Wins Regardless Of Type", func(t *testing.T) {
		// 换行符出现得更早，句号更靠后，应在句号之后断开
		res, err := engine.Split("ab\ncd.efgh", LengthPolicy{MaxChunkSize: 8})
		require.NoError(t, err)
		assert.Equal(t, []string{"ab\ncd.", "efgh"}, res.Texts())
	})

	t.Run("CJK Punctuation", func(t *testing.T) {
		text := "第一句话。第二句话！第三句话？结尾"
		res, err := engine.Split(text, LengthPolicy{MaxChunkSize: 7})
		require.NoError(t, err)
		assert.Equal(t, []string{"第一句话。", "第二句话！", "第三句话？结尾"}, res.Texts())
		assert.Equal(t, 5, res.Chunks[0].Length)
	})

	t.Run("Window Limited To Trailing 500 Characters", func(t *testing.T) {
		// 句号位于窗口之外，只能硬切
		text := "a." + strings.Repeat("b", 700) + strings.Repeat("c", 100)
		res, err := engine.Split(text, LengthPolicy{MaxChunkSize: 600})
		require.NoError(t, err)
		require.Len(t, res.Chunks, 2)
		assert.Equal(t, 600, res.Chunks[0].Length)
	})

	t.Run("Delimiter Inside Window Near Start", func(t *testing.T) {
		text := strings.Repeat("x", 150) + "." + strings.Repeat("y", 600)
		res, err := engine.Split(text, LengthPolicy{MaxChunkSize: 600})
		require.NoError(t, err)
		assert.Equal(t, 151, res.Chunks[0].Length)
		assert.Equal(t, text, Join(res.Chunks))
	})

	t.Run("Last Chunk Not Snapped", func(t *testing.T) {
		res, err := engine.Split("a.bc", LengthPolicy{MaxChunkSize: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.bc"}, res.Texts())
	})

	t.Run("Size One", func(t *testing.T) {
		res, err := engine.Split("a.b", LengthPolicy{MaxChunkSize: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", ".", "b"}, res.Texts())
	})

	t.Run("Offsets Are Contiguous", func(t *testing.T) {
		res, err := engine.Split("一二三。四五六。七八九", LengthPolicy{MaxChunkSize: 5})
		require.NoError(t, err)
		prev := 0
		for i, c := range res.Chunks {
			assert.Equal(t, i, c.Index)
			assert.Equal(t, prev, c.Start)
			assert.Equal(t, c.End-c.Start, c.Length)
			prev = c.End
		}
		assert.Equal(t, 11, prev)
	})
}

func TestSplitByLength_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		res, err := New().Split("text", LengthPolicy{MaxChunkSize: size})
		assert.Nil(t, res)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPolicy)

		var pe *PolicyError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "MaxChunkSize", pe.Field)
	}
}

func TestSplitByLength_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("ab .!?\n。！？中文é")

	for iter := 0; iter < 300; iter++ {
		n := rng.Intn(3000)
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)
		size := rng.Intn(700) + 1

		res, err := New().Split(text, LengthPolicy{MaxChunkSize: size})
		require.NoError(t, err)

		// 还原性
		require.Equal(t, text, Join(res.Chunks))

		for _, c := range res.Chunks {
			// 不超过上限，且始终前进
			assert.LessOrEqual(t, c.Length, size)
			assert.Greater(t, c.Length, 0)
			assert.Equal(t, c.Length, utf8.RuneCountInString(c.Content))
		}
	}
}

func TestSnapToBoundary(t *testing.T) {
	runes := []rune("abc.def")
	assert.Equal(t, 4, snapToBoundary(runes, 0, 6))
	assert.Equal(t, 6, snapToBoundary(runes, 4, 6))
	assert.Equal(t, 5, snapToBoundary([]rune("abcd.ef"), 4, 6))
}

func FuzzSplitByLength(f *testing.F) {
	f.Add("Sentence one. Sentence two.", 5)
	f.Add("", 1)
	f.Add("第一句。第二句", 3)
	f.Add("ab\xffcd.ef", 3)

	f.Fuzz(func(t *testing.T, text string, size int) {
		if size < 1 || size > 10000 {
			t.Skip()
		}
		res, err := New().Split(text, LengthPolicy{MaxChunkSize: size})
		if err != nil {
			t.Fatal(err)
		}
		if got := Join(res.Chunks); got != text {
			t.Fatalf("reconstruction mismatch: %q != %q", got, text)
		}
	})
}
