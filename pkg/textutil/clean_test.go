package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAdjacentBlankLines(t *testing.T) {
	in := "first\n\n\n\nsecond"
	assert.Equal(t, "first\n\nsecond", TrimAdjacentBlankLines(in))
}

func TestCollapsePunctuationRuns(t *testing.T) {
	assert.Equal(t, "Really? Wow!", CollapsePunctuationRuns("Really???? Wow!!!!"))
}

func TestTitleCaseShoutingWords(t *testing.T) {
	assert.Equal(t, "This is Urgent now", TitleCaseShoutingWords("This is URGENT now"))
	assert.Equal(t, "ok go", TitleCaseShoutingWords("ok go")) // below 4-letter run, untouched
}

func TestClamp(t *testing.T) {
	assert.Equal(t, "", Clamp("hello", 0))
	assert.Equal(t, "hello", Clamp("hello", 10))
	assert.Equal(t, "hel", Clamp("hello", 3))
	assert.Equal(t, "日本", Clamp("日本語", 2))
}

func TestWordSet(t *testing.T) {
	stop := map[string]struct{}{"the": {}}
	words := WordSet("The Quick Brown fox, the lazy DOG!", 3, stop)
	assert.Contains(t, words, "quick")
	assert.Contains(t, words, "brown")
	assert.Contains(t, words, "lazy")
	assert.Contains(t, words, "dog")
	assert.NotContains(t, words, "the")
	assert.Contains(t, words, "fox")
}
