package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeCategories_DeduplicatesPreservingOrder(t *testing.T) {
	merged := MergeCategories(
		[]string{CategoryAbusive, CategoryAdvertising},
		[]string{CategoryAdvertising, "hate_speech"},
	)

	assert.Equal(t, []string{CategoryAbusive, CategoryAdvertising, "hate_speech"}, merged)
}

func TestMergeCategories_DropsNonePlaceholderWhenTagsExist(t *testing.T) {
	merged := MergeCategories([]string{CategoryNone}, []string{CategoryRepetitive})

	assert.Equal(t, []string{CategoryRepetitive}, merged)
}

func TestMergeCategories_EmptyInputYieldsNone(t *testing.T) {
	merged := MergeCategories(nil, []string{""})

	assert.Equal(t, []string{CategoryNone}, merged)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5))
	assert.Equal(t, 42.5, Clamp(42.5))
	assert.Equal(t, 100.0, Clamp(120))
}

func TestSample_Normalized(t *testing.T) {
	s := &Sample{Text: "  padded text \n"}

	assert.Equal(t, "padded text", s.Normalized())
}
