package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyCorpus(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestScoreFavorsDocumentWithHigherTermFrequency(t *testing.T) {
	c, err := New([]string{
		"the quick brown fox jumps over the lazy dog",
		"go is a fast statically typed programming language",
		"go go go concurrency channels goroutines go",
	})
	require.NoError(t, err)

	low := c.Score("go", "go is a fast statically typed programming language")
	high := c.Score("go", "go go go concurrency channels goroutines go")
	assert.Greater(t, high, low)
}

func TestScoreEmptyQueryIsZero(t *testing.T) {
	c, err := New([]string{"alpha beta", "gamma delta"})
	require.NoError(t, err)
	assert.Zero(t, c.Score("", "alpha beta"))
}

func TestScoreUnknownTermContributesZero(t *testing.T) {
	c, err := New([]string{"alpha beta", "gamma delta"})
	require.NoError(t, err)
	assert.Zero(t, c.Score("zephyr", "alpha beta"))
}

func TestScoreStemsBothQueryAndDocument(t *testing.T) {
	c, err := New([]string{"running quickly", "walking slowly"})
	require.NoError(t, err)
	assert.Greater(t, c.Score("run", "running quickly"), 0.0)
}

func TestAvgDocLen(t *testing.T) {
	c, err := New([]string{"one two three", "four five"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.AvgDocLen())
}
