package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateEnd(t *testing.T) {
	assert.Equal(t, "", truncateEnd("anything", 0))
	assert.Equal(t, "short", truncateEnd("short", 10))
	assert.Equal(t, "…", truncateEnd("long", 1))
	assert.Equal(t, "Spir…", truncateEnd("Spirited Away", 5))
	assert.Equal(t, "千と…", truncateEnd("千と千尋の神隠し", 3))
}

func TestTruncateMiddle(t *testing.T) {
	assert.Equal(t, "", truncateMiddle("anything", -1))
	assert.Equal(t, "short", truncateMiddle("short", 5))
	assert.Equal(t, "…", truncateMiddle("long", 1))
	assert.Equal(t, "ab…yz", truncateMiddle("abcdefghijklmnopqrstuvwxyz", 5))
	assert.Equal(t, "a…z", truncateMiddle("abcz", 3))
	assert.Equal(t, "…z", truncateMiddle("xyz", 2))
}
