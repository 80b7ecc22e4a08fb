package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "quizhub:stats:leaderboard:global",
		GenerateCacheKey("stats", "leaderboard", "global"))

	assert.Equal(t, "quizhub:quiz:list:all:search_go",
		GenerateCacheKey("quiz", "list", "all", "search", "go"))
}
