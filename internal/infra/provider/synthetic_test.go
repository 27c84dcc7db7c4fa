package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeed_Deterministic(t *testing.T) {
	const url = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	first := Seed(url)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Seed(url))
	}
}

func TestSeed_DistinguishesURLs(t *testing.T) {
	a := Seed("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	b := Seed("https://www.youtube.com/watch?v=aaaaaaaaaaa")

	assert.NotEqual(t, a, b)
}

func TestSeed_NonNegative(t *testing.T) {
	for _, url := range []string{"", "a", "https://例子.com/视频"} {
		assert.GreaterOrEqual(t, Seed(url), int64(0))
	}
}

func TestPublishedDaysAgo_Deterministic(t *testing.T) {
	seed := Seed("https://www.bilibili.com/video/BV1GJ411x7h7")

	first := PublishedDaysAgo(seed, 7)
	assert.Equal(t, first, PublishedDaysAgo(seed, 7))
	assert.False(t, first.IsZero())
}
