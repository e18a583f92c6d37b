package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
)

func TestSearchCache_SetGet(t *testing.T) {
	t.Parallel()

	c := NewSearchCache(time.Minute, time.Minute)
	c.Set("movie:titanic", []provider.SearchResult{
		{Title: "Titanic", Provider: domain.ProviderTMDB, ExternalID: "597"},
	})

	got, ok := c.Get("movie:titanic")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "597", got[0].ExternalID)
	assert.Equal(t, 1, c.Len())
}

func TestSearchCache_Miss(t *testing.T) {
	t.Parallel()

	c := NewSearchCache(time.Minute, time.Minute)
	_, ok := c.Get("nothing")
	assert.False(t, ok)
}

func TestSearchCache_Expires(t *testing.T) {
	t.Parallel()

	c := NewSearchCache(20*time.Millisecond, time.Minute)
	c.Set("k", []provider.SearchResult{{Title: "A"}})

	time.Sleep(50 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestSearchCache_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c := NewSearchCache(time.Minute, time.Minute)
	c.Set("k", []provider.SearchResult{{Title: "A"}})

	got, _ := c.Get("k")
	got[0].Title = "mutated"

	again, _ := c.Get("k")
	assert.Equal(t, "A", again[0].Title)
}

func TestSearchCache_EmptyResultsAreCached(t *testing.T) {
	t.Parallel()

	c := NewSearchCache(time.Minute, time.Minute)
	c.Set("k", []provider.SearchResult{})

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Empty(t, got)
}
