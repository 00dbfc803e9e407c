package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eop-planner-be/internal/entity"
)

func TestCatalogCacheRoundTrip(t *testing.T) {
	c := NewCatalogCache(time.Minute)

	_, ok := c.Get()
	assert.False(t, ok)

	catalog := entity.NewRuleCatalog(map[string][]entity.Rule{
		"information": {{Text: "Organization name must be provided."}},
	})
	c.Set(catalog)

	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, catalog.Id, got.Id)
	assert.Len(t, got.SectionRules("information"), 1)
}

func TestCatalogCacheExpires(t *testing.T) {
	c := NewCatalogCache(10 * time.Millisecond)

	c.Set(entity.NewRuleCatalog(nil))
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get()
	assert.False(t, ok)
}
