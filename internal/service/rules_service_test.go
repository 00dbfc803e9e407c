package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eop-planner-be/internal/constant"
	"eop-planner-be/internal/repository/memory"
	"eop-planner-be/pkg/cache"
)

func TestSeedIsIdempotent(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewRulesService(factory, nil, nil)
	ctx := context.Background()

	created, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	catalog, err := factory.Catalogs.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, catalog)
}

func TestDefaultCatalogShape(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewRulesService(factory, nil, nil)

	catalog, err := svc.GetCatalog(context.Background())
	require.NoError(t, err)

	assert.Len(t, catalog.SectionRules(constant.SectionInformation), 3)
	assert.Len(t, catalog.SectionRules(constant.SectionAssessment), 3)
	assert.Len(t, catalog.SectionRules(constant.SectionResponsePlan), 3)
	assert.Len(t, catalog.SectionRules(constant.SectionReview), 2)

	assert.Equal(t, "Organization name must be provided.",
		catalog.SectionRules(constant.SectionInformation)[0].Text)
}

func TestGetCatalogSeedsWhenEmpty(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewRulesService(factory, nil, nil)
	ctx := context.Background()

	catalog, err := svc.GetCatalog(ctx)
	require.NoError(t, err)
	require.NotNil(t, catalog)

	stored, err := factory.Catalogs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Id, stored.Id)
}

func TestGetCatalogUsesCache(t *testing.T) {
	factory := memory.NewFactory()
	catalogCache := cache.NewCatalogCache(time.Minute)
	svc := NewRulesService(factory, catalogCache, nil)
	ctx := context.Background()

	first, err := svc.GetCatalog(ctx)
	require.NoError(t, err)

	cached, ok := catalogCache.Get()
	require.True(t, ok)
	assert.Equal(t, first.Id, cached.Id)

	second, err := svc.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
}
