package repositories

import (
	"context"
	"errors"
	"testing"

	"rayob-cms/models"
	"rayob-cms/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingletonGetBeforeSave(t *testing.T) {
	repo := NewSingletonRepository[models.CompanyOverview](testutil.NewDB(t), OrderedOptions{Name: "company_overview"})

	_, err := repo.Get(context.Background())
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSingletonSaveCreatesThenMerges(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSingletonRepository[models.CompanyOverview](db, OrderedOptions{Name: "company_overview"})
	ctx := context.Background()

	created, err := repo.Save(ctx, payloadOf(t, map[string]interface{}{
		"headline":         "Building since 1998",
		"summary":          "A family construction firm.",
		"values":           "Safety first",
		"years_experience": 26,
	}))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := repo.Save(ctx, payloadOf(t, map[string]interface{}{
		"id":      999,
		"mission": "Build well",
	}))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Building since 1998", updated.Headline)
	assert.Equal(t, "Build well", updated.Mission)

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Safety first", stored.Values)
	assert.Equal(t, 26, stored.YearsExperience)
	assert.Equal(t, "Build well", stored.Mission)

	var count int64
	require.NoError(t, db.Model(&models.CompanyOverview{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSingletonSaveValidates(t *testing.T) {
	repo := NewSingletonRepository[models.CompanyOverview](testutil.NewDB(t), OrderedOptions{Name: "company_overview"})

	_, err := repo.Save(context.Background(), payloadOf(t, map[string]interface{}{"mission": "No headline"}))
	assert.True(t, errors.Is(err, models.ErrValidation))
}
