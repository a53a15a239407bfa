package compat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parts-service/internal/apperr"
	"parts-service/internal/model"
	"parts-service/internal/testutil"
)

func TestFormatYearRange(t *testing.T) {
	tests := []struct {
		name  string
		start *int
		end   *int
		want  string
	}{
		{"both bounds", testutil.IntPtr(2001), testutil.IntPtr(2008), "2001-2008"},
		{"open end", testutil.IntPtr(2001), nil, "с 2001"},
		{"open start", nil, testutil.IntPtr(2008), "до 2008"},
		{"no years", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatYearRange(tt.start, tt.end))
		})
	}
}

type fixture struct {
	part   model.Part
	brand  model.CarBrand
	carMod model.CarModel
	engine model.CarEngine
}

func setup(t *testing.T) (*Index, fixture) {
	db := testutil.OpenDB(t)

	f := fixture{part: testutil.Part("OC-90", "Knecht")}
	testutil.Create(t, db, &f.part)
	f.brand = testutil.Brand("Toyota")
	testutil.Create(t, db, &f.brand)
	f.carMod = testutil.CarModel(f.brand.ID, "Corolla")
	testutil.Create(t, db, &f.carMod)
	f.engine = testutil.Engine(f.carMod.ID, "1ZZ-FE")
	testutil.Create(t, db, &f.engine)

	return NewIndex(db), f
}

func TestUpsertCompatibilityWritesBothStorages(t *testing.T) {
	index, f := setup(t)
	ctx := context.Background()

	err := index.UpsertCompatibility(ctx, f.part.ID, f.carMod.ID,
		&f.engine.ID, testutil.IntPtr(2000), testutil.IntPtr(2007), "front axle")
	require.NoError(t, err)

	entries, err := index.GetCompatibilities(ctx, f.part.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Toyota", entries[0].Brand)
	assert.Equal(t, "Corolla", entries[0].Model)
	assert.Equal(t, "1ZZ-FE", entries[0].Engine)
	assert.Equal(t, "2000-2007", entries[0].Years)
	assert.Equal(t, "front axle", entries[0].Notes)

	// The legacy pivot was written alongside the edge.
	var pivot model.PartEngine
	require.NoError(t, index.db.
		Where("part_id = ? AND car_engine_id = ?", f.part.ID, f.engine.ID).
		First(&pivot).Error)
	assert.Equal(t, "front axle", pivot.Notes)
}

func TestUpsertCompatibilityIdempotent(t *testing.T) {
	index, f := setup(t)
	ctx := context.Background()

	require.NoError(t, index.UpsertCompatibility(ctx, f.part.ID, f.carMod.ID, &f.engine.ID, nil, nil, "v1"))
	require.NoError(t, index.UpsertCompatibility(ctx, f.part.ID, f.carMod.ID, &f.engine.ID, testutil.IntPtr(2003), nil, "v2"))

	var edges []model.PartCompatibility
	require.NoError(t, index.db.Find(&edges).Error)
	require.Len(t, edges, 1)
	assert.Equal(t, "v2", edges[0].Notes)

	var pivots []model.PartEngine
	require.NoError(t, index.db.Find(&pivots).Error)
	require.Len(t, pivots, 1)
}

func TestUpsertCompatibilityNullEngineIsItsOwnKey(t *testing.T) {
	index, f := setup(t)
	ctx := context.Background()

	require.NoError(t, index.UpsertCompatibility(ctx, f.part.ID, f.carMod.ID, nil, nil, nil, "all engines"))
	require.NoError(t, index.UpsertCompatibility(ctx, f.part.ID, f.carMod.ID, &f.engine.ID, nil, nil, "1ZZ only"))
	require.NoError(t, index.UpsertCompatibility(ctx, f.part.ID, f.carMod.ID, nil, nil, nil, "all engines v2"))

	var edges []model.PartCompatibility
	require.NoError(t, index.db.Order("id").Find(&edges).Error)
	require.Len(t, edges, 2)
	assert.Nil(t, edges[0].CarEngineID)
	assert.Equal(t, "all engines v2", edges[0].Notes)
	require.NotNil(t, edges[1].CarEngineID)
}

func TestUpsertCompatibilityMissingReferences(t *testing.T) {
	index, f := setup(t)
	ctx := context.Background()

	err := index.UpsertCompatibility(ctx, 9999, f.carMod.ID, nil, nil, nil, "")
	assert.ErrorIs(t, err, apperr.ErrMissingReference)

	err = index.UpsertCompatibility(ctx, f.part.ID, 9999, nil, nil, nil, "")
	assert.ErrorIs(t, err, apperr.ErrMissingReference)

	missingEngine := uint(9999)
	err = index.UpsertCompatibility(ctx, f.part.ID, f.carMod.ID, &missingEngine, nil, nil, "")
	assert.ErrorIs(t, err, apperr.ErrMissingReference)
}

func TestGetCompatibilitiesMergesPivotRows(t *testing.T) {
	index, f := setup(t)
	ctx := context.Background()

	// Edge and pivot both record the same (model, engine) pair with
	// different notes; the edge-sourced notes must win and the pair must
	// appear once.
	testutil.Create(t, index.db, &model.PartCompatibility{
		PartID:      f.part.ID,
		CarModelID:  f.carMod.ID,
		CarEngineID: &f.engine.ID,
		Notes:       "edge notes",
		IsVerified:  true,
	})
	testutil.Create(t, index.db, &model.PartEngine{
		PartID:      f.part.ID,
		CarEngineID: f.engine.ID,
		Notes:       "pivot notes",
	})

	entries, err := index.GetCompatibilities(ctx, f.part.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "edge notes", entries[0].Notes)
}

func TestGetCompatibilitiesIncludesPivotOnlyRows(t *testing.T) {
	index, f := setup(t)
	ctx := context.Background()

	secondEngine := testutil.Engine(f.carMod.ID, "2ZZ-GE")
	testutil.Create(t, index.db, &secondEngine)

	testutil.Create(t, index.db, &model.PartCompatibility{
		PartID:      f.part.ID,
		CarModelID:  f.carMod.ID,
		CarEngineID: &f.engine.ID,
		IsVerified:  true,
	})
	// Legacy pivot row with no matching edge.
	testutil.Create(t, index.db, &model.PartEngine{
		PartID:      f.part.ID,
		CarEngineID: secondEngine.ID,
		Notes:       "legacy fitment",
	})

	entries, err := index.GetCompatibilities(ctx, f.part.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1ZZ-FE", entries[0].Engine)
	assert.Equal(t, "2ZZ-GE", entries[1].Engine)
	assert.Equal(t, "legacy fitment", entries[1].Notes)
}

func TestGetCompatibilitiesSkipsUnverifiedEdges(t *testing.T) {
	index, f := setup(t)
	ctx := context.Background()

	testutil.Create(t, index.db, &model.PartCompatibility{
		PartID:     f.part.ID,
		CarModelID: f.carMod.ID,
		IsVerified: false,
	})

	entries, err := index.GetCompatibilities(ctx, f.part.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetCompatibilitiesUnknownPartIsEmpty(t *testing.T) {
	index, _ := setup(t)

	entries, err := index.GetCompatibilities(context.Background(), 9999)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
