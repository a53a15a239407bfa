package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"parts-service/internal/analog"
	"parts-service/internal/apperr"
	"parts-service/internal/catalog"
	"parts-service/internal/compat"
	"parts-service/internal/model"
	"parts-service/internal/testutil"
)

const moderatorID = uint(42)

func newWorkflow(t *testing.T) (*Workflow, *gorm.DB) {
	db := testutil.OpenDB(t)
	w := NewWorkflow(db, analog.NewGraph(db), compat.NewIndex(db), catalog.NewStore(db), zap.NewNop())
	return w, db
}

func pendingAnalog(t *testing.T, db *gorm.DB, source, target uint) model.Suggestion {
	t.Helper()
	s := model.Suggestion{
		Type:         model.SuggestionAnalog,
		AuthorID:     7,
		SourcePartID: source,
		TargetPartID: &target,
		IsDirect:     true,
		Status:       model.SuggestionPending,
		Comment:      "user says interchangeable",
	}
	testutil.Create(t, db, &s)
	return s
}

func TestSubmitValidation(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	part := testutil.Part("F-100", "Mann")
	testutil.Create(t, db, &part)

	_, err := w.Submit(ctx, SubmitInput{
		Type:         model.SuggestionAnalog,
		SourcePartID: 9999,
		TargetPartID: testutil.UintPtr(part.ID),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = w.Submit(ctx, SubmitInput{
		Type:         model.SuggestionAnalog,
		SourcePartID: part.ID,
		TargetPartID: testutil.UintPtr(part.ID),
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidRelation)

	_, err = w.Submit(ctx, SubmitInput{
		Type:         model.SuggestionAnalog,
		SourcePartID: part.ID,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidRelation)

	_, err = w.Submit(ctx, SubmitInput{
		Type:         model.SuggestionCompatibility,
		SourcePartID: part.ID,
	})
	assert.ErrorIs(t, err, apperr.ErrMissingReference)

	s, err := w.Submit(ctx, SubmitInput{
		Type:                 model.SuggestionAnalog,
		AuthorID:             7,
		SourcePartID:         part.ID,
		ProposedNumber:       "F-100X",
		ProposedManufacturer: "Filtron",
		IsDirect:             true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SuggestionPending, s.Status)
}

func TestApproveAnalogWithExistingTarget(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	source := testutil.Part("F-100", "Mann")
	target := testutil.Part("F-100X", "Filtron")
	testutil.Create(t, db, &source)
	testutil.Create(t, db, &target)
	s := pendingAnalog(t, db, source.ID, target.ID)

	approved, err := w.Approve(ctx, s.ID, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, model.SuggestionApproved, approved.Status)
	require.NotNil(t, approved.ModeratorID)
	assert.Equal(t, moderatorID, *approved.ModeratorID)
	assert.NotNil(t, approved.ModeratedAt)

	// The direct edge went in symmetric and verified.
	g := analog.NewGraph(db)
	fromTarget, err := g.Resolve(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, fromTarget, 1)
	assert.Equal(t, source.ID, fromTarget[0].Part.ID)
}

func TestApproveAnalogCreatesMissingPart(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	source := testutil.Part("F-100", "Mann")
	source.CategoryID = 3
	testutil.Create(t, db, &source)

	s := model.Suggestion{
		Type:                 model.SuggestionAnalog,
		AuthorID:             7,
		SourcePartID:         source.ID,
		ProposedNumber:       "F-100X",
		ProposedManufacturer: "Filtron",
		ProposedDescription:  "cross reference",
		IsDirect:             true,
		Status:               model.SuggestionPending,
	}
	testutil.Create(t, db, &s)

	approved, err := w.Approve(ctx, s.ID, moderatorID)
	require.NoError(t, err)
	require.NotNil(t, approved.TargetPartID)

	var created model.Part
	require.NoError(t, db.First(&created, *approved.TargetPartID).Error)
	assert.Equal(t, "F-100X", created.PartNumber)
	assert.Equal(t, "Filtron", created.Manufacturer)
	// Category inherited from the source, zero price and stock, available.
	assert.Equal(t, uint(3), created.CategoryID)
	assert.True(t, created.BasePrice.IsZero())
	assert.Zero(t, created.StockQuantity)
	assert.True(t, created.IsAvailable)
}

func TestApproveAnalogReusesExistingPartByNumber(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	source := testutil.Part("F-100", "Mann")
	existing := testutil.Part("F-100X", "Filtron")
	testutil.Create(t, db, &source)
	testutil.Create(t, db, &existing)

	s := model.Suggestion{
		Type:                 model.SuggestionAnalog,
		SourcePartID:         source.ID,
		ProposedNumber:       "f-100x",
		ProposedManufacturer: "FILTRON",
		IsDirect:             true,
		Status:               model.SuggestionPending,
	}
	testutil.Create(t, db, &s)

	approved, err := w.Approve(ctx, s.ID, moderatorID)
	require.NoError(t, err)
	require.NotNil(t, approved.TargetPartID)
	assert.Equal(t, existing.ID, *approved.TargetPartID)

	var count int64
	require.NoError(t, db.Model(&model.Part{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestApproveSubstituteSuggestion(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	source := testutil.Part("F-100", "Mann")
	target := testutil.Part("F-100X", "Filtron")
	testutil.Create(t, db, &source)
	testutil.Create(t, db, &target)

	s := model.Suggestion{
		Type:         model.SuggestionAnalog,
		SourcePartID: source.ID,
		TargetPartID: &target.ID,
		IsDirect:     false,
		Status:       model.SuggestionPending,
	}
	testutil.Create(t, db, &s)

	_, err := w.Approve(ctx, s.ID, moderatorID)
	require.NoError(t, err)

	var edges []model.PartAnalog
	require.NoError(t, db.Find(&edges).Error)
	require.Len(t, edges, 1)
	assert.False(t, edges[0].IsDirect)
	assert.Equal(t, source.ID, edges[0].SourcePartID)
}

func TestApproveCompatibilitySuggestion(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	part := testutil.Part("OC-90", "Knecht")
	testutil.Create(t, db, &part)
	brand := testutil.Brand("Toyota")
	testutil.Create(t, db, &brand)
	carMod := testutil.CarModel(brand.ID, "Corolla")
	testutil.Create(t, db, &carMod)

	s := model.Suggestion{
		Type:         model.SuggestionCompatibility,
		SourcePartID: part.ID,
		CarModelID:   &carMod.ID,
		StartYear:    testutil.IntPtr(2000),
		Status:       model.SuggestionPending,
		Comment:      "fits facelift too",
	}
	testutil.Create(t, db, &s)

	_, err := w.Approve(ctx, s.ID, moderatorID)
	require.NoError(t, err)

	entries, err := compat.NewIndex(db).GetCompatibilities(ctx, part.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "с 2000", entries[0].Years)
	assert.Equal(t, "fits facelift too", entries[0].Notes)
}

func TestApproveAtomicityOnMissingModel(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	part := testutil.Part("OC-90", "Knecht")
	testutil.Create(t, db, &part)

	// The referenced car model was deleted after the suggestion was filed.
	missingModel := uint(9999)
	s := model.Suggestion{
		Type:         model.SuggestionCompatibility,
		SourcePartID: part.ID,
		CarModelID:   &missingModel,
		Status:       model.SuggestionPending,
	}
	testutil.Create(t, db, &s)

	_, err := w.Approve(ctx, s.ID, moderatorID)
	assert.ErrorIs(t, err, apperr.ErrMissingReference)

	// The whole unit rolled back: still pending, no edge rows.
	var reloaded model.Suggestion
	require.NoError(t, db.First(&reloaded, s.ID).Error)
	assert.Equal(t, model.SuggestionPending, reloaded.Status)
	assert.Nil(t, reloaded.ModeratorID)

	var count int64
	require.NoError(t, db.Model(&model.PartCompatibility{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApproveDecidedSuggestionFails(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	source := testutil.Part("F-100", "Mann")
	target := testutil.Part("F-100X", "Filtron")
	testutil.Create(t, db, &source)
	testutil.Create(t, db, &target)
	s := pendingAnalog(t, db, source.ID, target.ID)

	_, err := w.Approve(ctx, s.ID, moderatorID)
	require.NoError(t, err)

	var before []model.PartAnalog
	require.NoError(t, db.Order("id").Find(&before).Error)

	// Re-approving is rejected and leaves the edges untouched.
	_, err = w.Approve(ctx, s.ID, moderatorID)
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)

	var after []model.PartAnalog
	require.NoError(t, db.Order("id").Find(&after).Error)
	assert.Equal(t, before, after)

	// Same for rejecting an approved suggestion.
	_, err = w.Reject(ctx, s.ID, moderatorID, "changed my mind")
	assert.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
}

func TestRejectPendingSuggestion(t *testing.T) {
	w, db := newWorkflow(t)
	ctx := context.Background()
	source := testutil.Part("F-100", "Mann")
	target := testutil.Part("F-100X", "Filtron")
	testutil.Create(t, db, &source)
	testutil.Create(t, db, &target)
	s := pendingAnalog(t, db, source.ID, target.ID)

	rejected, err := w.Reject(ctx, s.ID, moderatorID, "not the same thread pitch")
	require.NoError(t, err)
	assert.Equal(t, model.SuggestionRejected, rejected.Status)
	assert.Equal(t, "not the same thread pitch", rejected.Comment)

	// No graph mutation on rejection.
	var count int64
	require.NoError(t, db.Model(&model.PartAnalog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApproveUnknownSuggestion(t *testing.T) {
	w, _ := newWorkflow(t)

	_, err := w.Approve(context.Background(), 9999, moderatorID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = w.Reject(context.Background(), 9999, moderatorID, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
