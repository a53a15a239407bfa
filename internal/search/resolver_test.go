package search

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"parts-service/internal/analog"
	"parts-service/internal/catalog"
	"parts-service/internal/model"
	"parts-service/internal/pricing"
	"parts-service/internal/testutil"
)

func newResolver(t *testing.T) (*Resolver, *gorm.DB) {
	db := testutil.OpenDB(t)
	r := NewResolver(catalog.NewStore(db), analog.NewGraph(db), pricing.NewPolicy(decimal.NewFromInt(20)))
	return r, db
}

func matches(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Match)
	}
	return out
}

func TestSearchPromotionRule(t *testing.T) {
	r, db := newResolver(t)
	ctx := context.Background()

	exact := testutil.Part("ABC-123", "Bosch")
	testutil.Create(t, db, &exact)
	near1 := testutil.Part("XYZ-1", "Febi")
	near1.Name = "bearing ABC-123 compatible"
	testutil.Create(t, db, &near1)
	near2 := testutil.Part("XYZ-2", "SKF")
	near2.Description = "replaces abc-123 series"
	testutil.Create(t, db, &near2)

	results, err := r.Search(ctx, "ABC-123", catalog.ModeText, model.Guest())
	require.NoError(t, err)
	require.Len(t, results, 3)

	// One exact match plus name matches: the others are promoted to
	// analogs, ordered after the exact match.
	assert.Equal(t, "ABC-123", results[0].PartNumber)
	assert.Equal(t, []string{MatchExact, MatchAnalog, MatchAnalog}, matches(results))
}

func TestSearchNoPromotionWithoutExactMatch(t *testing.T) {
	r, db := newResolver(t)
	ctx := context.Background()

	p1 := testutil.Part("XYZ-1", "Febi")
	p1.Name = "wheel bearing"
	testutil.Create(t, db, &p1)
	p2 := testutil.Part("XYZ-2", "SKF")
	p2.Name = "wheel bearing kit"
	testutil.Create(t, db, &p2)

	results, err := r.Search(ctx, "wheel bearing", catalog.ModeText, model.Guest())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{MatchOther, MatchOther}, matches(results))
}

func TestSearchLoneExactMatchFallsBackToGraph(t *testing.T) {
	r, db := newResolver(t)
	ctx := context.Background()

	exact := testutil.Part("ABC-123", "Bosch")
	testutil.Create(t, db, &exact)
	available := testutil.Part("DEF-9", "Febi")
	testutil.Create(t, db, &available)
	outOfStock := testutil.Part("DEF-10", "SKF")
	outOfStock.StockQuantity = 0
	testutil.Create(t, db, &outOfStock)
	unavailable := testutil.Part("DEF-11", "Mann")
	unavailable.IsAvailable = false
	testutil.Create(t, db, &unavailable)

	g := analog.NewGraph(db)
	require.NoError(t, g.UpsertDirectEdge(ctx, exact.ID, available.ID, ""))
	require.NoError(t, g.UpsertDirectEdge(ctx, exact.ID, outOfStock.ID, ""))
	require.NoError(t, g.UpsertDirectEdge(ctx, exact.ID, unavailable.ID, ""))

	results, err := r.Search(ctx, "ABC-123", catalog.ModeArticle, model.Guest())
	require.NoError(t, err)

	// Only the available, in-stock analog is appended after the exact hit.
	require.Len(t, results, 2)
	assert.Equal(t, MatchExact, results[0].Match)
	assert.Equal(t, available.ID, results[1].ID)
	assert.Equal(t, MatchAnalog, results[1].Match)
}

func TestSearchArticleShapedTextQuery(t *testing.T) {
	r, db := newResolver(t)
	ctx := context.Background()

	// An article-shaped text query runs both lookups; the hit from each
	// path must collapse into one result.
	p := testutil.Part("GG-77", "Bosch")
	p.Name = "fuel pump"
	testutil.Create(t, db, &p)

	results, err := r.Search(ctx, "GG-77", catalog.ModeText, model.Guest())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MatchExact, results[0].Match)
}

func TestSearchCaseInsensitiveExactTag(t *testing.T) {
	r, db := newResolver(t)
	ctx := context.Background()

	p := testutil.Part("ABC-123", "Bosch")
	testutil.Create(t, db, &p)

	results, err := r.Search(ctx, "abc-123", catalog.ModeArticle, model.Guest())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MatchExact, results[0].Match)
}

func TestSearchAppliesViewerPricing(t *testing.T) {
	r, db := newResolver(t)
	ctx := context.Background()

	p := testutil.Part("ABC-123", "Bosch") // base price 100
	testutil.Create(t, db, &p)

	results, err := r.Search(ctx, "ABC-123", catalog.ModeArticle, model.Viewer{Role: model.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].DisplayPrice.Equal(decimal.NewFromInt(120)),
		"got %s", results[0].DisplayPrice)

	admin := model.Viewer{Role: model.RolePrivileged, AdminView: true}
	results, err = r.Search(ctx, "ABC-123", catalog.ModeArticle, admin)
	require.NoError(t, err)
	assert.True(t, results[0].DisplayPrice.Equal(decimal.NewFromInt(100)),
		"got %s", results[0].DisplayPrice)
}

func TestSearchEmptyQuery(t *testing.T) {
	r, _ := newResolver(t)

	results, err := r.Search(context.Background(), "   ", catalog.ModeText, model.Guest())
	require.NoError(t, err)
	assert.Empty(t, results)
}
