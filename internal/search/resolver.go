// Package search answers catalog queries and tags every hit with how it
// relates to what was asked for: an exact part-number match, an analog, or
// an unrelated result.
package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"parts-service/internal/analog"
	"parts-service/internal/catalog"
	"parts-service/internal/model"
	"parts-service/internal/pricing"
)

// Match tags classify results for display
const (
	MatchExact  = "exact"
	MatchAnalog = "analog"
	MatchOther  = "other"
)

// articleShape matches strings that look like a manufacturer part number:
// letters, digits and hyphens only.
var articleShape = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)

// Result is one search hit with the price already transformed for the
// requesting viewer.
type Result struct {
	ID            uint            `json:"id"`
	PartNumber    string          `json:"part_number"`
	Manufacturer  string          `json:"manufacturer"`
	Name          string          `json:"name"`
	DisplayPrice  decimal.Decimal `json:"display_price"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   bool            `json:"is_available"`
	Match         string          `json:"match"`
}

type Resolver struct {
	parts   *catalog.Store
	graph   *analog.Graph
	pricing *pricing.Policy
}

func NewResolver(parts *catalog.Store, graph *analog.Graph, policy *pricing.Policy) *Resolver {
	return &Resolver{parts: parts, graph: graph, pricing: policy}
}

// Search looks the query up in the requested mode and returns tagged,
// ordered, viewer-priced results.
//
// A text query shaped like a part number is additionally run in article
// mode, since such a query can satisfy both. When exactly one exact match
// comes back alongside other hits, the others are re-tagged as analogs:
// showing up in the same matching session is taken as sufficient evidence
// for display purposes. When the exact match is alone, the analog graph is
// consulted instead and its in-stock results appended.
func (r *Resolver) Search(ctx context.Context, query string, mode catalog.SearchMode, viewer model.Viewer) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	parts, err := r.parts.Search(ctx, query, mode)
	if err != nil {
		return nil, err
	}
	if mode == catalog.ModeText && articleShape.MatchString(query) {
		articleHits, err := r.parts.Search(ctx, query, catalog.ModeArticle)
		if err != nil {
			return nil, err
		}
		parts = mergeParts(parts, articleHits)
	}

	var exact, other []model.Part
	for _, p := range parts {
		if strings.EqualFold(p.PartNumber, query) {
			exact = append(exact, p)
		} else {
			other = append(other, p)
		}
	}

	results := make([]Result, 0, len(parts))
	for _, p := range exact {
		results = append(results, r.view(p, MatchExact, viewer))
	}

	switch {
	case len(exact) == 1 && len(other) > 0:
		// Promotion rule: a lone exact match turns every remaining hit
		// into an analog for display.
		for _, p := range other {
			results = append(results, r.view(p, MatchAnalog, viewer))
		}
	case len(exact) == 1 && len(other) == 0:
		relations, err := r.graph.Resolve(ctx, exact[0].ID)
		if err != nil {
			return nil, err
		}
		for _, rel := range relations {
			if !rel.Part.IsAvailable || rel.Part.StockQuantity <= 0 {
				continue
			}
			results = append(results, r.view(rel.Part, MatchAnalog, viewer))
		}
	default:
		for _, p := range other {
			results = append(results, r.view(p, MatchOther, viewer))
		}
	}

	return results, nil
}

func (r *Resolver) view(p model.Part, match string, viewer model.Viewer) Result {
	return Result{
		ID:            p.ID,
		PartNumber:    p.PartNumber,
		Manufacturer:  p.Manufacturer,
		Name:          p.Name,
		DisplayPrice:  r.pricing.DisplayPrice(p.BasePrice, viewer),
		StockQuantity: p.StockQuantity,
		IsAvailable:   p.IsAvailable,
		Match:         match,
	}
}

func mergeParts(a, b []model.Part) []model.Part {
	seen := make(map[uint]bool, len(a))
	for _, p := range a {
		seen[p.ID] = true
	}
	for _, p := range b {
		if !seen[p.ID] {
			seen[p.ID] = true
			a = append(a, p)
		}
	}
	return a
}
