// Package analog owns the analog relationship graph between parts. Edges
// live as adjacency rows in the relational store; resolution is two bounded
// queries, not a recursive traversal.
package analog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"parts-service/internal/apperr"
	"parts-service/internal/catalog"
	"parts-service/internal/model"
)

// RelationType tags how a resolved part relates to the queried one
type RelationType string

const (
	// RelationDirect is a verified, symmetric interchangeability link, or
	// an outgoing substitute link.
	RelationDirect RelationType = "direct"
	// RelationIndirect is a part one extra direct-analog hop away.
	RelationIndirect RelationType = "indirect"
)

// Relation is one entry of a resolution result.
type Relation struct {
	Part         model.Part
	RelationType RelationType
}

type Graph struct {
	db    *gorm.DB
	parts *catalog.Store
}

func NewGraph(db *gorm.DB) *Graph {
	return &Graph{db: db, parts: catalog.NewStore(db)}
}

// WithTx returns a graph bound to the given transaction.
func (g *Graph) WithTx(tx *gorm.DB) *Graph {
	return &Graph{db: tx, parts: g.parts.WithTx(tx)}
}

// UpsertDirectEdge asserts that a and b are interchangeable. Both the (a, b)
// and (b, a) rows are written in one transaction, marked direct and
// verified. Re-asserting an existing edge only refreshes the notes; an
// existing substitute edge in either direction is overwritten, the newer
// decision winning.
func (g *Graph) UpsertDirectEdge(ctx context.Context, a, b uint, notes string) error {
	if a == b {
		return fmt.Errorf("analog edge %d->%d: %w", a, b, apperr.ErrInvalidRelation)
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertEdge(tx, a, b, true, notes); err != nil {
			return err
		}
		return upsertEdge(tx, b, a, true, notes)
	})
}

// UpsertSubstituteEdge asserts that target can substitute for source. The
// edge is one-directional and not mirrored. When a direct pair already
// exists between the two parts it is demoted: the mirror row is removed.
func (g *Graph) UpsertSubstituteEdge(ctx context.Context, source, target uint, notes string) error {
	if source == target {
		return fmt.Errorf("substitute edge %d->%d: %w", source, target, apperr.ErrInvalidRelation)
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mirror model.PartAnalog
		err := tx.Where("source_part_id = ? AND analog_part_id = ?", target, source).First(&mirror).Error
		if err == nil && mirror.IsDirect {
			if err := tx.Delete(&mirror).Error; err != nil {
				return fmt.Errorf("remove mirror edge %d->%d: %w", target, source, err)
			}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return upsertEdge(tx, source, target, false, notes)
	})
}

// RemoveEdge deletes the (a, b) edge; when the edge is direct the (b, a)
// mirror goes with it. Removing an absent edge returns ErrNotFound.
func (g *Graph) RemoveEdge(ctx context.Context, a, b uint) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var edge model.PartAnalog
		err := tx.Where("source_part_id = ? AND analog_part_id = ?", a, b).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("analog edge %d->%d: %w", a, b, apperr.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&edge).Error; err != nil {
			return fmt.Errorf("remove edge %d->%d: %w", a, b, err)
		}
		if edge.IsDirect {
			if err := tx.Where("source_part_id = ? AND analog_part_id = ?", b, a).
				Delete(&model.PartAnalog{}).Error; err != nil {
				return fmt.Errorf("remove mirror edge %d->%d: %w", b, a, err)
			}
		}
		return nil
	})
}

// Resolve returns the parts related to partID: the direct tier first, then
// the indirect tier one extra hop out, each ordered by ascending part id.
// The hop count is fixed at two; analogs of analogs of analogs are not
// interchangeable enough to surface. An unknown part id yields an empty
// result, not an error.
func (g *Graph) Resolve(ctx context.Context, partID uint) ([]Relation, error) {
	direct, err := g.neighbors(ctx, []uint{partID})
	if err != nil {
		return nil, err
	}
	directSet := make(map[uint]bool, len(direct))
	var directIDs []uint
	for _, ids := range direct {
		for _, id := range ids {
			if id == partID || directSet[id] {
				continue
			}
			directSet[id] = true
			directIDs = append(directIDs, id)
		}
	}

	var indirectIDs []uint
	if len(directIDs) > 0 {
		second, err := g.neighbors(ctx, directIDs)
		if err != nil {
			return nil, err
		}
		seen := make(map[uint]bool)
		for _, ids := range second {
			for _, id := range ids {
				if id == partID || directSet[id] || seen[id] {
					continue
				}
				seen[id] = true
				indirectIDs = append(indirectIDs, id)
			}
		}
	}

	sort.Slice(directIDs, func(i, j int) bool { return directIDs[i] < directIDs[j] })
	sort.Slice(indirectIDs, func(i, j int) bool { return indirectIDs[i] < indirectIDs[j] })

	parts, err := g.parts.GetByIDs(ctx, append(append([]uint{}, directIDs...), indirectIDs...))
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Part, len(parts))
	for _, p := range parts {
		byID[p.ID] = p
	}

	result := make([]Relation, 0, len(directIDs)+len(indirectIDs))
	for _, id := range directIDs {
		if p, ok := byID[id]; ok {
			result = append(result, Relation{Part: p, RelationType: RelationDirect})
		}
	}
	for _, id := range indirectIDs {
		if p, ok := byID[id]; ok {
			result = append(result, Relation{Part: p, RelationType: RelationIndirect})
		}
	}
	return result, nil
}

// neighbors loads the direct set for every id in ids with one query. Direct
// edges count from either endpoint; substitute edges only from their source
// side, so a substitute never creates a reverse path.
func (g *Graph) neighbors(ctx context.Context, ids []uint) (map[uint][]uint, error) {
	var edges []model.PartAnalog
	err := g.db.WithContext(ctx).
		Where("source_part_id IN ?", ids).
		Or("is_direct = ? AND analog_part_id IN ?", true, ids).
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("load analog edges: %w", err)
	}

	in := make(map[uint]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	out := make(map[uint][]uint, len(ids))
	for _, e := range edges {
		if in[e.SourcePartID] {
			out[e.SourcePartID] = append(out[e.SourcePartID], e.AnalogPartID)
		}
		if e.IsDirect && in[e.AnalogPartID] {
			out[e.AnalogPartID] = append(out[e.AnalogPartID], e.SourcePartID)
		}
	}
	return out, nil
}

func upsertEdge(tx *gorm.DB, source, target uint, isDirect bool, notes string) error {
	var edge model.PartAnalog
	err := tx.Where("source_part_id = ? AND analog_part_id = ?", source, target).First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		edge = model.PartAnalog{
			SourcePartID: source,
			AnalogPartID: target,
			IsDirect:     isDirect,
			Notes:        notes,
			IsVerified:   true,
		}
		if err := tx.Create(&edge).Error; err != nil {
			return fmt.Errorf("create analog edge %d->%d: %w", source, target, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	edge.IsDirect = isDirect
	edge.Notes = notes
	edge.IsVerified = true
	if err := tx.Save(&edge).Error; err != nil {
		return fmt.Errorf("update analog edge %d->%d: %w", source, target, err)
	}
	return nil
}
