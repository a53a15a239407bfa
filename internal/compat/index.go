// Package compat owns part/vehicle compatibility. Fitment is recorded in
// two places: part_compatibilities rows (model plus optional engine) and the
// legacy part_engines pivot (engine only). Reads merge the two so a part
// never shows the same model/engine pair twice; writes keep both in step.
package compat

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"parts-service/internal/apperr"
	"parts-service/internal/model"
)

// Entry is one row of a part's compatibility list, already joined to the
// vehicle reference tables and with the year range formatted for display.
type Entry struct {
	CarModelID  uint   `json:"car_model_id"`
	CarEngineID *uint  `json:"car_engine_id,omitempty"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Engine      string `json:"engine,omitempty"`
	Years       string `json:"years,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type Index struct {
	db *gorm.DB
}

func NewIndex(db *gorm.DB) *Index {
	return &Index{db: db}
}

// WithTx returns an index bound to the given transaction.
func (i *Index) WithTx(tx *gorm.DB) *Index {
	return &Index{db: tx}
}

// compatRow is the scan target for both read paths.
type compatRow struct {
	CarModelID  uint
	CarEngineID *uint
	Brand       string
	Model       string
	Engine      string
	StartYear   *int
	EndYear     *int
	Notes       string
}

// GetCompatibilities returns the verified fitment list for a part, merged
// across both storages and deduplicated by (model, engine). When an edge
// row and a pivot row resolve to the same pair, the edge row's notes win.
// Ordering is by brand, model, then engine name. An unknown part yields an
// empty list.
func (i *Index) GetCompatibilities(ctx context.Context, partID uint) ([]Entry, error) {
	var edgeRows []compatRow
	err := i.db.WithContext(ctx).
		Table("part_compatibilities pc").
		Select(`pc.car_model_id, pc.car_engine_id, cb.name AS brand, cm.name AS model,
			COALESCE(ce.name, '') AS engine, pc.start_year, pc.end_year, pc.notes`).
		Joins("JOIN car_models cm ON cm.id = pc.car_model_id").
		Joins("JOIN car_brands cb ON cb.id = cm.car_brand_id").
		Joins("LEFT JOIN car_engines ce ON ce.id = pc.car_engine_id").
		Where("pc.part_id = ? AND pc.is_verified = ?", partID, true).
		Scan(&edgeRows).Error
	if err != nil {
		return nil, fmt.Errorf("load compatibilities for part %d: %w", partID, err)
	}

	var pivotRows []compatRow
	err = i.db.WithContext(ctx).
		Table("part_engines pe").
		Select(`cm.id AS car_model_id, pe.car_engine_id, cb.name AS brand, cm.name AS model,
			ce.name AS engine, pe.notes`).
		Joins("JOIN car_engines ce ON ce.id = pe.car_engine_id").
		Joins("JOIN car_models cm ON cm.id = ce.car_model_id").
		Joins("JOIN car_brands cb ON cb.id = cm.car_brand_id").
		Where("pe.part_id = ?", partID).
		Scan(&pivotRows).Error
	if err != nil {
		return nil, fmt.Errorf("load engine pivot for part %d: %w", partID, err)
	}

	type key struct {
		modelID  uint
		engineID uint // 0 = all engines
	}
	merged := make(map[key]Entry)
	order := make([]key, 0, len(edgeRows)+len(pivotRows))

	add := func(r compatRow, preferExisting bool) {
		k := key{modelID: r.CarModelID}
		if r.CarEngineID != nil {
			k.engineID = *r.CarEngineID
		}
		if _, ok := merged[k]; ok && preferExisting {
			return
		}
		if _, ok := merged[k]; !ok {
			order = append(order, k)
		}
		merged[k] = Entry{
			CarModelID:  r.CarModelID,
			CarEngineID: r.CarEngineID,
			Brand:       r.Brand,
			Model:       r.Model,
			Engine:      r.Engine,
			Years:       FormatYearRange(r.StartYear, r.EndYear),
			Notes:       r.Notes,
		}
	}
	for _, r := range edgeRows {
		add(r, false)
	}
	for _, r := range pivotRows {
		// Edge-sourced notes take precedence over the legacy pivot.
		add(r, true)
	}

	entries := make([]Entry, 0, len(order))
	for _, k := range order {
		entries = append(entries, merged[k])
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Brand != entries[b].Brand {
			return entries[a].Brand < entries[b].Brand
		}
		if entries[a].Model != entries[b].Model {
			return entries[a].Model < entries[b].Model
		}
		return entries[a].Engine < entries[b].Engine
	})
	return entries, nil
}

// UpsertCompatibility records that a part fits a car model, optionally
// narrowed to one engine and a year range. The upsert is keyed on
// (part, model, engine) with a null engine counting as its own value. When
// an engine is given the legacy pivot row is written too, so both read
// paths stay consistent. Returns ErrMissingReference when the part, model
// or engine does not exist.
func (i *Index) UpsertCompatibility(ctx context.Context, partID, modelID uint, engineID *uint, startYear, endYear *int, notes string) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Part{}, partID, "part"); err != nil {
			return err
		}
		if err := mustExist(tx, &model.CarModel{}, modelID, "car model"); err != nil {
			return err
		}
		if engineID != nil {
			if err := mustExist(tx, &model.CarEngine{}, *engineID, "car engine"); err != nil {
				return err
			}
		}

		q := tx.Where("part_id = ? AND car_model_id = ?", partID, modelID)
		if engineID == nil {
			q = q.Where("car_engine_id IS NULL")
		} else {
			q = q.Where("car_engine_id = ?", *engineID)
		}

		var edge model.PartCompatibility
		err := q.First(&edge).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			edge = model.PartCompatibility{
				PartID:      partID,
				CarModelID:  modelID,
				CarEngineID: engineID,
				StartYear:   startYear,
				EndYear:     endYear,
				Notes:       notes,
				IsVerified:  true,
			}
			if err := tx.Create(&edge).Error; err != nil {
				return fmt.Errorf("create compatibility part=%d model=%d: %w", partID, modelID, err)
			}
		case err != nil:
			return err
		default:
			edge.StartYear = startYear
			edge.EndYear = endYear
			edge.Notes = notes
			edge.IsVerified = true
			if err := tx.Save(&edge).Error; err != nil {
				return fmt.Errorf("update compatibility part=%d model=%d: %w", partID, modelID, err)
			}
		}

		if engineID != nil {
			return upsertPivot(tx, partID, *engineID, notes)
		}
		return nil
	})
}

func upsertPivot(tx *gorm.DB, partID, engineID uint, notes string) error {
	var pivot model.PartEngine
	err := tx.Where("part_id = ? AND car_engine_id = ?", partID, engineID).First(&pivot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pivot = model.PartEngine{PartID: partID, CarEngineID: engineID, Notes: notes}
		if err := tx.Create(&pivot).Error; err != nil {
			return fmt.Errorf("create engine pivot part=%d engine=%d: %w", partID, engineID, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	pivot.Notes = notes
	if err := tx.Save(&pivot).Error; err != nil {
		return fmt.Errorf("update engine pivot part=%d engine=%d: %w", partID, engineID, err)
	}
	return nil
}

func mustExist(tx *gorm.DB, dest interface{}, id uint, what string) error {
	err := tx.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, apperr.ErrMissingReference)
	}
	return err
}

// FormatYearRange renders a fitment year range the way the catalog displays
// it: "2001-2008", "с 2001" for an open end, "до 2008" for an open start,
// and "" when no years are known.
func FormatYearRange(start, end *int) string {
	switch {
	case start != nil && end != nil:
		return fmt.Sprintf("%d-%d", *start, *end)
	case start != nil:
		return fmt.Sprintf("с %d", *start)
	case end != nil:
		return fmt.Sprintf("до %d", *end)
	default:
		return ""
	}
}
