// Package catalog implements the narrow part-store contract the core
// consumes: point reads, a (number, manufacturer) lookup and creation. It
// never touches stock or availability.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parts-service/internal/model"

	"gorm.io/gorm"
)

// SearchMode selects how a query string is matched against parts
type SearchMode string

const (
	ModeText    SearchMode = "text"
	ModeArticle SearchMode = "article"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a store bound to the given transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// GetByID returns the part or (nil, nil) when it does not exist.
func (s *Store) GetByID(ctx context.Context, id uint) (*model.Part, error) {
	var part model.Part
	err := s.db.WithContext(ctx).First(&part, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get part %d: %w", id, err)
	}
	return &part, nil
}

// GetByIDs returns the parts that exist among ids, in no particular order.
func (s *Store) GetByIDs(ctx context.Context, ids []uint) ([]model.Part, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var parts []model.Part
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("get parts by ids: %w", err)
	}
	return parts, nil
}

// FindByNumberAndManufacturer looks a part up by its manufacturer code,
// case-insensitively. Returns (nil, nil) when absent.
func (s *Store) FindByNumberAndManufacturer(ctx context.Context, number, manufacturer string) (*model.Part, error) {
	var part model.Part
	err := s.db.WithContext(ctx).
		Where("LOWER(part_number) = ? AND LOWER(manufacturer) = ?",
			strings.ToLower(number), strings.ToLower(manufacturer)).
		First(&part).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find part %s/%s: %w", number, manufacturer, err)
	}
	return &part, nil
}

// Create inserts a new part row.
func (s *Store) Create(ctx context.Context, part *model.Part) error {
	if err := s.db.WithContext(ctx).Create(part).Error; err != nil {
		return fmt.Errorf("create part %s: %w", part.PartNumber, err)
	}
	return nil
}

// Search runs the lookup behind the search resolver. Article mode matches
// the part number exactly or as a prefix; text mode matches substrings of
// name, description, part number and manufacturer. Both are
// case-insensitive.
func (s *Store) Search(ctx context.Context, query string, mode SearchMode) ([]model.Part, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var parts []model.Part
	tx := s.db.WithContext(ctx)
	switch mode {
	case ModeArticle:
		tx = tx.Where("LOWER(part_number) = ? OR LOWER(part_number) LIKE ?", q, q+"%")
	default:
		like := "%" + q + "%"
		tx = tx.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(part_number) LIKE ? OR LOWER(manufacturer) LIKE ?",
			like, like, like, like)
	}
	if err := tx.Order("id ASC").Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("search parts %q: %w", query, err)
	}
	return parts, nil
}
