// Package moderation turns pending user suggestions into verified graph
// edges, or into rejection records. Approval is all-or-nothing: every graph
// mutation and the status flip commit in one transaction, and any failure
// leaves the suggestion pending with no partial edges behind.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"parts-service/internal/analog"
	"parts-service/internal/apperr"
	"parts-service/internal/catalog"
	"parts-service/internal/compat"
	"parts-service/internal/model"
)

type Workflow struct {
	db     *gorm.DB
	graph  *analog.Graph
	compat *compat.Index
	parts  *catalog.Store
	log    *zap.Logger
}

func NewWorkflow(db *gorm.DB, graph *analog.Graph, index *compat.Index, parts *catalog.Store, log *zap.Logger) *Workflow {
	return &Workflow{db: db, graph: graph, compat: index, parts: parts, log: log}
}

// SubmitInput carries a new user suggestion.
type SubmitInput struct {
	Type         model.SuggestionType
	AuthorID     uint
	SourcePartID uint
	TargetPartID *uint

	ProposedNumber       string
	ProposedManufacturer string
	ProposedDescription  string
	IsDirect             bool

	CarModelID  *uint
	CarEngineID *uint
	StartYear   *int
	EndYear     *int

	Comment string
}

// Submit records a pending suggestion. The referenced source part must
// exist; an analog suggestion needs either a target part or a proposed
// number and manufacturer, and may not point back at its source.
func (w *Workflow) Submit(ctx context.Context, in SubmitInput) (*model.Suggestion, error) {
	source, err := w.parts.GetByID(ctx, in.SourcePartID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("source part %d: %w", in.SourcePartID, apperr.ErrNotFound)
	}

	switch in.Type {
	case model.SuggestionAnalog:
		if in.TargetPartID != nil && *in.TargetPartID == in.SourcePartID {
			return nil, fmt.Errorf("analog suggestion for part %d targets itself: %w", in.SourcePartID, apperr.ErrInvalidRelation)
		}
		if in.TargetPartID == nil && (in.ProposedNumber == "" || in.ProposedManufacturer == "") {
			return nil, fmt.Errorf("analog suggestion needs a target part or a proposed number and manufacturer: %w", apperr.ErrInvalidRelation)
		}
	case model.SuggestionCompatibility:
		if in.CarModelID == nil {
			return nil, fmt.Errorf("compatibility suggestion needs a car model: %w", apperr.ErrMissingReference)
		}
	default:
		return nil, fmt.Errorf("suggestion type %q: %w", in.Type, apperr.ErrConstraintViolation)
	}

	s := model.Suggestion{
		Type:                 in.Type,
		AuthorID:             in.AuthorID,
		SourcePartID:         in.SourcePartID,
		TargetPartID:         in.TargetPartID,
		CarModelID:           in.CarModelID,
		ProposedNumber:       in.ProposedNumber,
		ProposedManufacturer: in.ProposedManufacturer,
		ProposedDescription:  in.ProposedDescription,
		IsDirect:             in.IsDirect,
		CarEngineID:          in.CarEngineID,
		StartYear:            in.StartYear,
		EndYear:              in.EndYear,
		Status:               model.SuggestionPending,
		Comment:              in.Comment,
	}
	if err := w.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}
	return &s, nil
}

// Approve moves a pending suggestion to approved and applies its relation
// to the graph. For an analog suggestion without a resolved target the
// proposed part is looked up by (number, manufacturer) and created when
// absent, inheriting the source part's category with zero price and stock.
// Any failure rolls the whole unit back and the suggestion stays pending.
func (w *Workflow) Approve(ctx context.Context, suggestionID, moderatorID uint) (*model.Suggestion, error) {
	var s model.Suggestion
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, suggestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("suggestion %d: %w", suggestionID, apperr.ErrNotFound)
			}
			return err
		}
		if s.Status != model.SuggestionPending {
			return fmt.Errorf("suggestion %d is %s: %w", s.ID, s.Status, apperr.ErrInvalidStateTransition)
		}

		switch s.Type {
		case model.SuggestionAnalog:
			if err := w.applyAnalog(ctx, tx, &s); err != nil {
				return err
			}
		case model.SuggestionCompatibility:
			if s.CarModelID == nil {
				return fmt.Errorf("suggestion %d has no car model: %w", s.ID, apperr.ErrMissingReference)
			}
			err := w.compat.WithTx(tx).UpsertCompatibility(
				ctx, s.SourcePartID, *s.CarModelID, s.CarEngineID, s.StartYear, s.EndYear, s.Comment)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("suggestion %d type %q: %w", s.ID, s.Type, apperr.ErrConstraintViolation)
		}

		now := time.Now()
		s.Status = model.SuggestionApproved
		s.ModeratorID = &moderatorID
		s.ModeratedAt = &now
		return tx.Save(&s).Error
	})
	if err != nil {
		w.log.Warn("suggestion approval failed",
			zap.Uint("suggestion_id", suggestionID),
			zap.Uint("moderator_id", moderatorID),
			zap.Error(err))
		return nil, err
	}

	w.log.Info("suggestion approved",
		zap.Uint("suggestion_id", s.ID),
		zap.String("type", string(s.Type)),
		zap.Uint("moderator_id", moderatorID))
	return &s, nil
}

func (w *Workflow) applyAnalog(ctx context.Context, tx *gorm.DB, s *model.Suggestion) error {
	parts := w.parts.WithTx(tx)

	source, err := parts.GetByID(ctx, s.SourcePartID)
	if err != nil {
		return err
	}
	if source == nil {
		return fmt.Errorf("source part %d: %w", s.SourcePartID, apperr.ErrMissingReference)
	}

	if s.TargetPartID == nil {
		target, err := parts.FindByNumberAndManufacturer(ctx, s.ProposedNumber, s.ProposedManufacturer)
		if err != nil {
			return err
		}
		if target == nil {
			target = &model.Part{
				PartNumber:   s.ProposedNumber,
				Manufacturer: s.ProposedManufacturer,
				Name:         s.ProposedNumber,
				Description:  s.ProposedDescription,
				CategoryID:   source.CategoryID,
				IsAvailable:  true,
			}
			if err := parts.Create(ctx, target); err != nil {
				return err
			}
			w.log.Info("created part from suggestion",
				zap.Uint("suggestion_id", s.ID),
				zap.Uint("part_id", target.ID),
				zap.String("part_number", target.PartNumber))
		}
		s.TargetPartID = &target.ID
	}

	graph := w.graph.WithTx(tx)
	if s.IsDirect {
		return graph.UpsertDirectEdge(ctx, s.SourcePartID, *s.TargetPartID, s.Comment)
	}
	return graph.UpsertSubstituteEdge(ctx, s.SourcePartID, *s.TargetPartID, s.Comment)
}

// Reject moves a pending suggestion to rejected with the moderator's
// comment. The graph is untouched.
func (w *Workflow) Reject(ctx context.Context, suggestionID, moderatorID uint, comment string) (*model.Suggestion, error) {
	var s model.Suggestion
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, suggestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("suggestion %d: %w", suggestionID, apperr.ErrNotFound)
			}
			return err
		}
		if s.Status != model.SuggestionPending {
			return fmt.Errorf("suggestion %d is %s: %w", s.ID, s.Status, apperr.ErrInvalidStateTransition)
		}

		now := time.Now()
		s.Status = model.SuggestionRejected
		s.ModeratorID = &moderatorID
		s.ModeratedAt = &now
		s.Comment = comment
		return tx.Save(&s).Error
	})
	if err != nil {
		return nil, err
	}

	w.log.Info("suggestion rejected",
		zap.Uint("suggestion_id", s.ID),
		zap.Uint("moderator_id", moderatorID))
	return &s, nil
}

// List returns suggestions filtered by status, newest first. An empty
// status returns everything.
func (w *Workflow) List(ctx context.Context, status model.SuggestionStatus) ([]model.Suggestion, error) {
	var suggestions []model.Suggestion
	tx := w.db.WithContext(ctx)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err := tx.Order("created_at DESC").Find(&suggestions).Error; err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return suggestions, nil
}
