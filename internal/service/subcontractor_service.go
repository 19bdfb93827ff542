package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/KentHall303/ct-dispatch-api/internal/dto"
	"github.com/KentHall303/ct-dispatch-api/internal/models"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
)

type subcontractorRepository interface {
	List(ctx context.Context, filter models.SubcontractorFilter) ([]models.Subcontractor, error)
	GetByID(ctx context.Context, id string) (*models.Subcontractor, error)
	Create(ctx context.Context, sub *models.Subcontractor) error
	Update(ctx context.Context, sub *models.Subcontractor) error
}

// SubcontractorRow pairs a subcontractor with its derived board color.
type SubcontractorRow struct {
	models.Subcontractor
	ColorClass string `json:"color_class"`
}

// SubcontractorService manages board row owners.
type SubcontractorService struct {
	repo   subcontractorRepository
	boards *BoardService
	logger *zap.Logger
}

// NewSubcontractorService constructs a SubcontractorService instance.
func NewSubcontractorService(repo subcontractorRepository, boards *BoardService, logger *zap.Logger) *SubcontractorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubcontractorService{repo: repo, boards: boards, logger: logger}
}

// List returns subcontractors with their deterministic palette colors. The
// color follows the row's position in the stable listing order, so it stays
// fixed while the roster is unchanged.
func (s *SubcontractorService) List(ctx context.Context, filter models.SubcontractorFilter) ([]SubcontractorRow, error) {
	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subcontractors")
	}
	rows := make([]SubcontractorRow, len(subs))
	for i, sub := range subs {
		rows[i] = SubcontractorRow{Subcontractor: sub, ColorClass: models.ColorClassForIndex(i)}
	}
	return rows, nil
}

// Get loads one subcontractor.
func (s *SubcontractorService) Get(ctx context.Context, id string) (*models.Subcontractor, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subcontractor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subcontractor")
	}
	return sub, nil
}

// Create registers a new board row owner.
func (s *SubcontractorService) Create(ctx context.Context, req dto.CreateSubcontractorRequest) (*models.Subcontractor, error) {
	sub := &models.Subcontractor{
		Name:      req.Name,
		Phone:     req.Phone,
		Active:    true,
		SortOrder: req.SortOrder,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subcontractor")
	}
	s.logger.Info("subcontractor created", zap.String("subcontractor_id", sub.ID))
	return sub, nil
}

// Update patches a subcontractor and invalidates cached boards, since a row
// rename or deactivation changes every day's render model.
func (s *SubcontractorService) Update(ctx context.Context, id string, req dto.UpdateSubcontractorRequest) (*models.Subcontractor, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sub.Name = *req.Name
	}
	if req.Phone != nil {
		sub.Phone = req.Phone
	}
	if req.Active != nil {
		sub.Active = *req.Active
	}
	if req.SortOrder != nil {
		sub.SortOrder = *req.SortOrder
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subcontractor")
	}

	if s.boards != nil && s.boards.cache.Enabled() {
		if err := s.boards.cache.Invalidate(ctx, "board:*"); err != nil {
			s.logger.Warn("failed to invalidate board cache", zap.Error(err))
		}
	}
	return sub, nil
}
