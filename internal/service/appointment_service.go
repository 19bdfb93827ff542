package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/KentHall303/ct-dispatch-api/internal/dto"
	"github.com/KentHall303/ct-dispatch-api/internal/models"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
)

type appointmentRepository interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Create(ctx context.Context, appt *models.Appointment) error
	Patch(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// AppointmentService provides CRUD use cases for board appointments.
type AppointmentService struct {
	repo      appointmentRepository
	subs      dispatchSubcontractorRepository
	boards    *BoardService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAppointmentService constructs an AppointmentService instance.
func NewAppointmentService(repo appointmentRepository, subs dispatchSubcontractorRepository, boards *BoardService, validate *validator.Validate, logger *zap.Logger) *AppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AppointmentService{repo: repo, subs: subs, boards: boards, validator: validate, logger: logger}
}

// List returns appointments matching the filter with pagination metadata.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, *models.Pagination, error) {
	appts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return appts, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one appointment.
func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	return appt, nil
}

// Create persists a new appointment after validating its time range, status
// and owning row.
func (s *AppointmentService) Create(ctx context.Context, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload")
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "end must be after start")
	}

	status := models.StatusScheduled
	if req.Status != "" {
		status = models.AppointmentStatus(req.Status)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown appointment status")
		}
	}

	if _, err := s.subs.GetByID(ctx, req.SubcontractorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subcontractor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subcontractor")
	}

	appt := &models.Appointment{
		Title:           req.Title,
		SubcontractorID: req.SubcontractorID,
		StartAt:         req.StartAt.UTC(),
		EndAt:           req.EndAt.UTC(),
		Status:          status,
		AllDay:          req.AllDay,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment")
	}

	s.boards.InvalidateRange(ctx, *appt)
	s.logger.Info("appointment created", zap.String("appointment_id", appt.ID))
	return appt, nil
}

// Update applies a partial appointment update.
func (s *AppointmentService) Update(ctx context.Context, id string, req dto.UpdateAppointmentRequest) (*models.Appointment, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := models.AppointmentPatch{
		Title:           req.Title,
		SubcontractorID: req.SubcontractorID,
		StartAt:         normalizeUTC(req.StartAt),
		EndAt:           normalizeUTC(req.EndAt),
		Notes:           req.Notes,
	}
	if req.Status != nil {
		status := models.AppointmentStatus(*req.Status)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown appointment status")
		}
		patch.Status = &status
	}

	start := existing.StartAt
	end := existing.EndAt
	if patch.StartAt != nil {
		start = *patch.StartAt
	}
	if patch.EndAt != nil {
		end = *patch.EndAt
	}
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "end must be after start")
	}

	if patch.SubcontractorID != nil {
		if _, err := s.subs.GetByID(ctx, *patch.SubcontractorID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "subcontractor not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subcontractor")
		}
	}

	updated, err := s.repo.Patch(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appointment")
	}

	s.boards.InvalidateRange(ctx, *existing, *updated)
	return updated, nil
}

// Delete removes an appointment.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete appointment")
	}
	s.boards.InvalidateRange(ctx, *existing)
	s.logger.Info("appointment deleted", zap.String("appointment_id", id))
	return nil
}

func normalizeUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
