package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/KentHall303/ct-dispatch-api/internal/board"
	"github.com/KentHall303/ct-dispatch-api/internal/dto"
	"github.com/KentHall303/ct-dispatch-api/internal/models"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
)

type dispatchAppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Patch(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error)
}

type dispatchSubcontractorRepository interface {
	GetByID(ctx context.Context, id string) (*models.Subcontractor, error)
}

// DispatchService commits drag-and-drop and resize gestures from the board.
// All layout math is delegated to the board package; this layer adds the
// persistence round-trip and cache invalidation.
type DispatchService struct {
	appts     dispatchAppointmentRepository
	subs      dispatchSubcontractorRepository
	boards    *BoardService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDispatchService constructs a DispatchService instance.
func NewDispatchService(appts dispatchAppointmentRepository, subs dispatchSubcontractorRepository, boards *BoardService, validate *validator.Validate, logger *zap.Logger) *DispatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DispatchService{appts: appts, subs: subs, boards: boards, validator: validate, logger: logger}
}

// Drop reschedules an appointment onto a (row, cell) target. The appointment
// keeps its exact duration; only the start instant and owning row change.
// Dropping back on the original row and time is accepted as a no-op.
func (s *DispatchService) Drop(ctx context.Context, appointmentID string, req dto.DropRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop payload")
	}

	day, err := time.ParseInLocation(boardDateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be formatted YYYY-MM-DD")
	}

	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	sub, err := s.subs.GetByID(ctx, req.SubcontractorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target subcontractor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subcontractor")
	}
	if !sub.Active {
		return nil, appErrors.Clone(appErrors.ErrUpdateRejected, "target subcontractor is inactive")
	}

	grid := s.boards.Grid()
	hour := grid.Quantize(req.TargetHour)
	if hour < float64(grid.StartHour) || hour >= float64(grid.EndHour) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "target hour is outside the board window")
	}

	update := board.Reschedule(*appt, sub.ID, day, hour)
	updated, err := s.appts.Patch(ctx, appt.ID, models.AppointmentPatch{
		SubcontractorID: &update.SubcontractorID,
		StartAt:         &update.StartAt,
		EndAt:           &update.EndAt,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist drop")
	}

	s.boards.InvalidateRange(ctx, *appt, *updated)
	s.logger.Info("appointment dropped",
		zap.String("appointment_id", appt.ID),
		zap.String("subcontractor_id", sub.ID),
		zap.Time("start_at", update.StartAt))
	return updated, nil
}

// Resize commits a trailing-edge resize. The duration is snapped to the grid
// increment and floored at one snap unit. The start instant and owner are
// never touched.
func (s *DispatchService) Resize(ctx context.Context, appointmentID string, req dto.ResizeRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resize payload")
	}

	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	session, err := board.BeginResize(s.boards.Grid(), *appt, 0, req.PixelsPerHour)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resize scale")
	}

	update := session.End(req.PointerDeltaPx)
	if !update.EndAt.After(appt.StartAt) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "resize would invert the appointment")
	}

	updated, err := s.appts.Patch(ctx, appt.ID, models.AppointmentPatch{EndAt: &update.EndAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist resize")
	}

	s.boards.InvalidateRange(ctx, *appt, *updated)
	s.logger.Info("appointment resized",
		zap.String("appointment_id", appt.ID),
		zap.Time("end_at", update.EndAt))
	return updated, nil
}

func (s *DispatchService) loadAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	return appt, nil
}
