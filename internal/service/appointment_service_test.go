package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KentHall303/ct-dispatch-api/internal/dto"
	"github.com/KentHall303/ct-dispatch-api/internal/models"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
)

func newAppointmentFixture(appts []models.Appointment, subs []models.Subcontractor) (*AppointmentService, *fakeAppointmentRepo) {
	apptRepo := &fakeAppointmentRepo{appts: appts}
	subRepo := &fakeSubcontractorRepo{subs: subs}
	boards := NewBoardService(apptRepo, subRepo, nil, nil, zap.NewNop(), testBoardConfig())
	return NewAppointmentService(apptRepo, subRepo, boards, nil, zap.NewNop()), apptRepo
}

func TestAppointmentCreate(t *testing.T) {
	svc, repo := newAppointmentFixture(nil, []models.Subcontractor{{ID: "sub-a", Active: true}})

	appt, err := svc.Create(context.Background(), dto.CreateAppointmentRequest{
		Title:           "Install",
		SubcontractorID: "sub-a",
		StartAt:         tm(2025, 9, 8, 9, 0),
		EndAt:           tm(2025, 9, 8, 10, 0),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Len(t, repo.appts, 1)
}

func TestAppointmentCreateValidatesPayload(t *testing.T) {
	svc, _ := newAppointmentFixture(nil, []models.Subcontractor{{ID: "sub-a", Active: true}})

	_, err := svc.Create(context.Background(), dto.CreateAppointmentRequest{
		SubcontractorID: "sub-a",
		StartAt:         tm(2025, 9, 8, 9, 0),
		EndAt:           tm(2025, 9, 8, 10, 0),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAppointmentCreateRejectsInvertedRange(t *testing.T) {
	svc, _ := newAppointmentFixture(nil, []models.Subcontractor{{ID: "sub-a", Active: true}})

	_, err := svc.Create(context.Background(), dto.CreateAppointmentRequest{
		Title:           "Install",
		SubcontractorID: "sub-a",
		StartAt:         tm(2025, 9, 8, 10, 0),
		EndAt:           tm(2025, 9, 8, 9, 0),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTimeRange.Code, appErrors.FromError(err).Code)
}

func TestAppointmentCreateRejectsUnknownStatus(t *testing.T) {
	svc, _ := newAppointmentFixture(nil, []models.Subcontractor{{ID: "sub-a", Active: true}})

	_, err := svc.Create(context.Background(), dto.CreateAppointmentRequest{
		Title:           "Install",
		SubcontractorID: "sub-a",
		StartAt:         tm(2025, 9, 8, 9, 0),
		EndAt:           tm(2025, 9, 8, 10, 0),
		Status:          "WAT",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAppointmentUpdateValidatesCombinedRange(t *testing.T) {
	svc, _ := newAppointmentFixture(
		[]models.Appointment{{
			ID: "a1", SubcontractorID: "sub-a",
			StartAt: tm(2025, 9, 8, 9, 0), EndAt: tm(2025, 9, 8, 10, 0),
		}},
		[]models.Subcontractor{{ID: "sub-a", Active: true}},
	)

	// moving the end before the untouched start must fail
	bad := tm(2025, 9, 8, 8, 0)
	_, err := svc.Update(context.Background(), "a1", dto.UpdateAppointmentRequest{EndAt: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTimeRange.Code, appErrors.FromError(err).Code)

	good := tm(2025, 9, 8, 11, 0)
	updated, err := svc.Update(context.Background(), "a1", dto.UpdateAppointmentRequest{EndAt: &good})
	require.NoError(t, err)
	assert.Equal(t, good, updated.EndAt)
}

func TestAppointmentDelete(t *testing.T) {
	svc, repo := newAppointmentFixture(
		[]models.Appointment{{
			ID: "a1", SubcontractorID: "sub-a",
			StartAt: tm(2025, 9, 8, 9, 0), EndAt: tm(2025, 9, 8, 10, 0),
		}},
		[]models.Subcontractor{{ID: "sub-a", Active: true}},
	)

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.Empty(t, repo.appts)

	err := svc.Delete(context.Background(), "a1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
