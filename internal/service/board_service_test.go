package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
	"github.com/KentHall303/ct-dispatch-api/pkg/config"
)

type fakeAppointmentRepo struct {
	appts     []models.Appointment
	windowErr error

	patched map[string]models.AppointmentPatch
	marked  int64
	markErr error
}

func (f *fakeAppointmentRepo) ListWindow(_ context.Context, subIDs []string, from, to time.Time) ([]models.Appointment, error) {
	if f.windowErr != nil {
		return nil, f.windowErr
	}
	allowed := map[string]bool{}
	for _, id := range subIDs {
		allowed[id] = true
	}
	var out []models.Appointment
	for _, a := range f.appts {
		if len(allowed) > 0 && !allowed[a.SubcontractorID] {
			continue
		}
		if a.StartAt.Before(to) && a.EndAt.After(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ models.AppointmentFilter) ([]models.Appointment, int, error) {
	return f.appts, len(f.appts), nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == id {
			a := f.appts[i]
			return &a, nil
		}
	}
	return nil, errNoRows
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = "generated"
	}
	f.appts = append(f.appts, *appt)
	return nil
}

func (f *fakeAppointmentRepo) Patch(_ context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.appts[i].Title = *patch.Title
		}
		if patch.SubcontractorID != nil {
			f.appts[i].SubcontractorID = *patch.SubcontractorID
		}
		if patch.StartAt != nil {
			f.appts[i].StartAt = *patch.StartAt
		}
		if patch.EndAt != nil {
			f.appts[i].EndAt = *patch.EndAt
		}
		if patch.Status != nil {
			f.appts[i].Status = *patch.Status
		}
		if patch.Notes != nil {
			f.appts[i].Notes = patch.Notes
		}
		if f.patched == nil {
			f.patched = map[string]models.AppointmentPatch{}
		}
		f.patched[id] = patch
		a := f.appts[i]
		return &a, nil
	}
	return nil, errNoRows
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id string) error {
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts = append(f.appts[:i], f.appts[i+1:]...)
			return nil
		}
	}
	return errNoRows
}

func (f *fakeAppointmentRepo) MarkOverdue(context.Context, time.Time) (int64, error) {
	return f.marked, f.markErr
}

type fakeSubcontractorRepo struct {
	subs []models.Subcontractor
	err  error
}

func (f *fakeSubcontractorRepo) List(_ context.Context, filter models.SubcontractorFilter) ([]models.Subcontractor, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Subcontractor
	for _, s := range f.subs {
		if filter.Active != nil && s.Active != *filter.Active {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubcontractorRepo) GetByID(_ context.Context, id string) (*models.Subcontractor, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.subs {
		if f.subs[i].ID == id {
			s := f.subs[i]
			return &s, nil
		}
	}
	return nil, errNoRows
}

func (f *fakeSubcontractorRepo) Create(_ context.Context, sub *models.Subcontractor) error {
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeSubcontractorRepo) Update(_ context.Context, sub *models.Subcontractor) error {
	for i := range f.subs {
		if f.subs[i].ID == sub.ID {
			f.subs[i] = *sub
			return nil
		}
	}
	return errNoRows
}

var errNoRows = sql.ErrNoRows

func testBoardConfig() config.BoardConfig {
	return config.BoardConfig{
		StartHour:      7,
		EndHour:        21,
		SnapMinutes:    30,
		EventHeightPx:  28,
		RowPaddingPx:   6,
		LayerGapPx:     4,
		MinRowHeightPx: 48,
	}
}

func tm(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestBoardServiceBuildDayComposesRows(t *testing.T) {
	subs := &fakeSubcontractorRepo{subs: []models.Subcontractor{
		{ID: "sub-a", Name: "Alpha", Active: true},
		{ID: "sub-b", Name: "Bravo", Active: true},
	}}
	appts := &fakeAppointmentRepo{appts: []models.Appointment{
		{ID: "a1", Title: "Install", SubcontractorID: "sub-a", StartAt: tm(2025, 9, 8, 9, 0), EndAt: tm(2025, 9, 8, 11, 0), Status: models.StatusScheduled},
		{ID: "a2", Title: "Repair", SubcontractorID: "sub-a", StartAt: tm(2025, 9, 8, 10, 0), EndAt: tm(2025, 9, 8, 12, 0), Status: models.StatusScheduled},
		{ID: "b1", Title: "Inspect", SubcontractorID: "sub-b", StartAt: tm(2025, 9, 8, 13, 0), EndAt: tm(2025, 9, 8, 14, 30), Status: models.StatusPending},
	}}

	svc := NewBoardService(appts, subs, nil, nil, zap.NewNop(), testBoardConfig())
	resp, cacheHit, err := svc.BuildDay(context.Background(), "2025-09-08", nil)
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, "2025-09-08", resp.Date)
	assert.Equal(t, 7, resp.StartHour)
	assert.Equal(t, 21, resp.EndHour)
	require.Len(t, resp.Rows, 2)

	rowA := resp.Rows[0]
	assert.Equal(t, "sub-a", rowA.SubcontractorID)
	assert.Equal(t, 2, rowA.LayerCount)
	// two layers: 2*6 padding + 2*28 events + 1*4 gap
	assert.Equal(t, 72, rowA.RowHeightPx)
	require.Len(t, rowA.Events, 2)
	assert.Equal(t, "a1", rowA.Events[0].ID)
	assert.Equal(t, 0, rowA.Events[0].Layer)
	assert.Equal(t, 6, rowA.Events[0].TopPx)
	assert.Equal(t, 1, rowA.Events[1].Layer)
	assert.Equal(t, 38, rowA.Events[1].TopPx)
	assert.InDelta(t, 100*2.0/14.0, rowA.Events[0].LeftPct, 1e-9)
	assert.InDelta(t, 100*2.0/14.0, rowA.Events[0].WidthPct, 1e-9)

	rowB := resp.Rows[1]
	assert.Equal(t, 1, rowB.LayerCount)
	assert.Equal(t, 48, rowB.RowHeightPx)
	require.Len(t, rowB.Events, 1)
	assert.Equal(t, "single", rowB.Events[0].Span)
	assert.True(t, rowB.Events[0].Resizable)
}

func TestBoardServiceBuildDayClipsMultiDay(t *testing.T) {
	subs := &fakeSubcontractorRepo{subs: []models.Subcontractor{{ID: "sub-a", Name: "Alpha", Active: true}}}
	appts := &fakeAppointmentRepo{appts: []models.Appointment{
		{ID: "long", Title: "Remodel", SubcontractorID: "sub-a", StartAt: tm(2025, 9, 8, 15, 0), EndAt: tm(2025, 9, 11, 10, 0), Status: models.StatusScheduled},
	}}
	svc := NewBoardService(appts, subs, nil, nil, zap.NewNop(), testBoardConfig())

	resp, cacheHit, err := svc.BuildDay(context.Background(), "2025-09-09", nil)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, resp.Rows, 1)
	require.Len(t, resp.Rows[0].Events, 1)
	ev := resp.Rows[0].Events[0]
	assert.Equal(t, "middle", ev.Span)
	assert.InDelta(t, 0, ev.LeftPct, 1e-9)
	assert.InDelta(t, 100, ev.WidthPct, 1e-9)
	assert.False(t, ev.Resizable)

	resp, _, err = svc.BuildDay(context.Background(), "2025-09-11", nil)
	require.NoError(t, err)
	ev = resp.Rows[0].Events[0]
	assert.Equal(t, "end", ev.Span)
	assert.True(t, ev.Resizable)
}

func TestBoardServiceBuildDayExcludesOffGrid(t *testing.T) {
	subs := &fakeSubcontractorRepo{subs: []models.Subcontractor{{ID: "sub-a", Name: "Alpha", Active: true}}}
	appts := &fakeAppointmentRepo{appts: []models.Appointment{
		{ID: "late", Title: "Night run", SubcontractorID: "sub-a", StartAt: tm(2025, 9, 8, 22, 0), EndAt: tm(2025, 9, 8, 23, 0), Status: models.StatusScheduled},
	}}
	svc := NewBoardService(appts, subs, nil, nil, zap.NewNop(), testBoardConfig())

	resp, cacheHit, err := svc.BuildDay(context.Background(), "2025-09-08", nil)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, resp.Rows, 1)
	assert.Empty(t, resp.Rows[0].Events)
	assert.Equal(t, 1, resp.Rows[0].LayerCount)
	assert.Equal(t, 48, resp.Rows[0].RowHeightPx)
}

func TestBoardServiceBuildDayFiltersRows(t *testing.T) {
	subs := &fakeSubcontractorRepo{subs: []models.Subcontractor{
		{ID: "sub-a", Name: "Alpha", Active: true},
		{ID: "sub-b", Name: "Bravo", Active: true},
		{ID: "sub-c", Name: "Charlie", Active: false},
	}}
	svc := NewBoardService(&fakeAppointmentRepo{}, subs, nil, nil, zap.NewNop(), testBoardConfig())

	resp, cacheHit, err := svc.BuildDay(context.Background(), "2025-09-08", []string{"sub-b"})
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "sub-b", resp.Rows[0].SubcontractorID)
	// color derives from the full active roster, not the filtered view
	assert.Equal(t, models.ColorClassForIndex(1), resp.Rows[0].ColorClass)
}

func TestBoardServiceBuildDayRejectsBadDate(t *testing.T) {
	svc := NewBoardService(&fakeAppointmentRepo{}, &fakeSubcontractorRepo{}, nil, nil, zap.NewNop(), testBoardConfig())
	_, _, err := svc.BuildDay(context.Background(), "08-09-2025", nil)
	require.Error(t, err)
}
