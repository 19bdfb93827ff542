package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
	"github.com/KentHall303/ct-dispatch-api/pkg/storage"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	appts := &fakeAppointmentRepo{appts: []models.Appointment{
		{ID: "a1", Title: "Install", SubcontractorID: "sub-a", StartAt: tm(2025, 9, 8, 9, 0), EndAt: tm(2025, 9, 8, 10, 30), Status: models.StatusScheduled},
	}}
	subs := &fakeSubcontractorRepo{subs: []models.Subcontractor{{ID: "sub-a", Name: "Alpha", Active: true}}}

	return NewExportService(appts, subs, store, signer, ExportConfig{APIPrefix: "/api/v1"}, zap.NewNop(), nil, nil)
}

func TestExportGenerateDaySheetCSV(t *testing.T) {
	svc := newExportFixture(t)

	resp, err := svc.GenerateDaySheet(context.Background(), "2025-09-08", ExportFormatCSV, nil)
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, resp.Format)
	assert.True(t, strings.HasPrefix(resp.URL, "/api/v1/exports/download/"))
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	token := strings.TrimPrefix(resp.URL, "/api/v1/exports/download/")
	_, relPath, _, err := svc.ParseToken(token, false)
	require.NoError(t, err)

	f, err := svc.Open(relPath)
	require.NoError(t, err)
	defer f.Close()
	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alpha")
	assert.Contains(t, string(data), "Install")
	assert.Contains(t, string(data), "09:00")
}

func TestExportGenerateDaySheetPDF(t *testing.T) {
	svc := newExportFixture(t)

	resp, err := svc.GenerateDaySheet(context.Background(), "2025-09-08", ExportFormatPDF, nil)
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, resp.Format)
	assert.True(t, strings.HasSuffix(resp.FileName, ".pdf"))
}

func TestExportGenerateDaySheetRejectsFormat(t *testing.T) {
	svc := newExportFixture(t)
	_, err := svc.GenerateDaySheet(context.Background(), "2025-09-08", "xlsx", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportGenerateDaySheetRejectsBadDate(t *testing.T) {
	svc := newExportFixture(t)
	_, err := svc.GenerateDaySheet(context.Background(), "September 8", ExportFormatCSV, nil)
	require.Error(t, err)
}
