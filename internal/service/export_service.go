package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KentHall303/ct-dispatch-api/internal/dto"
	"github.com/KentHall303/ct-dispatch-api/internal/models"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
	"github.com/KentHall303/ct-dispatch-api/pkg/export"
	"github.com/KentHall303/ct-dispatch-api/pkg/storage"
)

// Supported day-sheet formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes day-sheet export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders printable day sheets from the board's appointments
// and hands out signed download URLs.
type ExportService struct {
	appts   boardAppointmentRepository
	subs    boardSubcontractorRepository
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(appts boardAppointmentRepository, subs boardSubcontractorRepository, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		appts:   appts,
		subs:    subs,
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// GenerateDaySheet renders the appointments of one board day into a
// downloadable file and returns its signed URL.
func (s *ExportService) GenerateDaySheet(ctx context.Context, date, format string, subcontractorIDs []string) (*dto.ExportResponse, error) {
	day, err := time.ParseInLocation(boardDateLayout, date, time.UTC)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be formatted YYYY-MM-DD")
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	dataset, err := s.buildDataset(ctx, day, subcontractorIDs)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Dispatch Day Sheet %s", date)
	var payload []byte
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render day sheet")
	}

	exportID := uuid.NewString()
	filename := fmt.Sprintf("daysheet-%s-%s.%s", date, exportID[:8], format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store day sheet")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("day sheet generated",
		zap.String("date", date),
		zap.String("format", format),
		zap.String("file", relPath))

	return &dto.ExportResponse{
		FileName:  filename,
		Format:    format,
		URL:       fmt.Sprintf("%s/exports/download/%s", prefix, token),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, day time.Time, subcontractorIDs []string) (export.Dataset, error) {
	active := true
	subs, err := s.subs.List(ctx, models.SubcontractorFilter{Active: &active})
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subcontractors")
	}

	nameByID := make(map[string]string, len(subs))
	ids := make([]string, 0, len(subs))
	requested := map[string]bool{}
	for _, id := range subcontractorIDs {
		requested[id] = true
	}
	for _, sub := range subs {
		if len(requested) > 0 && !requested[sub.ID] {
			continue
		}
		nameByID[sub.ID] = sub.Name
		ids = append(ids, sub.ID)
	}

	var appts []models.Appointment
	if len(ids) > 0 {
		appts, err = s.appts.ListWindow(ctx, ids, day, day.Add(24*time.Hour))
		if err != nil {
			return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointments")
		}
	}

	headers := []string{"Subcontractor", "Title", "Start", "End", "Status", "Notes"}
	rows := make([]map[string]string, 0, len(appts))
	for _, appt := range appts {
		notes := ""
		if appt.Notes != nil {
			notes = *appt.Notes
		}
		rows = append(rows, map[string]string{
			"Subcontractor": nameByID[appt.SubcontractorID],
			"Title":         appt.Title,
			"Start":         appt.StartAt.UTC().Format("15:04"),
			"End":           appt.EndAt.UTC().Format("15:04"),
			"Status":        string(appt.Status),
			"Notes":         notes,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to a stored day sheet.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup deletes day sheets older than the configured TTL.
func (s *ExportService) Cleanup() {
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("day sheet cleanup failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("day sheets cleaned up", zap.Int("count", len(removed)))
	}
}
