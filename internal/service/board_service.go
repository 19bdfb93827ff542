package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KentHall303/ct-dispatch-api/internal/board"
	"github.com/KentHall303/ct-dispatch-api/internal/dto"
	"github.com/KentHall303/ct-dispatch-api/internal/models"
	"github.com/KentHall303/ct-dispatch-api/pkg/config"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
)

const boardDateLayout = "2006-01-02"

type boardAppointmentRepository interface {
	ListWindow(ctx context.Context, subcontractorIDs []string, from, to time.Time) ([]models.Appointment, error)
}

type boardSubcontractorRepository interface {
	List(ctx context.Context, filter models.SubcontractorFilter) ([]models.Subcontractor, error)
}

// BoardService composes the daily dispatch board render model: it loads the
// rows and their appointments, positions each appointment on the time grid,
// stacks overlaps into layers, and sizes rows from the resulting layer count.
type BoardService struct {
	appts   boardAppointmentRepository
	subs    boardSubcontractorRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     config.BoardConfig
}

// NewBoardService constructs a BoardService instance.
func NewBoardService(appts boardAppointmentRepository, subs boardSubcontractorRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg config.BoardConfig) *BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{appts: appts, subs: subs, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Grid returns the configured time grid for board composition.
func (s *BoardService) Grid() board.Grid {
	return board.NewGrid(s.cfg.StartHour, s.cfg.EndHour, s.cfg.SnapMinutes)
}

func (s *BoardService) rowMetrics() board.RowMetrics {
	return board.RowMetrics{
		EventHeightPx:  s.cfg.EventHeightPx,
		RowPaddingPx:   s.cfg.RowPaddingPx,
		LayerGapPx:     s.cfg.LayerGapPx,
		MinRowHeightPx: s.cfg.MinRowHeightPx,
	}
}

// BuildDay produces the render model for one board day. Subcontractor IDs
// narrow the board to the requested rows; an empty slice means all active
// rows. Results are cached per day and row set; the returned flag reports
// whether this call was served from cache.
func (s *BoardService) BuildDay(ctx context.Context, date string, subcontractorIDs []string) (*dto.BoardResponse, bool, error) {
	day, err := time.ParseInLocation(boardDateLayout, date, time.UTC)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be formatted YYYY-MM-DD")
	}

	cacheKey := boardCacheKey(date, subcontractorIDs)
	if s.cache.Enabled() {
		var cached dto.BoardResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	started := time.Now()
	resp, err := s.composeDay(ctx, day, date, subcontractorIDs)
	if err != nil {
		return nil, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveBoardCompose(time.Since(started))
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache board day", zap.String("date", date), zap.Error(err))
		}
	}
	return resp, false, nil
}

func (s *BoardService) composeDay(ctx context.Context, day time.Time, date string, subcontractorIDs []string) (*dto.BoardResponse, error) {
	grid := s.Grid()
	metrics := s.rowMetrics()

	active := true
	subs, err := s.subs.List(ctx, models.SubcontractorFilter{Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load board rows")
	}

	colorByID := make(map[string]string, len(subs))
	for i, sub := range subs {
		colorByID[sub.ID] = models.ColorClassForIndex(i)
	}

	if len(subcontractorIDs) > 0 {
		requested := make(map[string]bool, len(subcontractorIDs))
		for _, id := range subcontractorIDs {
			requested[id] = true
		}
		filtered := subs[:0]
		for _, sub := range subs {
			if requested[sub.ID] {
				filtered = append(filtered, sub)
			}
		}
		subs = filtered
	}

	dayStart := day
	dayEnd := day.Add(24 * time.Hour)
	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}

	var appts []models.Appointment
	if len(subs) > 0 {
		appts, err = s.appts.ListWindow(ctx, ids, dayStart, dayEnd)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointments")
		}
	}

	byRow := make(map[string][]models.Appointment, len(subs))
	for _, appt := range appts {
		byRow[appt.SubcontractorID] = append(byRow[appt.SubcontractorID], appt)
	}

	rows := make([]dto.BoardRow, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, s.composeRow(grid, metrics, sub, colorByID[sub.ID], byRow[sub.ID], day))
	}

	return &dto.BoardResponse{
		Date:        date,
		StartHour:   grid.StartHour,
		EndHour:     grid.EndHour,
		SnapMinutes: grid.SnapMinutes,
		Rows:        rows,
	}, nil
}

func (s *BoardService) composeRow(grid board.Grid, metrics board.RowMetrics, sub models.Subcontractor, colorClass string, appts []models.Appointment, day time.Time) dto.BoardRow {
	placements := make(map[string]board.Placement, len(appts))
	placed := make([]board.PlacedAppointment, 0, len(appts))
	for _, appt := range appts {
		p := board.Place(grid, appt, day)
		if !p.Visible {
			continue
		}
		placements[appt.ID] = p
		placed = append(placed, board.PlacedAppointment{ID: appt.ID, Left: p.Left, Width: p.Width})
	}

	stack := board.StackLayers(placed)

	events := make([]dto.BoardEvent, 0, len(placed))
	for _, appt := range appts {
		p, ok := placements[appt.ID]
		if !ok {
			continue
		}
		layer := stack.LayerOf[appt.ID]
		events = append(events, dto.BoardEvent{
			ID:         appt.ID,
			Title:      appt.Title,
			LeftPct:    p.Left * 100,
			WidthPct:   p.Width * 100,
			TopPx:      metrics.EventTop(layer),
			Layer:      layer,
			Span:       string(p.Span),
			Status:     string(appt.Status),
			ColorClass: colorClass,
			StartAt:    appt.StartAt.UTC(),
			EndAt:      appt.EndAt.UTC(),
			Resizable:  p.Span == board.SpanSingle || p.Span == board.SpanEnd,
		})
	}

	return dto.BoardRow{
		SubcontractorID:   sub.ID,
		SubcontractorName: sub.Name,
		ColorClass:        colorClass,
		RowHeightPx:       metrics.RowHeight(stack.LayerCount),
		LayerCount:        stack.LayerCount,
		Events:            events,
	}
}

// InvalidateDay drops every cached render model for the given date.
func (s *BoardService) InvalidateDay(ctx context.Context, date string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("board:%s:*", date)); err != nil {
		s.logger.Warn("failed to invalidate board cache", zap.String("date", date), zap.Error(err))
	}
}

// InvalidateRange drops cached render models for every date an appointment
// touches, both before and after an update.
func (s *BoardService) InvalidateRange(ctx context.Context, spans ...models.Appointment) {
	if !s.cache.Enabled() {
		return
	}
	seen := map[string]bool{}
	for _, appt := range spans {
		for d := dateOf(appt.StartAt); !d.After(dateOf(appt.EndAt)); d = d.Add(24 * time.Hour) {
			key := d.Format(boardDateLayout)
			if !seen[key] {
				seen[key] = true
				s.InvalidateDay(ctx, key)
			}
		}
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func boardCacheKey(date string, subcontractorIDs []string) string {
	if len(subcontractorIDs) == 0 {
		return fmt.Sprintf("board:%s:all", date)
	}
	ids := make([]string, len(subcontractorIDs))
	copy(ids, subcontractorIDs)
	sort.Strings(ids)
	return fmt.Sprintf("board:%s:%s", date, strings.Join(ids, ","))
}
