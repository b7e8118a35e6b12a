package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/report"
	"github.com/safespender/safespender-backend/internal/repository/storage"
)

// ErrExportStorageNotConfigured is returned when no object store is available
var ErrExportStorageNotConfigured = errors.New("export storage not configured")

// ExportService renders calendar workbooks and hands out short-lived download links
type ExportService struct {
	calendars *CalendarService
	summaries *SummaryService
	store     storage.ObjectStore
	urlTTL    time.Duration
	now       func() time.Time
}

// NewExportService creates a new ExportService. store may be nil, which disables exports.
func NewExportService(calendars *CalendarService, summaries *SummaryService, store storage.ObjectStore, urlTTL time.Duration) *ExportService {
	return &ExportService{
		calendars: calendars,
		summaries: summaries,
		store:     store,
		urlTTL:    urlTTL,
		now:       time.Now,
	}
}

// ExportResult describes an uploaded workbook
type ExportResult struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsEnabled indicates whether an object store is configured
func (s *ExportService) IsEnabled() bool {
	return s != nil && s.store != nil
}

// ExportCalendar writes the calendar for [start, end] plus the summary as of today
// to an .xlsx workbook, uploads it and returns a presigned download URL.
func (s *ExportService) ExportCalendar(ctx context.Context, workspaceID int32, start, end, today civil.Date) (*ExportResult, error) {
	if !s.IsEnabled() {
		return nil, ErrExportStorageNotConfigured
	}

	cal, err := s.calendars.GetCalendar(ctx, workspaceID, start, end)
	if err != nil {
		return nil, err
	}
	summary, err := s.summaries.GetSummary(ctx, workspaceID, today)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.WriteCalendarWorkbook(&buf, cal, &summary); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	objectPath := storage.GenerateExportPath(workspaceID, "calendar", ".xlsx")
	if _, err := s.store.Upload(ctx, objectPath, &buf, report.XLSXContentType, int64(buf.Len())); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("safespender-calendar-%s-%s.xlsx", start, end)
	url, err := s.store.GeneratePresignedDownloadURL(ctx, objectPath, filename, s.urlTTL)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("object_path", objectPath).
		Msg("Calendar exported")

	return &ExportResult{
		URL:       url,
		Filename:  filename,
		ExpiresAt: s.now().Add(s.urlTTL).UTC(),
	}, nil
}
