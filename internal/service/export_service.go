package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/pkg/apperror"
	"github.com/billy93/E-Learning-sub000/pkg/export"
)

// ExportedReport is a rendered download.
type ExportedReport struct {
	Format   export.Format
	Filename string
	Content  []byte
}

// ExportService renders rollup views as downloadable files.
type ExportService interface {
	CohortReport(ctx context.Context, viewer access.Viewer, courseID uint, format export.Format) (ExportedReport, error)
	Leaderboard(ctx context.Context, viewer access.Viewer, limit int, format export.Format) (ExportedReport, error)
}

type exportService struct {
	rollups  RollupService
	renderer *export.Renderer
	logger   zerolog.Logger
}

// NewExportService constructs the export service on top of the rollup views.
func NewExportService(rollups RollupService, logger zerolog.Logger) ExportService {
	return &exportService{
		rollups:  rollups,
		renderer: export.NewRenderer(),
		logger:   logger.With().Str("component", "export_service").Logger(),
	}
}

var cohortHeaders = []string{"Student ID", "Name", "Status", "Progress %", "Average Score"}

func (s *exportService) CohortReport(ctx context.Context, viewer access.Viewer, courseID uint, format export.Format) (ExportedReport, error) {
	report, err := s.rollups.CohortReport(ctx, viewer, courseID)
	if err != nil {
		return ExportedReport{}, err
	}

	rows := make([]map[string]string, 0, len(report.Students))
	for _, student := range report.Students {
		rows = append(rows, map[string]string{
			"Student ID":    strconv.FormatUint(uint64(student.StudentID), 10),
			"Name":          student.Name,
			"Status":        student.EnrollmentStatus,
			"Progress %":    strconv.Itoa(student.Percentage),
			"Average Score": strconv.Itoa(student.AverageScore),
		})
	}

	title := fmt.Sprintf("Cohort report: %s (completion %d%%, average progress %d%%)", report.Title, report.CompletionRate, report.AverageProgress)
	return s.render(format, export.Dataset{Headers: cohortHeaders, Rows: rows}, title, fmt.Sprintf("course-%d-cohort", courseID))
}

var leaderboardHeaders = []string{"Rank", "Student ID", "Name", "Average Score", "Graded Items"}

func (s *exportService) Leaderboard(ctx context.Context, viewer access.Viewer, limit int, format export.Format) (ExportedReport, error) {
	overview, err := s.rollups.AdminOverview(ctx, viewer, limit)
	if err != nil {
		return ExportedReport{}, err
	}

	rows := make([]map[string]string, 0, len(overview.Leaderboard))
	for _, entry := range overview.Leaderboard {
		rows = append(rows, map[string]string{
			"Rank":          strconv.Itoa(entry.Rank),
			"Student ID":    strconv.FormatUint(uint64(entry.StudentID), 10),
			"Name":          entry.Name,
			"Average Score": strconv.Itoa(entry.AverageScore),
			"Graded Items":  strconv.Itoa(entry.GradedItems),
		})
	}

	return s.render(format, export.Dataset{Headers: leaderboardHeaders, Rows: rows}, "Leaderboard", "leaderboard")
}

func (s *exportService) render(format export.Format, data export.Dataset, title, base string) (ExportedReport, error) {
	content, err := s.renderer.Render(format, data, title)
	if err != nil {
		s.logger.Error().Err(err).Str("format", string(format)).Str("report", base).Msg("failed to render export")
		return ExportedReport{}, apperror.Internal(err, "failed to render export")
	}
	return ExportedReport{Format: format, Filename: format.Filename(base), Content: content}, nil
}
