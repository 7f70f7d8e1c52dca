package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/dto"
	"github.com/billy93/E-Learning-sub000/internal/service"
	"github.com/billy93/E-Learning-sub000/pkg/export"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
}

// newTestApp mounts handlers under /api/v2 behind a stand-in for the JWT
// middleware. A zero user id leaves the request anonymous.
func newTestApp(userID uint, role string, register func(fiber.Router)) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v2", func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	register(group)
	return app
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload envelope
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

type stubProgressService struct {
	breakdown  dto.ProgressBreakdownResponse
	status     dto.SubmissionStatusResponse
	completion dto.QuizCompletionResponse
	average    dto.AverageScoreResponse
	rate       dto.CompletionRateResponse
	err        error

	lastViewer  access.Viewer
	lastAverage dto.AverageScoreRequest
	lastCourse  *uint
	calls       int
}

func (s *stubProgressService) ComputeEnrollmentProgress(_ context.Context, viewer access.Viewer, studentID, courseID uint) (dto.ProgressBreakdownResponse, error) {
	s.calls++
	s.lastViewer = viewer
	return s.breakdown, s.err
}

func (s *stubProgressService) SubmissionStatus(_ context.Context, viewer access.Viewer, assignmentID, studentID uint) (dto.SubmissionStatusResponse, error) {
	s.calls++
	s.lastViewer = viewer
	return s.status, s.err
}

func (s *stubProgressService) QuizCompletion(_ context.Context, viewer access.Viewer, quizID, studentID uint) (dto.QuizCompletionResponse, error) {
	s.calls++
	s.lastViewer = viewer
	return s.completion, s.err
}

func (s *stubProgressService) AverageScore(_ context.Context, viewer access.Viewer, req dto.AverageScoreRequest) (dto.AverageScoreResponse, error) {
	s.calls++
	s.lastViewer = viewer
	s.lastAverage = req
	return s.average, s.err
}

func (s *stubProgressService) CompletionRate(_ context.Context, viewer access.Viewer, courseID *uint) (dto.CompletionRateResponse, error) {
	s.calls++
	s.lastViewer = viewer
	s.lastCourse = courseID
	return s.rate, s.err
}

func (s *stubProgressService) Recompute(context.Context, uint, uint, string) (dto.ProgressBreakdownResponse, error) {
	return s.breakdown, s.err
}

type stubRollupService struct {
	student  dto.StudentOverviewResponse
	parent   dto.ParentOverviewResponse
	cohort   dto.CohortReportResponse
	admin    dto.AdminOverviewResponse
	cacheHit bool
	err      error

	lastViewer access.Viewer
	lastID     uint
	lastLimit  int
}

func (s *stubRollupService) StudentOverview(_ context.Context, viewer access.Viewer, studentID uint) (dto.StudentOverviewResponse, bool, error) {
	s.lastViewer, s.lastID = viewer, studentID
	if s.err != nil {
		return dto.StudentOverviewResponse{}, false, s.err
	}
	return s.student, s.cacheHit, nil
}

func (s *stubRollupService) ParentOverview(_ context.Context, viewer access.Viewer, parentID uint) (dto.ParentOverviewResponse, bool, error) {
	s.lastViewer, s.lastID = viewer, parentID
	if s.err != nil {
		return dto.ParentOverviewResponse{}, false, s.err
	}
	return s.parent, s.cacheHit, nil
}

func (s *stubRollupService) CohortReport(_ context.Context, viewer access.Viewer, courseID uint) (dto.CohortReportResponse, error) {
	s.lastViewer, s.lastID = viewer, courseID
	return s.cohort, s.err
}

func (s *stubRollupService) AdminOverview(_ context.Context, viewer access.Viewer, limit int) (dto.AdminOverviewResponse, error) {
	s.lastViewer, s.lastLimit = viewer, limit
	return s.admin, s.err
}

func (s *stubRollupService) Invalidate(context.Context, uint) error {
	return nil
}

type stubEventService struct {
	lesson     dto.LessonCompletionResponse
	attempt    dto.QuizAttemptResponse
	submission dto.SubmissionResponse
	err        error

	lastViewer access.Viewer
	lastID     uint
	lastQuiz   dto.SubmitQuizAttemptRequest
	lastGrade  dto.GradeSubmissionRequest
	calls      int
}

func (s *stubEventService) MarkLessonComplete(_ context.Context, viewer access.Viewer, lessonID uint) (dto.LessonCompletionResponse, error) {
	s.calls++
	s.lastViewer, s.lastID = viewer, lessonID
	return s.lesson, s.err
}

func (s *stubEventService) StartQuizAttempt(_ context.Context, viewer access.Viewer, quizID uint) (dto.QuizAttemptResponse, error) {
	s.calls++
	s.lastViewer, s.lastID = viewer, quizID
	return s.attempt, s.err
}

func (s *stubEventService) SubmitQuizAttempt(_ context.Context, viewer access.Viewer, attemptID uint, payload dto.SubmitQuizAttemptRequest) (dto.QuizAttemptResponse, error) {
	s.calls++
	s.lastViewer, s.lastID, s.lastQuiz = viewer, attemptID, payload
	return s.attempt, s.err
}

func (s *stubEventService) SubmitAssignment(_ context.Context, viewer access.Viewer, assignmentID uint) (dto.SubmissionResponse, error) {
	s.calls++
	s.lastViewer, s.lastID = viewer, assignmentID
	return s.submission, s.err
}

func (s *stubEventService) GradeSubmission(_ context.Context, viewer access.Viewer, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	s.calls++
	s.lastViewer, s.lastID, s.lastGrade = viewer, submissionID, payload
	return s.submission, s.err
}

type stubExportService struct {
	report     service.ExportedReport
	err        error
	lastFormat export.Format
	lastLimit  int
}

func (s *stubExportService) CohortReport(_ context.Context, _ access.Viewer, _ uint, format export.Format) (service.ExportedReport, error) {
	s.lastFormat = format
	return s.report, s.err
}

func (s *stubExportService) Leaderboard(_ context.Context, _ access.Viewer, limit int, format export.Format) (service.ExportedReport, error) {
	s.lastFormat, s.lastLimit = format, limit
	return s.report, s.err
}

type stubActivityService struct {
	response dto.ActivityListResponse
	lastReq  dto.ActivityListRequest
	err      error
}

func (s *stubActivityService) Record(context.Context, service.ActivityEntry) (dto.ActivityResponse, error) {
	return dto.ActivityResponse{}, nil
}

func (s *stubActivityService) List(_ context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	s.lastReq = req
	return s.response, s.err
}

var (
	_ service.ProgressService = (*stubProgressService)(nil)
	_ service.RollupService   = (*stubRollupService)(nil)
	_ service.EventService    = (*stubEventService)(nil)
	_ service.ExportService   = (*stubExportService)(nil)
	_ service.ActivityService = (*stubActivityService)(nil)
)
