package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/interview-prep-service/internal/errors"
	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/SAP-F-2025/interview-prep-service/internal/validator"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// ImportExportService loads question banks from spreadsheets and exports
// session reports as workbooks.
type ImportExportService interface {
	ImportQuestions(ctx context.Context, reader io.Reader, filename, creatorID string) (*models.ImportSummary, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, creatorID string) (*models.ImportSummary, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, creatorID string) (*models.ImportSummary, error)

	ExportSessionReport(ctx context.Context, ownerID, token string) ([]byte, error)
}

type importExportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

const (
	defaultImportTime   = 120
	defaultImportPoints = 10
	listSeparator       = "|"
)

var requiredColumns = []string{"prompt", "kind", "category", "difficulty"}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportQuestions(ctx context.Context, reader io.Reader, filename, creatorID string) (*models.ImportSummary, error) {
	s.logger.Info("Starting question import", "filename", filename, "creator_id", creatorID)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader, creatorID)
	case ".xlsx":
		return s.ImportQuestionsFromExcel(ctx, reader, creatorID)
	default:
		return nil, apperrors.NewValidationErrorWithRule("file", "unsupported file format", "file_format", ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, creatorID string) (*models.ImportSummary, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("failed to read CSV: %v", err), nil)
	}
	return s.importRecords(ctx, records, creatorID)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, creatorID string) (*models.ImportSummary, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("failed to open Excel file: %v", err), nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importRecords(ctx, rows, creatorID)
}

func (s *importExportService) importRecords(ctx context.Context, records [][]string, creatorID string) (*models.ImportSummary, error) {
	start := time.Now()

	if len(records) < 2 {
		return nil, NewValidationError("file", "file must have header row and at least one data row", len(records))
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	summary := &models.ImportSummary{
		TotalRows:        len(records) - 1,
		CreatedQuestions: []string{},
		Errors:           []models.ImportRowError{},
	}

	var questions []*models.Question
	for i, record := range records[1:] {
		rowNum := i + 2
		if blankRecord(record) {
			summary.TotalRows--
			continue
		}

		question, rowErrors := s.parseRow(record, headerMap, rowNum, creatorID)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
	}
	for _, q := range questions {
		summary.CreatedQuestions = append(summary.CreatedQuestions, q.ID)
	}
	summary.SuccessCount = len(questions)
	summary.ProcessingTime = time.Since(start)

	s.logger.Info("Question import completed",
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	return summary, nil
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int, creatorID string) (*models.Question, []models.ImportRowError) {
	var rowErrors []models.ImportRowError
	cell := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	intCell := func(name string, fallback int) int {
		raw := cell(name)
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			rowErrors = append(rowErrors, models.ImportRowError{Row: rowNum, Field: name, Message: "must be a whole number"})
			return fallback
		}
		return v
	}

	q := &models.Question{
		ID:               uuid.NewString(),
		Prompt:           cell("prompt"),
		Kind:             models.QuestionKind(strings.ToLower(cell("kind"))),
		Category:         cell("category"),
		Difficulty:       models.Difficulty(strings.ToLower(cell("difficulty"))),
		Options:          datatypes.JSONSlice[string](splitList(cell("options"))),
		ExpectedKeywords: datatypes.JSONSlice[string](splitList(cell("expected_keywords"))),
		TimeAllocated:    intCell("time_allocated", defaultImportTime),
		Points:           intCell("points", defaultImportPoints),
		CreatedBy:        creatorID,
		CreatedAt:        time.Now().UTC(),
	}
	if answer := cell("correct_answer"); answer != "" {
		if q.Kind == models.KindTrueFalse {
			answer = strings.ToLower(answer)
		}
		q.CorrectAnswer = &answer
	}
	if explanation := cell("explanation"); explanation != "" {
		q.Explanation = &explanation
	}

	if err := s.validator.Question().ValidateQuestion(q); err != nil {
		var ve apperrors.ValidationErrors
		if errors.As(err, &ve) {
			for _, e := range ve {
				rowErrors = append(rowErrors, models.ImportRowError{Row: rowNum, Field: e.Field, Message: e.Message})
			}
		} else {
			rowErrors = append(rowErrors, models.ImportRowError{Row: rowNum, Message: err.Error()})
		}
	}
	if len(rowErrors) > 0 {
		return nil, rowErrors
	}
	return q, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ===== EXPORT OPERATIONS =====

const (
	summarySheet  = "Summary"
	attemptsSheet = "Attempts"
	timeLayout    = "2006-01-02 15:04:05"
)

func (s *importExportService) ExportSessionReport(ctx context.Context, ownerID, token string) ([]byte, error) {
	session, err := s.repo.Session().GetByToken(ctx, token, ownerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := writeSummarySheet(f, session); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(attemptsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := writeAttemptsSheet(f, session.Attempts); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported session report", "owner_id", ownerID, "session_id", session.ID)
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, session *models.Session) error {
	completedAt := ""
	if session.CompletedAt != nil {
		completedAt = session.CompletedAt.Format(timeLayout)
	}

	rows := [][]interface{}{
		{"Session ID", session.ID},
		{"Variant", string(session.Variant)},
		{"Category", session.Category},
		{"Difficulty", string(session.Difficulty)},
		{"Status", string(session.Status)},
		{"Score", session.Score},
		{"Answered", fmt.Sprintf("%d / %d", session.AnsweredCount, session.TotalQuestions)},
		{"Completion Rate", session.CompletionRate()},
		{"Started At", session.StartedAt.Format(timeLayout)},
		{"Completed At", completedAt},
	}
	if fb := session.Feedback; fb != nil {
		rows = append(rows,
			[]interface{}{"Overall Rating", string(fb.Rating)},
			[]interface{}{"Total Score", fb.TotalScore},
			[]interface{}{"Communication", fb.Categories.Communication},
			[]interface{}{"Technical Knowledge", fb.Categories.TechnicalKnowledge},
			[]interface{}{"Confidence", fb.Categories.Confidence},
			[]interface{}{"Clarity", fb.Categories.Clarity},
			[]interface{}{"Problem Solving", fb.Categories.ProblemSolving},
			[]interface{}{"Time Management", fb.Categories.TimeManagement},
			[]interface{}{"Strengths", strings.Join(fb.Strengths, "; ")},
			[]interface{}{"Improvements", strings.Join(fb.Improvements, "; ")},
			[]interface{}{"Recommendations", strings.Join(fb.Recommendations, "; ")},
		)
	}
	return writeRows(f, summarySheet, rows)
}

func writeAttemptsSheet(f *excelize.File, attempts []models.QuestionAttempt) error {
	rows := [][]interface{}{{
		"Order", "Question ID", "Kind", "Difficulty", "Answered", "Answer",
		"Score", "Points Earned", "Correct", "Keyword Score", "Time Allocated (s)", "Time Taken (s)",
	}}
	for _, a := range attempts {
		correct := ""
		if a.IsCorrect != nil {
			correct = strconv.FormatBool(*a.IsCorrect)
		}
		rows = append(rows, []interface{}{
			a.Order, a.QuestionID, string(a.Kind), string(a.Difficulty), a.Answered, a.Answer,
			a.Score, a.PointsEarned, correct, a.KeywordScore, a.TimeAllocated, a.TimeTaken,
		})
	}
	return writeRows(f, attemptsSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
