package snapshot

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/questionnaire-analytics/internal/errors"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/validator"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

// FormatFromFilename picks the response file format from its extension
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatExcel, nil
	default:
		return "", apperrors.NewValidationError("file", "unsupported file format", filepath.Ext(filename))
	}
}

// Required columns of a tabular response file. Every other column whose
// header is a question index ("0", "q1", "Q2") holds answers.
const (
	columnResponseID  = "response_id"
	columnUserID      = "user_id"
	columnStartedAt   = "started_at"
	columnSubmittedAt = "submitted_at"
)

var answerColumn = regexp.MustCompile(`^q?(\d+)$`)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Loader reads questionnaires and response snapshots from exported files
type Loader struct {
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLoader(logger *slog.Logger, validator *validator.Validator) *Loader {
	return &Loader{
		logger:    logger,
		validator: validator,
	}
}

// ===== QUESTIONNAIRE =====

// LoadQuestionnaire decodes a questionnaire document and validates its schema
func (l *Loader) LoadQuestionnaire(reader io.Reader) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&questionnaire); err != nil {
		return nil, fmt.Errorf("failed to decode questionnaire: %w", err)
	}

	if err := l.validator.Validate(&questionnaire); err != nil {
		return nil, err
	}

	l.logger.Debug("Questionnaire loaded",
		"title", questionnaire.Title,
		"questions", len(questionnaire.Questions))

	return &questionnaire, nil
}

func (l *Loader) LoadQuestionnaireFile(path string) (*models.Questionnaire, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open questionnaire file: %w", err)
	}
	defer file.Close()

	return l.LoadQuestionnaire(file)
}

// ===== RESPONSES =====

// LoadResponsesFile reads a response snapshot, choosing the parser from the
// file extension
func (l *Loader) LoadResponsesFile(path string) ([]models.Response, *models.ImportSummary, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open response file: %w", err)
	}
	defer file.Close()

	responses, summary, err := l.LoadResponses(file, format)
	if summary != nil {
		summary.Source = path
	}
	return responses, summary, err
}

// LoadResponses parses a snapshot. Rows that cannot be parsed are skipped and
// reported in the summary; the snapshot is ordered by response id.
func (l *Loader) LoadResponses(reader io.Reader, format Format) ([]models.Response, *models.ImportSummary, error) {
	start := time.Now()

	var (
		responses []models.Response
		summary   *models.ImportSummary
		err       error
	)
	switch format {
	case FormatJSON:
		responses, summary, err = l.fromJSON(reader)
	case FormatCSV:
		responses, summary, err = l.fromCSV(reader)
	case FormatExcel:
		responses, summary, err = l.fromExcel(reader)
	default:
		return nil, nil, apperrors.NewValidationError("format", "unsupported file format", string(format))
	}
	if err != nil {
		return nil, nil, err
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].ID < responses[j].ID
	})

	summary.Format = string(format)
	summary.ProcessingTime = time.Since(start)

	l.logger.Info("Response import completed",
		"format", format,
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	return responses, summary, nil
}

func (l *Loader) fromJSON(reader io.Reader) ([]models.Response, *models.ImportSummary, error) {
	var responses []models.Response
	if err := json.NewDecoder(reader).Decode(&responses); err != nil {
		return nil, nil, fmt.Errorf("failed to decode responses: %w", err)
	}

	for i := range responses {
		if responses[i].Answers == nil {
			responses[i].Answers = models.Answers{}
		}
		responses[i].SyncCompletionTime()
	}

	return responses, &models.ImportSummary{
		TotalRows:     len(responses),
		ProcessedRows: len(responses),
		SuccessCount:  len(responses),
		Errors:        []models.ImportValidationError{},
	}, nil
}

func (l *Loader) fromCSV(reader io.Reader) ([]models.Response, *models.ImportSummary, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return parseTable(records)
}

func (l *Loader) fromExcel(reader io.Reader) ([]models.Response, *models.ImportSummary, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperrors.NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return parseTable(rows)
}

// ===== TABULAR PARSING =====

type tableLayout struct {
	columns       map[string]int
	answerColumns map[int]string // column position -> answer key
}

func parseTable(records [][]string) ([]models.Response, *models.ImportSummary, error) {
	if len(records) == 0 {
		return nil, nil, apperrors.NewValidationError("file", "file must have a header row", 0)
	}

	layout, err := parseHeader(records[0])
	if err != nil {
		return nil, nil, err
	}

	summary := &models.ImportSummary{
		TotalRows: len(records) - 1,
		Errors:    []models.ImportValidationError{},
	}
	responses := make([]models.Response, 0, len(records)-1)

	for rowIndex, record := range records[1:] {
		summary.ProcessedRows++
		if isBlank(record) {
			continue
		}

		response, rowErrors := layout.parseRow(record, rowIndex+2)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}
		responses = append(responses, response)
		summary.SuccessCount++
	}

	return responses, summary, nil
}

func parseHeader(headers []string) (*tableLayout, error) {
	layout := &tableLayout{
		columns:       make(map[string]int),
		answerColumns: make(map[int]string),
	}

	for i, header := range headers {
		name := strings.ToLower(strings.TrimSpace(header))
		if match := answerColumn.FindStringSubmatch(name); match != nil {
			index, err := strconv.Atoi(match[1])
			if err != nil {
				return nil, apperrors.NewValidationError("headers", "invalid question column", header)
			}
			layout.answerColumns[i] = strconv.Itoa(index)
			continue
		}
		layout.columns[name] = i
	}

	for _, col := range []string{columnResponseID, columnUserID} {
		if _, exists := layout.columns[col]; !exists {
			return nil, apperrors.NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	return layout, nil
}

func (t *tableLayout) parseRow(record []string, rowNum int) (models.Response, []models.ImportValidationError) {
	var errs []models.ImportValidationError

	getColumn := func(name string) string {
		if index, exists := t.columns[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	parseID := func(name string) uint {
		value := getColumn(name)
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			errs = append(errs, models.ImportValidationError{
				Row: rowNum, Column: name, Message: "must be a non-negative integer", Value: value, Code: "INVALID_ID",
			})
			return 0
		}
		return uint(id)
	}

	parseTime := func(name string) *time.Time {
		value := getColumn(name)
		if value == "" {
			return nil
		}
		ts, err := parseTimestamp(value)
		if err != nil {
			errs = append(errs, models.ImportValidationError{
				Row: rowNum, Column: name, Message: "unrecognised timestamp", Value: value, Code: "INVALID_TIMESTAMP",
			})
			return nil
		}
		return &ts
	}

	response := models.Response{
		ID:          parseID(columnResponseID),
		UserID:      parseID(columnUserID),
		StartedAt:   parseTime(columnStartedAt),
		SubmittedAt: parseTime(columnSubmittedAt),
		Answers:     models.Answers{},
	}

	for index, key := range t.answerColumns {
		if index >= len(record) {
			continue
		}
		// blank cells are unanswered questions
		if value := strings.TrimSpace(record[index]); value != "" {
			response.Answers[key] = models.StringAnswer(value)
		}
	}

	response.SyncCompletionTime()
	return response, errs
}

// parseTimestamp accepts RFC3339 and a few spreadsheet layouts; timestamps
// without a zone are read as UTC
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
