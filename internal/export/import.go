package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/services"
	"github.com/xuri/excelize/v2"
)

// RowError reports why a single input row was skipped. Row is 1-based and
// counts the header.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// ImportResult holds the rows that parsed and the ones that did not.
type ImportResult struct {
	Cards  []services.CardInput
	Errors []RowError
}

// columns maps field names to indexes. Without a header row the layout is
// question, answer, keywords.
type columns struct {
	question, answer, keywords int
}

var defaultColumns = columns{question: 0, answer: 1, keywords: 2}

func detectHeader(row []string) (columns, bool) {
	cols := columns{question: -1, answer: -1, keywords: -1}
	for i, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "question":
			cols.question = i
		case "answer":
			cols.answer = i
		case "keywords":
			cols.keywords = i
		}
	}
	if cols.question < 0 || cols.answer < 0 {
		return defaultColumns, false
	}
	return cols, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseRows turns raw rows into card inputs. lines holds the source row
// number of each entry in rows.
func parseRows(rows [][]string, lines []int) *ImportResult {
	result := &ImportResult{}
	if len(rows) == 0 {
		return result
	}

	cols, hasHeader := detectHeader(rows[0])
	start := 0
	if hasHeader {
		start = 1
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		rowNum := lines[i]
		if len(strings.Join(row, "")) == 0 {
			continue
		}

		in := services.CardInput{
			Question: cell(row, cols.question),
			Answer:   cell(row, cols.answer),
		}
		if in.Question == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Err: fmt.Errorf("question is empty")})
			continue
		}
		if in.Answer == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Err: fmt.Errorf("answer is empty")})
			continue
		}
		kw, err := models.ParseKeywords(cell(row, cols.keywords))
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Err: err})
			continue
		}
		in.Keywords = kw
		result.Cards = append(result.Cards, in)
	}
	return result
}

// Read parses cards from r in the given format.
func Read(r io.Reader, format Format) (*ImportResult, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func ReadCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	var lines []int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	return parseRows(rows, lines), nil
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &ImportResult{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return parseRows(rows, lines), nil
}
