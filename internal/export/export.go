// Package export writes study sets to CSV or XLSX and reads cards back.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vytor/klar/internal/models"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Delimiter separates CSV fields in both directions.
const Delimiter = ';'

// Header is the first row of every export.
var Header = []string{"Question", "Answer", "Correct", "Wrong", "Level", "Keywords"}

// ParseFormat accepts "csv" or "xlsx" in any case, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %q", path)
	}
	return ParseFormat(ext)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds a download name like "spanish.csv".
func (f Format) FileName(setName string) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '"', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(setName))
	if base == "" {
		base = "cards"
	}
	return base + "." + string(f)
}

func record(c models.Card) []string {
	return []string{
		c.Question,
		c.Answer,
		strconv.FormatUint(uint64(c.CorrectCount), 10),
		strconv.FormatUint(uint64(c.WrongCount), 10),
		strconv.Itoa(int(c.Level)),
		c.Keywords.String(),
	}
}

// Write renders cards in the given format.
func Write(w io.Writer, format Format, cards []models.Card) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, cards)
	case FormatXLSX:
		return WriteXLSX(w, cards)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func WriteCSV(w io.Writer, cards []models.Card) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, c := range cards {
		if err := cw.Write(record(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, cards []models.Card) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]

	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, c := range cards {
		if err := writeRow(i+2, record(c)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}
