package roster

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/clinsalud/registro-clinico/pkg/textnorm"
)

// rosterRow is the raw CSV row. Multiple tags per field support the header
// variants seen in padrón files; gocsv matches by normalized header name.
type rosterRow struct {
	DNI        string `csv:"dni"`
	Documento  string `csv:"documento"`
	Identifier string `csv:"identifier"`

	Nombre string `csv:"nombre"`
	Name   string `csv:"name"`

	Beneficio string `csv:"beneficio"`
	Benefit   string `csv:"benefit"`
}

// LoadResult reports what a load produced. Rows with every field blank are
// skipped, not errored; trailing empty lines are common in exported files.
type LoadResult struct {
	Entries     []Entry
	TotalRows   int
	ParsedRows  int
	SkippedRows int
}

func init() {
	// Padrón headers arrive as "DNI", "dni" or " Dni "; normalize before
	// matching them against the struct tags.
	gocsv.SetHeaderNormalizer(func(header string) string {
		return textnorm.Normalize(header)
	})
}

// LoadCSV parses a roster from CSV. Missing columns default to empty strings.
func LoadCSV(r io.Reader) (*LoadResult, error) {
	var rows []rosterRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse roster CSV: %w", err)
	}

	result := &LoadResult{TotalRows: len(rows)}
	for _, row := range rows {
		entry := Entry{
			Identifier: strings.TrimSpace(coalesce(row.DNI, row.Documento, row.Identifier)),
			Name:       strings.TrimSpace(coalesce(row.Nombre, row.Name)),
			Benefit:    strings.TrimSpace(coalesce(row.Beneficio, row.Benefit)),
		}
		if entry == (Entry{}) {
			result.SkippedRows++
			continue
		}
		result.Entries = append(result.Entries, entry)
		result.ParsedRows++
	}
	return result, nil
}

// LoadExcel parses a roster from the first sheet of an XLSX workbook.
// The header row is located by normalized column names; columns that are
// absent default to empty strings.
func LoadExcel(r io.Reader) (*LoadResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &LoadResult{}, nil
	}

	idCol, nameCol, benefitCol := mapColumns(rows[0])

	result := &LoadResult{TotalRows: len(rows) - 1}
	for _, row := range rows[1:] {
		entry := Entry{
			Identifier: strings.TrimSpace(cell(row, idCol)),
			Name:       strings.TrimSpace(cell(row, nameCol)),
			Benefit:    strings.TrimSpace(cell(row, benefitCol)),
		}
		if entry == (Entry{}) {
			result.SkippedRows++
			continue
		}
		result.Entries = append(result.Entries, entry)
		result.ParsedRows++
	}
	return result, nil
}

// LoadFile loads a roster from disk, dispatching on the file extension.
func LoadFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(f)
	}
	return LoadExcel(f)
}

func mapColumns(headers []string) (idCol, nameCol, benefitCol int) {
	idCol, nameCol, benefitCol = -1, -1, -1
	for i, h := range headers {
		switch textnorm.Normalize(h) {
		case "dni", "documento", "identifier":
			if idCol == -1 {
				idCol = i
			}
		case "nombre", "name":
			if nameCol == -1 {
				nameCol = i
			}
		case "beneficio", "benefit":
			if benefitCol == -1 {
				benefitCol = i
			}
		}
	}
	return idCol, nameCol, benefitCol
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
