// Package export renders committed rows to downloadable files, painting each
// row with its classified category color.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/clinsalud/registro-clinico/internal/domain/classification"
	"github.com/clinsalud/registro-clinico/internal/domain/record"
)

const sheetName = "Datos"

// Column headers in grid order, as they appear on the printed register.
var headers = []string{
	"DNI",
	"Nombre",
	"Beneficio",
	"Presión Arterial (mmHg)",
	"Peso (kg)",
	"Estatura (m)",
	"IMC",
	"Diagnóstico",
	"Tratamiento",
	"Fecha Atención",
}

// WriteExcel writes the rows as an XLSX workbook. Rows classified into a
// category get that category's fill color; ninguno rows stay unstyled.
func WriteExcel(w io.Writer, rows []record.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	styles := make(map[classification.Category]int)

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell for row %d: %w", i, err)
		}
		values := []any{
			row.Identifier, row.Name, row.Benefit, row.BloodPressure,
			row.WeightKg, row.HeightM, row.BMI,
			row.Diagnosis, row.Treatment, row.AttentionDate,
		}
		if err := f.SetSheetRow(sheetName, cellRef, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}

		if row.Category == classification.CategoryNinguno || row.Category == "" {
			continue
		}
		styleID, err := categoryStyle(f, styles, row.Category)
		if err != nil {
			return err
		}
		lastCell, err := excelize.CoordinatesToCellName(len(headers), i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell for row %d: %w", i, err)
		}
		if err := f.SetCellStyle(sheetName, cellRef, lastCell, styleID); err != nil {
			return fmt.Errorf("failed to style row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// categoryStyle lazily creates one fill style per category and caches its ID.
func categoryStyle(f *excelize.File, cache map[classification.Category]int, c classification.Category) (int, error) {
	if id, ok := cache[c]; ok {
		return id, nil
	}
	id, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{hex(classification.Color(c))},
		},
		Font: &excelize.Font{Color: hex(classification.FontColor(c))},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create style for %s: %w", c, err)
	}
	cache[c] = id
	return id, nil
}

func hex(color string) string {
	return strings.TrimPrefix(color, "#")
}
