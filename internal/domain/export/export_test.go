package export

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/clinsalud/registro-clinico/internal/domain/classification"
	"github.com/clinsalud/registro-clinico/internal/domain/record"
	"github.com/clinsalud/registro-clinico/pkg/storage"
)

func sampleRows() []record.Row {
	return []record.Row{
		{
			Identifier: "12345678", Name: "Maria Lopez", Benefit: "PAMI",
			BloodPressure: "120/80 mmHg", WeightKg: "70", HeightM: "1.75", BMI: "22.86",
			Diagnosis: "Diabetes", Treatment: "Metformina",
			AttentionDate: "2024-01-15",
			Category:      classification.CategoryDiabetes,
			Color:         classification.Color(classification.CategoryDiabetes),
		},
		{
			Identifier: "87654321", Name: "Juan Perez",
			AttentionDate: "15/01/2024",
			Category:      classification.CategoryNinguno,
			Color:         classification.Color(classification.CategoryNinguno),
		},
	}
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Datos"}, f.GetSheetList())

	rows, err := f.GetRows("Datos")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "DNI", rows[0][0])
	assert.Equal(t, "Fecha Atención", rows[0][9])
	assert.Equal(t, "12345678", rows[1][0])
	assert.Equal(t, "22.86", rows[1][6])
	assert.Equal(t, "Juan Perez", rows[2][1])

	// The classified row carries a style, the ninguno row does not.
	styled, err := f.GetCellStyle("Datos", "A2")
	require.NoError(t, err)
	unstyled, err := f.GetCellStyle("Datos", "A3")
	require.NoError(t, err)
	assert.NotEqual(t, unstyled, styled)
}

func TestWriteExcel_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Datos")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "dni,nombre,beneficio,presion_arterial,peso_kg,estatura_m,imc,diagnostico,tratamiento,fecha_atencion,categoria", lines[0])
	assert.Contains(t, lines[1], "12345678")
	assert.Contains(t, lines[1], "diabetes")
	assert.Contains(t, lines[2], "ninguno")
}

func TestService_Export(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewService(store, nil)
	ctx := context.Background()

	info, err := svc.Export(ctx, FormatExcel, sampleRows())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.Name, "registro_"))
	assert.True(t, strings.HasSuffix(info.Name, ".xlsx"))
	assert.Positive(t, info.Size)

	t.Run("archived file can be reopened", func(t *testing.T) {
		rc, opened, err := svc.Open(ctx, info.ID)
		require.NoError(t, err)
		defer rc.Close()

		assert.Equal(t, info.Name, opened.Name)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, info.Size, int64(len(data)))
	})

	t.Run("list includes the export", func(t *testing.T) {
		files, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, info.ID, files[0].ID)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := svc.Export(ctx, Format("pdf"), nil)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
