package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/clinsalud/registro-clinico/internal/domain/record"
)

// csvRow is the flat CSV shape for one record; the category column carries
// the classification so the file is self-describing without colors.
type csvRow struct {
	DNI           string `csv:"dni"`
	Nombre        string `csv:"nombre"`
	Beneficio     string `csv:"beneficio"`
	Presion       string `csv:"presion_arterial"`
	PesoKg        string `csv:"peso_kg"`
	EstaturaM     string `csv:"estatura_m"`
	IMC           string `csv:"imc"`
	Diagnostico   string `csv:"diagnostico"`
	Tratamiento   string `csv:"tratamiento"`
	FechaAtencion string `csv:"fecha_atencion"`
	Categoria     string `csv:"categoria"`
}

// WriteCSV writes the rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []record.Row) error {
	out := make([]csvRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, csvRow{
			DNI:           r.Identifier,
			Nombre:        r.Name,
			Beneficio:     r.Benefit,
			Presion:       r.BloodPressure,
			PesoKg:        r.WeightKg,
			EstaturaM:     r.HeightM,
			IMC:           r.BMI,
			Diagnostico:   r.Diagnosis,
			Tratamiento:   r.Treatment,
			FechaAtencion: r.AttentionDate,
			Categoria:     string(r.Category),
		})
	}

	if err := gocsv.Marshal(&out, w); err != nil {
		return fmt.Errorf("failed to write CSV export: %w", err)
	}
	return nil
}
