package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mrpolar777/Consulta-API/pkg/models"
)

// DefaultFilename is the download name the original report used.
const DefaultFilename = "relatorio_veiculos.csv"

// Header labels match the original report columns.
var header = []string{
	"Nome do Veículo",
	"Kilometragem",
	"Consumo por L",
	"Valor Gasto",
	"Latitude",
	"Longitude",
	"Data e Hora",
	"Ignição",
}

// Write renders the report as UTF-8 CSV with a header row. Fuel and cost are
// rounded to two decimals here, and only here; the report rows themselves
// keep full precision.
func Write(w io.Writer, rep models.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, row := range rep.Rows {
		record := []string{
			row.VehicleName,
			formatFloat(row.Distance),
			fmt.Sprintf("%.2f", row.FuelLiters),
			fmt.Sprintf("%.2f", row.Cost),
			formatFloat(row.Latitude),
			formatFloat(row.Longitude),
			row.ServerTime,
			row.Ignition,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read parses a CSV produced by Write back into report rows. Used by the
// export --check round trip; vehicle IDs are not part of the CSV and come
// back zero.
func Read(r io.Reader) ([]models.ReportRow, error) {
	cr := csv.NewReader(r)

	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(head) != len(header) {
		return nil, fmt.Errorf("unexpected CSV header: %v", head)
	}

	var rows []models.ReportRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		row := models.ReportRow{
			VehicleName: record[0],
			ServerTime:  record[6],
			Ignition:    record[7],
		}
		if row.Distance, err = strconv.ParseFloat(record[1], 64); err != nil {
			return nil, fmt.Errorf("parsing distance %q: %w", record[1], err)
		}
		if row.FuelLiters, err = strconv.ParseFloat(record[2], 64); err != nil {
			return nil, fmt.Errorf("parsing fuel %q: %w", record[2], err)
		}
		if row.Cost, err = strconv.ParseFloat(record[3], 64); err != nil {
			return nil, fmt.Errorf("parsing cost %q: %w", record[3], err)
		}
		if row.Latitude, err = strconv.ParseFloat(record[4], 64); err != nil {
			return nil, fmt.Errorf("parsing latitude %q: %w", record[4], err)
		}
		if row.Longitude, err = strconv.ParseFloat(record[5], 64); err != nil {
			return nil, fmt.Errorf("parsing longitude %q: %w", record[5], err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
