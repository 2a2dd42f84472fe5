package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mrpolar777/Consulta-API/pkg/models"
)

func sampleReport() models.Report {
	return models.Report{
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		FuelPrice:  5.50,
		AvgEconomy: 10.0,
		Rows: []models.ReportRow{
			{
				VehicleID:   501,
				VehicleName: "Truck A",
				Distance:    120,
				FuelLiters:  12,
				Cost:        66,
				Latitude:    -5.1,
				Longitude:   -42.8,
				ServerTime:  "01/03/2024 10:00:00",
				Ignition:    "on",
			},
			{
				VehicleID:   501,
				VehicleName: "Truck A",
				Distance:    33.3,
				FuelLiters:  3.33,
				Cost:        18.3157, // rounds to 18.32 in the file
				ServerTime:  "01/03/2024 11:00:00",
				Ignition:    "off",
			},
		},
	}
}

func TestWriteHeaderAndRounding(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport()); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Nome do Veículo,Kilometragem,Consumo por L,Valor Gasto,Latitude,Longitude,Data e Hora,Ignição" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[2], "18.32") {
		t.Errorf("cost not rounded to 2 decimals at export: %s", lines[2])
	}
}

func TestRoundTrip(t *testing.T) {
	rep := sampleReport()

	var buf bytes.Buffer
	if err := Write(&buf, rep); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != len(rep.Rows) {
		t.Fatalf("row count = %d, want %d", len(rows), len(rep.Rows))
	}

	got := rows[0]
	want := rep.Rows[0]
	if got.VehicleName != want.VehicleName || got.Distance != want.Distance ||
		got.FuelLiters != want.FuelLiters || got.Cost != want.Cost ||
		got.Latitude != want.Latitude || got.Longitude != want.Longitude ||
		got.ServerTime != want.ServerTime || got.Ignition != want.Ignition {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	// The second row's cost was rounded on export; the parsed value must
	// match the rounded figure, not the original.
	if rows[1].Cost != 18.32 {
		t.Errorf("cost = %v, want the exported 18.32", rows[1].Cost)
	}
}

func TestWriteEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, models.Report{}); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty report must export header only, got %d lines", len(lines))
	}

	rows, err := Read(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestReadRejectsMissingHeader(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}
