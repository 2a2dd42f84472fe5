package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mrpolar777/Consulta-API/internal/tracker"
	"github.com/mrpolar777/Consulta-API/pkg/models"
)

// fake API for tests
type fakeAPI struct {
	vehicles    []models.Vehicle
	vehiclesErr error
	history     map[int64][]models.HistoryRecord
	historyErr  map[int64]error
	calls       []int64
}

func (f *fakeAPI) ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	return f.vehicles, f.vehiclesErr
}

func (f *fakeAPI) FetchHistory(ctx context.Context, vehicleID int64, date time.Time) ([]models.HistoryRecord, error) {
	f.calls = append(f.calls, vehicleID)
	if err := f.historyErr[vehicleID]; err != nil {
		return nil, err
	}
	return f.history[vehicleID], nil
}

var testDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestBuildComputesFuelColumns(t *testing.T) {
	api := &fakeAPI{
		vehicles: []models.Vehicle{{ID: 501}},
		history: map[int64][]models.HistoryRecord{
			501: {{
				VehicleName: "Truck A",
				Distance:    120,
				Latitude:    -5.1,
				Longitude:   -42.8,
				ServerTime:  "01/03/2024 10:00:00",
				Ignition:    true,
			}},
		},
	}

	rep, err := NewBuilder(api, nil).Build(context.Background(), Params{
		UserID: 2044, Date: testDate, FuelPrice: 5.50, AvgEconomy: 10.0,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(rep.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rep.Rows))
	}

	row := rep.Rows[0]
	if row.VehicleName != "Truck A" || row.Distance != 120.0 {
		t.Errorf("unexpected row identity: %+v", row)
	}
	if row.FuelLiters != 12.0 {
		t.Errorf("fuel = %v, want 12.0", row.FuelLiters)
	}
	if row.Cost != 66.0 {
		t.Errorf("cost = %v, want 66.0", row.Cost)
	}
	if row.Latitude != -5.1 || row.Longitude != -42.8 || row.ServerTime != "01/03/2024 10:00:00" {
		t.Errorf("unexpected passthrough fields: %+v", row)
	}
	if row.Ignition != "on" {
		t.Errorf("ignition = %q, want on", row.Ignition)
	}
}

func TestBuildZeroEconomy(t *testing.T) {
	api := &fakeAPI{
		vehicles: []models.Vehicle{{ID: 501}},
		history: map[int64][]models.HistoryRecord{
			501: {
				{VehicleName: "Truck A", Distance: 120},
				{VehicleName: "Truck A", Distance: 300},
			},
		},
	}

	rep, err := NewBuilder(api, nil).Build(context.Background(), Params{
		UserID: 2044, Date: testDate, FuelPrice: 5.50, AvgEconomy: 0,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, row := range rep.Rows {
		if row.FuelLiters != 0 || row.Cost != 0 {
			t.Errorf("economy=0 must yield zero fuel and cost, got %+v", row)
		}
	}
}

func TestBuildEmptyVehicleList(t *testing.T) {
	rep, err := NewBuilder(&fakeAPI{}, nil).Build(context.Background(), Params{
		UserID: 2044, Date: testDate, FuelPrice: 5.50, AvgEconomy: 10,
	})
	if err != nil {
		t.Fatalf("empty vehicle list must not be an error: %v", err)
	}
	if len(rep.Rows) != 0 {
		t.Errorf("expected empty report, got %d rows", len(rep.Rows))
	}
}

func TestBuildFlattensInVehicleOrder(t *testing.T) {
	api := &fakeAPI{
		vehicles: []models.Vehicle{{ID: 1}, {ID: 2}},
		history: map[int64][]models.HistoryRecord{
			1: {{VehicleName: "A", ServerTime: "t1"}, {VehicleName: "A", ServerTime: "t2"}},
			2: {{VehicleName: "B", ServerTime: "t3"}},
		},
	}

	rep, err := NewBuilder(api, nil).Build(context.Background(), Params{
		UserID: 2044, Date: testDate, FuelPrice: 1, AvgEconomy: 1,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(rep.Rows) != 3 {
		t.Fatalf("row count = %d, want sum of history counts (3)", len(rep.Rows))
	}
	got := []string{rep.Rows[0].ServerTime, rep.Rows[1].ServerTime, rep.Rows[2].ServerTime}
	want := []string{"t1", "t2", "t3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row order = %v, want %v", got, want)
		}
	}
	if rep.Rows[0].VehicleID != 1 || rep.Rows[2].VehicleID != 2 {
		t.Errorf("vehicle ids not carried onto rows: %+v", rep.Rows)
	}
}

func TestBuildSkipsFailedVehicle(t *testing.T) {
	api := &fakeAPI{
		vehicles: []models.Vehicle{{ID: 1}, {ID: 2}, {ID: 3}},
		history: map[int64][]models.HistoryRecord{
			1: {{VehicleName: "A"}},
			3: {{VehicleName: "C"}},
		},
		historyErr: map[int64]error{
			2: fmt.Errorf("API returned status 500: boom"),
		},
	}

	rep, err := NewBuilder(api, nil).Build(context.Background(), Params{
		UserID: 2044, Date: testDate, FuelPrice: 1, AvgEconomy: 1,
	})
	if err != nil {
		t.Fatalf("skip-and-continue must not fail the build: %v", err)
	}
	if rep.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", rep.Skipped)
	}
	if len(rep.Rows) != 2 || rep.Rows[0].VehicleName != "A" || rep.Rows[1].VehicleName != "C" {
		t.Errorf("unexpected rows after skip: %+v", rep.Rows)
	}
	if len(api.calls) != 3 {
		t.Errorf("all vehicles should still be attempted, got calls %v", api.calls)
	}
}

func TestBuildAbortsOnAuthError(t *testing.T) {
	api := &fakeAPI{
		vehicles: []models.Vehicle{{ID: 1}, {ID: 2}},
		historyErr: map[int64]error{
			1: &tracker.AuthError{StatusCode: 401, Message: "token expired"},
		},
	}

	_, err := NewBuilder(api, nil).Build(context.Background(), Params{
		UserID: 2044, Date: testDate, FuelPrice: 1, AvgEconomy: 1,
	})
	var authErr *tracker.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected wrapped *AuthError, got %v", err)
	}
	if len(api.calls) != 1 {
		t.Errorf("build should abort on auth failure, got calls %v", api.calls)
	}
}

func TestBuildAbortsWhenListingFails(t *testing.T) {
	api := &fakeAPI{vehiclesErr: errors.New("connection refused")}

	_, err := NewBuilder(api, nil).Build(context.Background(), Params{
		UserID: 2044, Date: testDate, FuelPrice: 1, AvgEconomy: 1,
	})
	if err == nil {
		t.Fatal("expected error when vehicle listing fails")
	}
}
