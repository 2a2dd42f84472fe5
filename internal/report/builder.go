package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrpolar777/Consulta-API/internal/tracker"
	"github.com/mrpolar777/Consulta-API/pkg/models"
)

// API is the slice of the tracking client the builder needs.
type API interface {
	ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error)
	FetchHistory(ctx context.Context, vehicleID int64, date time.Time) ([]models.HistoryRecord, error)
}

// Params are the user-supplied inputs of one report build.
type Params struct {
	UserID     int64
	Date       time.Time
	FuelPrice  float64 // currency per liter
	AvgEconomy float64 // km per liter
}

// Builder turns per-vehicle tracking history into a flat fuel report.
type Builder struct {
	api API
	log *zap.Logger
}

// NewBuilder creates a report builder
func NewBuilder(api API, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{api: api, log: log}
}

// Build lists the account's vehicles, fetches each vehicle's history for the
// requested day sequentially, and flattens the computed rows in vehicle
// order. An empty vehicle list or empty history is an empty report, not an
// error.
//
// Failure policy: skip-and-continue. A vehicle whose history fetch fails is
// logged and dropped (counted in Report.Skipped) so one bad vehicle does not
// cost the whole report. Auth failures abort instead, since every remaining
// fetch would fail the same way and the caller may want to re-login.
func (b *Builder) Build(ctx context.Context, p Params) (models.Report, error) {
	rep := models.Report{
		Date:       p.Date,
		FuelPrice:  p.FuelPrice,
		AvgEconomy: p.AvgEconomy,
	}

	vehicles, err := b.api.ListVehicles(ctx, p.UserID)
	if err != nil {
		return rep, fmt.Errorf("listing vehicles: %w", err)
	}

	for _, vehicle := range vehicles {
		history, err := b.api.FetchHistory(ctx, vehicle.ID, p.Date)
		if err != nil {
			var authErr *tracker.AuthError
			if errors.As(err, &authErr) {
				return rep, fmt.Errorf("fetching history for vehicle %d: %w", vehicle.ID, err)
			}
			b.log.Warn("skipping vehicle after failed history fetch",
				zap.Int64("vehicle_id", vehicle.ID),
				zap.Error(err))
			rep.Skipped++
			continue
		}

		for _, record := range history {
			rep.Rows = append(rep.Rows, buildRow(vehicle.ID, record, p.FuelPrice, p.AvgEconomy))
		}
	}

	return rep, nil
}

// buildRow derives the fuel columns for one history record. Values keep full
// precision; rounding is a display/export concern.
func buildRow(vehicleID int64, rec models.HistoryRecord, fuelPrice, avgEconomy float64) models.ReportRow {
	var fuelLiters float64
	if avgEconomy > 0 {
		fuelLiters = rec.Distance / avgEconomy
	}

	return models.ReportRow{
		VehicleID:   vehicleID,
		VehicleName: rec.VehicleName,
		Distance:    rec.Distance,
		FuelLiters:  fuelLiters,
		Cost:        fuelLiters * fuelPrice,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		ServerTime:  rec.ServerTime,
		Ignition:    models.IgnitionStatus(rec.Ignition),
	}
}
