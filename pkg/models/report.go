package models

import "time"

// Vehicle is one tracked device visible to the account.
type Vehicle struct {
	ID int64 `json:"veiculo_id"`
}

// HistoryRecord is a single tracked position/event for a vehicle within a day.
// Numeric fields are already coerced from the upstream's loose typing.
type HistoryRecord struct {
	VehicleName string  `json:"name"`
	Distance    float64 `json:"distance"` // upstream "velocidade", used as distance traveled
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ServerTime  string  `json:"server_time"`
	Ignition    bool    `json:"ignition"`
}

// ReportRow is one HistoryRecord enriched with computed fuel/cost fields.
// FuelLiters and Cost keep full float precision; rounding to two decimals
// happens only when a row is displayed or exported.
type ReportRow struct {
	VehicleID   int64   `json:"vehicle_id"`
	VehicleName string  `json:"vehicle_name"`
	Distance    float64 `json:"distance"`
	FuelLiters  float64 `json:"fuel_liters"`
	Cost        float64 `json:"cost"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ServerTime  string  `json:"server_time"`
	Ignition    string  `json:"ignition"` // "on" or "off"
}

// Report is the flattened result of one build: vehicles in listed order,
// records within a vehicle in fetched order.
type Report struct {
	Date       time.Time   `json:"date"`
	FuelPrice  float64     `json:"fuel_price"`
	AvgEconomy float64     `json:"avg_economy"`
	Rows       []ReportRow `json:"rows"`
	Skipped    int         `json:"skipped"` // vehicles dropped by the skip-and-continue policy
}

// IgnitionStatus maps the coerced ignition flag to its report value.
func IgnitionStatus(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
