package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mrpolar777/Consulta-API/pkg/models"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// StoredRow is a report row as persisted, with its generation parameters.
type StoredRow struct {
	models.ReportRow
	ID         int
	ReportDate time.Time
	FuelPrice  float64
	AvgEconomy float64
	Published  bool
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS report_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_date TEXT NOT NULL,
		vehicle_id INTEGER NOT NULL,
		vehicle_name TEXT NOT NULL,
		distance_km REAL NOT NULL,
		fuel_liters REAL NOT NULL,
		cost REAL NOT NULL,
		latitude REAL,
		longitude REAL,
		server_time TEXT,
		ignition TEXT NOT NULL,
		fuel_price REAL NOT NULL,
		avg_economy REAL NOT NULL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0,
		UNIQUE(vehicle_id, server_time, report_date)
	);
	CREATE INDEX IF NOT EXISTS idx_report_rows_date ON report_rows(report_date);
	CREATE INDEX IF NOT EXISTS idx_report_rows_vehicle ON report_rows(vehicle_id);
	CREATE INDEX IF NOT EXISTS idx_report_rows_published ON report_rows(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertReport inserts all rows of a generated report, ignoring duplicates.
// Returns the number of rows actually stored.
func (db *DB) InsertReport(rep models.Report) (int, error) {
	stored := 0
	for _, row := range rep.Rows {
		inserted, err := db.InsertRow(rep.Date, rep.FuelPrice, rep.AvgEconomy, row)
		if err != nil {
			return stored, err
		}
		if inserted {
			stored++
		}
	}
	return stored, nil
}

// InsertRow inserts a single report row, ignoring duplicates
func (db *DB) InsertRow(reportDate time.Time, fuelPrice, avgEconomy float64, row models.ReportRow) (bool, error) {
	query := `
	INSERT OR IGNORE INTO report_rows
		(report_date, vehicle_id, vehicle_name, distance_km, fuel_liters, cost,
		 latitude, longitude, server_time, ignition, fuel_price, avg_economy, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := db.conn.Exec(query,
		reportDate.Format("2006-01-02"), row.VehicleID, row.VehicleName,
		row.Distance, row.FuelLiters, row.Cost,
		row.Latitude, row.Longitude, row.ServerTime, row.Ignition,
		fuelPrice, avgEconomy, createdAt)
	if err != nil {
		return false, fmt.Errorf("inserting report row: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}
	return n > 0, nil
}

// ListRows retrieves all stored rows for a report date, in insertion order
func (db *DB) ListRows(reportDate time.Time) ([]StoredRow, error) {
	query := selectRows + `WHERE report_date = ? ORDER BY id`
	rows, err := db.conn.Query(query, reportDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying report rows: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ListUnpublished retrieves all rows not yet published, oldest first
func (db *DB) ListUnpublished() ([]StoredRow, error) {
	query := selectRows + `WHERE published = 0 ORDER BY id`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying unpublished rows: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ListAll retrieves every stored row, oldest first
func (db *DB) ListAll() ([]StoredRow, error) {
	query := selectRows + `ORDER BY id`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying report rows: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ListDates returns the distinct report dates with stored rows, newest first
func (db *DB) ListDates() ([]time.Time, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT report_date FROM report_rows ORDER BY report_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying report dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, fmt.Errorf("scanning date: %w", err)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing report_date: %w", err)
		}
		dates = append(dates, date)
	}

	return dates, rows.Err()
}

// MarkPublished marks a stored row as published
func (db *DB) MarkPublished(id int) error {
	_, err := db.conn.Exec(`UPDATE report_rows SET published = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking row as published: %w", err)
	}
	return nil
}

const selectRows = `
	SELECT id, report_date, vehicle_id, vehicle_name, distance_km, fuel_liters, cost,
	       latitude, longitude, server_time, ignition, fuel_price, avg_economy, published
	FROM report_rows
	`

func scanRows(rows *sql.Rows) ([]StoredRow, error) {
	var results []StoredRow
	for rows.Next() {
		var r StoredRow
		var dateStr string
		var lat, lon sql.NullFloat64
		var serverTime sql.NullString
		var published int

		if err := rows.Scan(&r.ID, &dateStr, &r.VehicleID, &r.VehicleName,
			&r.Distance, &r.FuelLiters, &r.Cost,
			&lat, &lon, &serverTime, &r.Ignition,
			&r.FuelPrice, &r.AvgEconomy, &published); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing report_date: %w", err)
		}
		r.ReportDate = date
		r.Latitude = lat.Float64
		r.Longitude = lon.Float64
		r.ServerTime = serverTime.String
		r.Published = published != 0

		results = append(results, r)
	}

	return results, rows.Err()
}
