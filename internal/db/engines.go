package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// SQLiteEngineStore implements EngineStore on SQLite.
type SQLiteEngineStore struct {
	DB *sql.DB
}

// Insert adds a new engine record and returns its id.
func (s *SQLiteEngineStore) Insert(ctx context.Context, engine models.Engine) (int64, error) {
	if engine.EngineSerial == "" {
		return 0, fmt.Errorf("engine serial is required")
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO engines
		(engine_serial, engine_model, ecm_type, vehicle_type, year, mileage, customer_name, location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		engine.EngineSerial, nullString(engine.EngineModel), nullString(engine.ECMType),
		nullString(engine.VehicleType), engine.Year, engine.Mileage,
		nullString(engine.CustomerName), nullString(engine.Location))
	if err != nil {
		return 0, fmt.Errorf("insert engine: %w", err)
	}
	return res.LastInsertId()
}

// GetBySerial finds an engine by its serial number. Returns (nil, nil) when
// the serial is unknown.
func (s *SQLiteEngineStore) GetBySerial(ctx context.Context, serial string) (*models.Engine, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, engine_serial, engine_model, ecm_type, vehicle_type, year,
		        mileage, customer_name, location, created_at
		 FROM engines WHERE engine_serial = ?`, serial)

	var e models.Engine
	var model, ecm, vtype, customer, location, createdAt sql.NullString
	var year, mileage sql.NullInt64
	err := row.Scan(&e.ID, &e.EngineSerial, &model, &ecm, &vtype, &year,
		&mileage, &customer, &location, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.EngineModel = model.String
	e.ECMType = ecm.String
	e.VehicleType = vtype.String
	e.Year = int(year.Int64)
	e.Mileage = mileage.Int64
	e.CustomerName = customer.String
	e.Location = location.String
	e.CreatedAt = parseTime(createdAt.String)
	return &e, nil
}

// UpdateMileage updates the recorded odometer reading for an engine.
func (s *SQLiteEngineStore) UpdateMileage(ctx context.Context, serial string, mileage int64) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE engines SET mileage = ? WHERE engine_serial = ?`, mileage, serial)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
