package models

import "time"

// Engine represents a physical engine unit under service.
type Engine struct {
	ID           int64     `json:"id"`
	EngineSerial string    `json:"engine_serial"`
	EngineModel  string    `json:"engine_model"`
	ECMType      string    `json:"ecm_type,omitempty"`
	VehicleType  string    `json:"vehicle_type,omitempty"`
	Year         int       `json:"year"`
	Mileage      int64     `json:"mileage"`
	CustomerName string    `json:"customer_name,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
