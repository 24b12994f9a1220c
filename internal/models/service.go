package models

import "time"

// ServiceRecord is one historical repair event on an engine. Records are
// append-only and never mutated after creation.
type ServiceRecord struct {
	ID             int64     `json:"id"`
	EngineSerial   string    `json:"engine_serial"`
	ServiceDate    time.Time `json:"service_date"`
	FaultCodeInput string    `json:"fault_code_input,omitempty"`
	RepairType     string    `json:"repair_type"`
	PartsReplaced  string    `json:"parts_replaced,omitempty"`
	PartCost       float64   `json:"part_cost"`
	TechnicianID   string    `json:"technician_id,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	WarrantyStatus string    `json:"warranty_status"`
	CreatedAt      time.Time `json:"created_at"`
}
