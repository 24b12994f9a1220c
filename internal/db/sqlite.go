package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Connect opens the SQLite database at the given path and enables foreign
// key enforcement.
func Connect(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open error: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db.Ping error: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables and indexes if they do not exist.
func CreateSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS fault_codes (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			oem_code        INTEGER UNIQUE,
			spn             INTEGER,
			fmi             INTEGER,
			obd2_code       TEXT UNIQUE,
			pid_sid         TEXT UNIQUE,
			description     TEXT NOT NULL,
			system_category TEXT,
			complexity      TEXT CHECK(complexity IN ('low', 'medium', 'high')),
			safety_critical INTEGER DEFAULT 0,
			causes_derate   INTEGER DEFAULT 0,
			qsol_procedure  TEXT,
			applies_to      TEXT DEFAULT 'all',
			created_at      TEXT DEFAULT (datetime('now')),
			UNIQUE(spn, fmi)
		)`,
		`CREATE TABLE IF NOT EXISTS typical_causes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			fault_code_id INTEGER NOT NULL,
			cause         TEXT NOT NULL,
			probability   REAL,
			FOREIGN KEY (fault_code_id) REFERENCES fault_codes(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS edge_cases (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			fault_code_id INTEGER NOT NULL,
			scenario      TEXT NOT NULL,
			likely_cause  TEXT NOT NULL,
			ai_value_add  TEXT NOT NULL,
			FOREIGN KEY (fault_code_id) REFERENCES fault_codes(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS engines (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			engine_serial TEXT NOT NULL UNIQUE,
			engine_model  TEXT,
			ecm_type      TEXT,
			vehicle_type  TEXT,
			year          INTEGER,
			mileage       INTEGER,
			customer_name TEXT,
			location      TEXT,
			created_at    TEXT DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS technicians (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			tech_id       TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			skill_level   TEXT CHECK(skill_level IN ('junior', 'intermediate', 'senior')),
			email         TEXT,
			phone         TEXT,
			password_hash TEXT,
			is_active     INTEGER DEFAULT 1,
			last_login    TEXT,
			created_at    TEXT DEFAULT (datetime('now')),
			updated_at    TEXT DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS service_history (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			engine_serial    TEXT NOT NULL,
			service_date     TEXT NOT NULL,
			fault_code_input TEXT,
			repair_type      TEXT NOT NULL,
			parts_replaced   TEXT,
			part_cost        REAL DEFAULT 0,
			technician_id    TEXT,
			technician_notes TEXT,
			warranty_status  TEXT DEFAULT 'none',
			created_at       TEXT DEFAULT (datetime('now')),
			FOREIGN KEY (engine_serial) REFERENCES engines(engine_serial)
		)`,
		`CREATE TABLE IF NOT EXISTS decision_logs (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp             TEXT NOT NULL,
			engine_serial         TEXT NOT NULL,
			fault_code_input      TEXT NOT NULL,
			fault_code_id         INTEGER,
			tech_id               TEXT NOT NULL,
			tech_skill_level      TEXT,
			symptoms              TEXT,
			insite_data           TEXT,
			triage_diagnosis      TEXT,
			triage_confidence     INTEGER,
			triage_reasoning      TEXT,
			alternative_causes    TEXT,
			recommended_tests     TEXT,
			recent_repairs        TEXT,
			service_history_flags TEXT,
			escalation_decision   TEXT,
			escalation_reasoning  TEXT,
			requires_approval     INTEGER,
			approved_by           TEXT,
			approval_timestamp    TEXT,
			actual_repair         TEXT,
			parts_used            TEXT,
			repair_successful     INTEGER,
			online_status         TEXT,
			llm_model             TEXT,
			llm_version           TEXT,
			created_at            TEXT DEFAULT (datetime('now')),
			updated_at            TEXT DEFAULT (datetime('now')),
			FOREIGN KEY (fault_code_id) REFERENCES fault_codes(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decision_engine ON decision_logs(engine_serial)`,
		`CREATE INDEX IF NOT EXISTS idx_decision_tech ON decision_logs(tech_id)`,
		`CREATE INDEX IF NOT EXISTS idx_decision_time ON decision_logs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_service_engine ON service_history(engine_serial)`,
		`CREATE INDEX IF NOT EXISTS idx_service_date ON service_history(service_date)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
