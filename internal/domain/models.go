package domain

import "time"

type Device struct {
	ID              int64 `db:"id" json:"id"`
	NumberOfModules int   `db:"number_of_modules" json:"number_of_modules"`
}

type Module struct {
	ID           int64 `db:"id" json:"id"`
	DeviceID     int64 `db:"device_id" json:"device_id"`
	ModuleNumber int   `db:"module_number" json:"module_number"`
	On           int   `db:"on" json:"status"`
}

type Measurement struct {
	ID          int64     `db:"id" json:"id"`
	ModuleID    int64     `db:"module_id" json:"module_id"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Voltage     float64   `db:"voltage" json:"voltage"`
	Current     float64   `db:"current" json:"current"`
	Power       float64   `db:"power" json:"power"`
	Energy      float64   `db:"energy" json:"energy"`
	Frequency   float64   `db:"frequency" json:"frequency"`
	PowerFactor float64   `db:"power_factor" json:"power_factor"`
}

// SensorReading is a row from the superseded single-sensor schema. Nothing
// writes this table anymore; it is kept read-only for GET /readings.
type SensorReading struct {
	ID        int64  `db:"id" json:"id"`
	Voltage   string `db:"voltage" json:"voltage"`
	Current   string `db:"current" json:"current"`
	Power     string `db:"power" json:"power"`
	Energy    string `db:"energy" json:"energy"`
	Frequency string `db:"frequency" json:"frequency"`
	PF        string `db:"pf" json:"pf"`
}
