package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"powermon-backend/internal/apperr"
	"powermon-backend/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// CreateDeviceWithModules allocates a device row and its modules numbered
// 1..n in one transaction. Every module starts off.
func (r *Repos) CreateDeviceWithModules(n int) (*domain.DeviceWithModules, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var deviceID int64
	if err := tx.Get(&deviceID,
		`INSERT INTO devices(number_of_modules) VALUES ($1) RETURNING id`, n); err != nil {
		return nil, err
	}

	modules := make([]domain.Module, 0, n)
	for i := 1; i <= n; i++ {
		var moduleID int64
		if err := tx.Get(&moduleID,
			`INSERT INTO modules(device_id, module_number, "on") VALUES ($1, $2, 0) RETURNING id`,
			deviceID, i); err != nil {
			return nil, err
		}
		modules = append(modules, domain.Module{
			ID:           moduleID,
			DeviceID:     deviceID,
			ModuleNumber: i,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.DeviceWithModules{
		Device:  domain.Device{ID: deviceID, NumberOfModules: n},
		Modules: modules,
	}, nil
}

func (r *Repos) ListDevices() ([]domain.Device, error) {
	var out []domain.Device
	err := r.db.Select(&out, `SELECT id, number_of_modules FROM devices ORDER BY id`)
	return out, err
}

func (r *Repos) GetDevice(id int64) (*domain.Device, error) {
	var d domain.Device
	err := r.db.Get(&d, `SELECT id, number_of_modules FROM devices WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("device %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repos) GetModulesForDevice(deviceID int64) ([]domain.Module, error) {
	var out []domain.Module
	err := r.db.Select(&out,
		`SELECT id, device_id, module_number, "on" FROM modules WHERE device_id = $1 ORDER BY module_number`,
		deviceID)
	return out, err
}

func (r *Repos) GetModule(id int64) (*domain.Module, error) {
	var m domain.Module
	err := r.db.Get(&m,
		`SELECT id, device_id, module_number, "on" FROM modules WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("module %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindModuleByNumber resolves a module by its per-device number, the address
// a device uses on the wire.
func (r *Repos) FindModuleByNumber(deviceID int64, moduleNumber int) (*domain.Module, error) {
	var m domain.Module
	err := r.db.Get(&m,
		`SELECT id, device_id, module_number, "on" FROM modules WHERE device_id = $1 AND module_number = $2`,
		deviceID, moduleNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("module %d not found for device %d", moduleNumber, deviceID)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repos) GetModuleMeasurements(moduleID int64) ([]domain.Measurement, error) {
	var out []domain.Measurement
	err := r.db.Select(&out,
		`SELECT id, module_id, timestamp, voltage, current, power, energy, frequency, power_factor
		 FROM measurements WHERE module_id = $1 ORDER BY timestamp`,
		moduleID)
	return out, err
}

// InsertMeasurements commits a whole batch or nothing.
func (r *Repos) InsertMeasurements(ms []domain.Measurement) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range ms {
		if _, err := tx.Exec(
			`INSERT INTO measurements(module_id, timestamp, voltage, current, power, energy, frequency, power_factor)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			m.ModuleID, m.Timestamp, m.Voltage, m.Current, m.Power, m.Energy, m.Frequency, m.PowerFactor); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ToggleModuleStatus flips the on/off bit and returns the updated module.
func (r *Repos) ToggleModuleStatus(deviceID int64, moduleNumber int) (*domain.Module, error) {
	var m domain.Module
	err := r.db.Get(&m,
		`UPDATE modules SET "on" = 1 - "on" WHERE device_id = $1 AND module_number = $2
		 RETURNING id, device_id, module_number, "on"`,
		deviceID, moduleNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("module %d not found for device %d", moduleNumber, deviceID)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repos) DeviceStatus(deviceID int64) (*domain.DeviceStatus, error) {
	d, err := r.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	var statuses []domain.ModuleStatus
	if err := r.db.Select(&statuses,
		`SELECT module_number, "on" FROM modules WHERE device_id = $1 ORDER BY module_number`,
		deviceID); err != nil {
		return nil, err
	}
	return &domain.DeviceStatus{
		DeviceID:        d.ID,
		NumberOfModules: d.NumberOfModules,
		Modules:         statuses,
	}, nil
}

func (r *Repos) ListSensorReadings() ([]domain.SensorReading, error) {
	var out []domain.SensorReading
	err := r.db.Select(&out,
		`SELECT id, voltage, current, power, energy, frequency, pf FROM sensor_data ORDER BY id`)
	return out, err
}
