package database

import "github.com/jmoiron/sqlx"

const schema = `
CREATE TABLE IF NOT EXISTS devices (
    id BIGSERIAL PRIMARY KEY,
    number_of_modules INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS modules (
    id BIGSERIAL PRIMARY KEY,
    device_id BIGINT NOT NULL REFERENCES devices(id),
    module_number INTEGER NOT NULL,
    "on" INTEGER NOT NULL DEFAULT 0,
    UNIQUE (device_id, module_number)
);

CREATE TABLE IF NOT EXISTS measurements (
    id BIGSERIAL PRIMARY KEY,
    module_id BIGINT NOT NULL REFERENCES modules(id),
    timestamp TIMESTAMPTZ NOT NULL,
    voltage DOUBLE PRECISION NOT NULL,
    current DOUBLE PRECISION NOT NULL,
    power DOUBLE PRECISION NOT NULL,
    energy DOUBLE PRECISION NOT NULL,
    frequency DOUBLE PRECISION NOT NULL,
    power_factor DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_measurements_module_time
    ON measurements(module_id, timestamp);

-- Superseded single-sensor schema, read-only via GET /readings.
CREATE TABLE IF NOT EXISTS sensor_data (
    id BIGSERIAL PRIMARY KEY,
    voltage TEXT NOT NULL,
    current TEXT NOT NULL,
    power TEXT NOT NULL,
    energy TEXT NOT NULL,
    frequency TEXT NOT NULL,
    pf TEXT NOT NULL
);
`

// Migrate applies the schema. All statements are idempotent, so running it
// on every startup is safe.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
