package domain

// IngestRequest is the transient envelope posted by a device to
// POST /receive_data. It is parsed, normalized and discarded per request;
// nothing here is persisted as-is.
type IngestRequest struct {
	DeviceID string         `json:"deviceId"`
	Data     []ReadingGroup `json:"data"`
}

// ReadingGroup holds one device-relative timestamp (milliseconds on the
// device's own clock) and the readings sampled at that instant.
type ReadingGroup struct {
	Timestamp int64           `json:"timestamp"`
	Readings  []ModuleReading `json:"readings"`
}

// ModuleReading carries one module's six electrical readings. Fields are
// pointers so an absent value is distinguishable from zero; a nil field
// fails the whole batch.
type ModuleReading struct {
	Module      int      `json:"module"`
	Voltage     *float64 `json:"voltage"`
	Current     *float64 `json:"current"`
	Power       *float64 `json:"power"`
	Energy      *float64 `json:"energy"`
	Frequency   *float64 `json:"frequency"`
	PowerFactor *float64 `json:"powerFactor"`
}

// StatusNotification is the retained MQTT payload published after a toggle.
type StatusNotification struct {
	DeviceID     int64 `json:"device_id"`
	ModuleNumber int   `json:"module_number"`
	Status       int   `json:"status"`
}

// Read-side projections.

type DeviceWithModules struct {
	Device
	Modules []Module `json:"modules"`
}

type ModuleDetail struct {
	Module
	Measurements []Measurement `json:"measurements"`
}

type DeviceDetail struct {
	Device
	Modules []ModuleDetail `json:"modules"`
}

type ModuleStatus struct {
	ModuleNumber int `db:"module_number" json:"module_number"`
	Status       int `db:"on" json:"status"`
}

type DeviceStatus struct {
	DeviceID        int64          `json:"device_id"`
	NumberOfModules int            `json:"number_of_modules"`
	Modules         []ModuleStatus `json:"modules"`
}
