// Package ingest turns a device's batched, relative-timestamped readings
// into committed measurement rows.
package ingest

import (
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"powermon-backend/internal/apperr"
	"powermon-backend/internal/domain"
	"powermon-backend/internal/metrics"
)

// Store is the slice of the repository the pipeline needs.
type Store interface {
	FindModuleByNumber(deviceID int64, moduleNumber int) (*domain.Module, error)
	InsertMeasurements(ms []domain.Measurement) error
}

type Pipeline struct {
	store Store
	now   func() time.Time
}

func NewPipeline(store Store) *Pipeline {
	return &Pipeline{store: store, now: time.Now}
}

// Ingest validates req, resolves every reading to a module, normalizes the
// group timestamps against the request arrival instant and commits the whole
// batch in one transaction. Any failure leaves the store untouched. Returns
// the number of measurements committed.
func (p *Pipeline) Ingest(req *domain.IngestRequest) (int, error) {
	arrival := p.now()

	deviceID, err := validate(req)
	if err != nil {
		metrics.BatchesRejected.Inc()
		return 0, err
	}

	relative := make([]int64, len(req.Data))
	for i, g := range req.Data {
		relative[i] = g.Timestamp
	}
	absolute := Normalize(arrival, relative)

	var measurements []domain.Measurement
	for i, g := range req.Data {
		for _, rd := range g.Readings {
			mod, err := p.store.FindModuleByNumber(deviceID, rd.Module)
			if err != nil {
				metrics.BatchesRejected.Inc()
				return 0, err
			}
			measurements = append(measurements, domain.Measurement{
				ModuleID:    mod.ID,
				Timestamp:   absolute[i],
				Voltage:     *rd.Voltage,
				Current:     *rd.Current,
				Power:       *rd.Power,
				Energy:      *rd.Energy,
				Frequency:   *rd.Frequency,
				PowerFactor: *rd.PowerFactor,
			})
		}
	}

	if err := p.store.InsertMeasurements(measurements); err != nil {
		metrics.BatchesRejected.Inc()
		if apperr.KindOf(err) != "" {
			return 0, err
		}
		return 0, apperr.Wrap(apperr.KindUnavailable, err, "failed to persist batch")
	}

	metrics.BatchesAccepted.Inc()
	metrics.MeasurementsIngested.Add(float64(len(measurements)))
	log.Info().
		Int64("device_id", deviceID).
		Int("groups", len(req.Data)).
		Int("measurements", len(measurements)).
		Msg("batch ingested")
	return len(measurements), nil
}

// validate checks the batch structure before any lookup. A malformed batch
// is rejected whole; readings are never partially accepted or zero-filled.
func validate(req *domain.IngestRequest) (int64, error) {
	if req.DeviceID == "" {
		return 0, apperr.Invalid("deviceId is required")
	}
	deviceID, err := strconv.ParseInt(req.DeviceID, 10, 64)
	if err != nil {
		return 0, apperr.Invalid("deviceId %q is not a valid device identifier", req.DeviceID)
	}
	if len(req.Data) == 0 {
		return 0, apperr.Invalid("data must contain at least one timestamped group")
	}
	for i, g := range req.Data {
		if len(g.Readings) == 0 {
			return 0, apperr.Invalid("data[%d] has no readings", i)
		}
		for j, rd := range g.Readings {
			if rd.Module < 1 {
				return 0, apperr.Invalid("data[%d].readings[%d] has no module number", i, j)
			}
			if rd.Voltage == nil || rd.Current == nil || rd.Power == nil ||
				rd.Energy == nil || rd.Frequency == nil || rd.PowerFactor == nil {
				return 0, apperr.Invalid("data[%d].readings[%d] for module %d is missing a reading field", i, j, rd.Module)
			}
		}
	}
	return deviceID, nil
}
