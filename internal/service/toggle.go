package service

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"powermon-backend/internal/apperr"
	"powermon-backend/internal/domain"
	"powermon-backend/internal/metrics"
	"powermon-backend/internal/notify"
)

// ToggleStore is the slice of the repository the toggle path needs.
type ToggleStore interface {
	ToggleModuleStatus(deviceID int64, moduleNumber int) (*domain.Module, error)
}

type ToggleService struct {
	store ToggleStore
	pub   notify.Publisher
}

func NewToggleService(store ToggleStore, pub notify.Publisher) *ToggleService {
	return &ToggleService{store: store, pub: pub}
}

// Toggle flips the module's on/off bit, then publishes the new status as a
// retained message so a module that reconnects later still receives the last
// known state. The store commit and the publish are not atomic: if the
// publish fails the new status stays committed and the caller gets an
// unavailable error.
func (s *ToggleService) Toggle(deviceID int64, moduleNumber int) (*domain.Module, error) {
	m, err := s.store.ToggleModuleStatus(deviceID, moduleNumber)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(domain.StatusNotification{
		DeviceID:     deviceID,
		ModuleNumber: moduleNumber,
		Status:       m.On,
	})
	if err != nil {
		return nil, err
	}

	topic := fmt.Sprintf("devices/%d/module/%d", deviceID, moduleNumber)
	if err := s.pub.Publish(topic, 1, true, payload); err != nil {
		metrics.PublishFailures.Inc()
		log.Error().Err(err).Str("topic", topic).Msg("status notification publish failed")
		return nil, apperr.Wrap(apperr.KindUnavailable, err,
			"status for module %d saved but notification was not delivered", moduleNumber)
	}

	metrics.Toggles.Inc()
	log.Info().
		Int64("device_id", deviceID).
		Int("module_number", moduleNumber).
		Int("status", m.On).
		Msg("module status toggled")
	return m, nil
}
