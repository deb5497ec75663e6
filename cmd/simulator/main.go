package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"powermon-backend/internal/domain"
)

// Pushes synthetic batches at the API the way a two-module power monitor
// would: a handful of relative-timestamped groups per request.

func main() {
	viper.SetDefault("API_URL", "http://localhost:8000")
	viper.SetDefault("SIM_MODULES", 2)
	viper.AutomaticEnv()

	apiURL := viper.GetString("API_URL")
	modules := viper.GetInt("SIM_MODULES")

	deviceID, err := registerDevice(apiURL, modules)
	if err != nil {
		log.Fatal().Err(err).Msg("device registration failed")
	}
	log.Info().Int64("device_id", deviceID).Int("modules", modules).Msg("device registered")

	var uptime int64
	for i := 0; i < 100; i++ {
		batch := domain.IngestRequest{DeviceID: strconv.FormatInt(deviceID, 10)}
		for g := 0; g < 3; g++ {
			uptime += 1000
			group := domain.ReadingGroup{Timestamp: uptime}
			for m := 1; m <= modules; m++ {
				group.Readings = append(group.Readings, reading(m))
			}
			batch.Data = append(batch.Data, group)
		}
		if err := postJSON(apiURL+"/receive_data", batch, nil); err != nil {
			log.Error().Err(err).Msg("batch push failed")
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}

func reading(module int) domain.ModuleReading {
	f := func(v float64) *float64 { return &v }
	return domain.ModuleReading{
		Module:      module,
		Voltage:     f(230 + rand.Float64()*5),
		Current:     f(1 + rand.Float64()),
		Power:       f(230 + rand.Float64()*200),
		Energy:      f(rand.Float64() * 2),
		Frequency:   f(50 + rand.Float64()*0.1),
		PowerFactor: f(0.9 + rand.Float64()*0.1),
	}
}

func registerDevice(apiURL string, modules int) (int64, error) {
	var dev domain.DeviceWithModules
	if err := postJSON(fmt.Sprintf("%s/add-device/%d", apiURL, modules), nil, &dev); err != nil {
		return 0, err
	}
	return dev.ID, nil
}

func postJSON(url string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
