package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"powermon-backend/internal/apperr"
	"powermon-backend/internal/domain"
	"powermon-backend/internal/service"
)

// BrokerStatus reports whether the control-plane broker connection is up.
type BrokerStatus interface {
	IsConnected() bool
}

func Register(app *fiber.App, svcs *service.Services, broker BrokerStatus) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the homepage!"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		if broker != nil && !broker.IsConnected() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("mqtt disconnected")
		}
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/add-device/:number_of_modules", func(c *fiber.Ctx) error {
		n, err := c.ParamsInt("number_of_modules")
		if err != nil || n < 1 {
			return writeError(c, apperr.Invalid("number_of_modules must be a positive integer"))
		}
		dev, err := svcs.Repos.CreateDeviceWithModules(n)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dev)
	})

	app.Post("/receive_data", func(c *fiber.Ctx) error {
		var req domain.IngestRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, apperr.Wrap(apperr.KindInvalidInput, err, "malformed request body"))
		}
		if _, err := svcs.Ingest.Ingest(&req); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Data received successfully"})
	})

	app.Get("/all", func(c *fiber.Ctx) error {
		devices, err := svcs.Repos.ListDevices()
		if err != nil {
			return writeError(c, err)
		}
		out := make([]domain.DeviceWithModules, 0, len(devices))
		for _, d := range devices {
			modules, err := svcs.Repos.GetModulesForDevice(d.ID)
			if err != nil {
				return writeError(c, err)
			}
			out = append(out, domain.DeviceWithModules{Device: d, Modules: modules})
		}
		return c.JSON(out)
	})

	app.Get("/device/:device_id", func(c *fiber.Ctx) error {
		deviceID, err := paramInt64(c, "device_id")
		if err != nil {
			return writeError(c, err)
		}
		dev, err := svcs.Repos.GetDevice(deviceID)
		if err != nil {
			return writeError(c, err)
		}
		modules, err := svcs.Repos.GetModulesForDevice(deviceID)
		if err != nil {
			return writeError(c, err)
		}
		detail := domain.DeviceDetail{Device: *dev, Modules: make([]domain.ModuleDetail, 0, len(modules))}
		for _, m := range modules {
			measurements, err := svcs.Repos.GetModuleMeasurements(m.ID)
			if err != nil {
				return writeError(c, err)
			}
			detail.Modules = append(detail.Modules, domain.ModuleDetail{Module: m, Measurements: measurements})
		}
		return c.JSON(detail)
	})

	app.Get("/module/:module_id", func(c *fiber.Ctx) error {
		moduleID, err := paramInt64(c, "module_id")
		if err != nil {
			return writeError(c, err)
		}
		mod, err := svcs.Repos.GetModule(moduleID)
		if err != nil {
			return writeError(c, err)
		}
		measurements, err := svcs.Repos.GetModuleMeasurements(mod.ID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(domain.ModuleDetail{Module: *mod, Measurements: measurements})
	})

	app.Get("/device_status/:device_id", func(c *fiber.Ctx) error {
		deviceID, err := paramInt64(c, "device_id")
		if err != nil {
			return writeError(c, err)
		}
		status, err := svcs.Repos.DeviceStatus(deviceID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(status)
	})

	app.Put("/device/:device_id/module/:module_number/toggle-status", func(c *fiber.Ctx) error {
		deviceID, err := paramInt64(c, "device_id")
		if err != nil {
			return writeError(c, err)
		}
		moduleNumber, err := c.ParamsInt("module_number")
		if err != nil || moduleNumber < 1 {
			return writeError(c, apperr.Invalid("module_number must be a positive integer"))
		}
		mod, err := svcs.Toggle.Toggle(deviceID, moduleNumber)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(mod)
	})

	app.Get("/readings", func(c *fiber.Ctx) error {
		readings, err := svcs.Repos.ListSensorReadings()
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(readings)
	})
}

func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, apperr.Invalid("%s must be an integer", name)
	}
	return v, nil
}

func writeError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return c.Status(statusFor(ae.Kind)).JSON(fiber.Map{
			"error": ae.Message,
			"code":  string(ae.Kind),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
		"code":  "internal",
	})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
