package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"powermon-backend/internal/config"
	"powermon-backend/internal/database"
	httpHandlers "powermon-backend/internal/http"
	"powermon-backend/internal/notify"
	"powermon-backend/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	mqttClient, err := notify.Connect(config.MQTTBroker(), config.MQTTClientID())
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect failed")
	}
	defer mqttClient.Disconnect()

	svcs := service.New(db, mqttClient)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.CORSOrigins(),
		AllowMethods: "GET,POST,PUT,DELETE",
	}))

	httpHandlers.Register(app, svcs, mqttClient)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
