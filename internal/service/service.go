package service

import (
	"github.com/jmoiron/sqlx"

	"powermon-backend/internal/ingest"
	"powermon-backend/internal/notify"
	"powermon-backend/internal/repository"
)

type Services struct {
	Repos  *repository.Repos
	Ingest *ingest.Pipeline
	Toggle *ToggleService
}

func New(db *sqlx.DB, pub notify.Publisher) *Services {
	repos := repository.New(db)
	return &Services{
		Repos:  repos,
		Ingest: ingest.NewPipeline(repos),
		Toggle: NewToggleService(repos, pub),
	}
}
