package handler

import (
	"context"

	"github.com/newsletter/newsletter/internal/config"
	"github.com/newsletter/newsletter/internal/database"
	"github.com/newsletter/newsletter/internal/logger"
)

// Registrar registers newsletter subscribers from raw form values
type Registrar interface {
	Register(ctx context.Context, rawName, rawEmail string) error
}

// Handler holds all HTTP handlers
type Handler struct {
	db      *database.Postgres
	rdb     *database.Redis
	log     *logger.Logger
	cfg     *config.Config
	subsSvc Registrar
}

// New creates a new Handler instance. rdb may be nil when Redis is disabled.
func New(db *database.Postgres, rdb *database.Redis, log *logger.Logger, cfg *config.Config, subsSvc Registrar) *Handler {
	return &Handler{
		db:      db,
		rdb:     rdb,
		log:     log.WithComponent("handler"),
		cfg:     cfg,
		subsSvc: subsSvc,
	}
}
