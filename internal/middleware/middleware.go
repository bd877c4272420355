package middleware

import (
	"github.com/newsletter/newsletter/internal/config"
	"github.com/newsletter/newsletter/internal/database"
	"github.com/newsletter/newsletter/internal/logger"
)

// Middleware holds all HTTP middleware
type Middleware struct {
	rdb *database.Redis
	log *logger.Logger
	cfg *config.Config
}

// New creates a new Middleware instance. rdb may be nil when Redis is
// disabled; rate limiting is then skipped.
func New(rdb *database.Redis, log *logger.Logger, cfg *config.Config) *Middleware {
	return &Middleware{
		rdb: rdb,
		log: log,
		cfg: cfg,
	}
}
