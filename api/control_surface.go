package api

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fairq/fairq/pool"
)

// ControlSurface includes the methods the REST API can use to control and
// communicate with the rest of the server.
type ControlSurface struct {
	Pool      *pool.Pool[*Session]
	Logger    logrus.FieldLogger
	StartedAt time.Time

	workDone atomic.Int64
}

// NewControlSurface builds the session pool from cfg and bundles it up for
// the API handlers. Sessions are provisioned through SessionFactory with
// the given options.
func NewControlSurface(logger logrus.FieldLogger, cfg pool.Config, opts SessionOptions) (*ControlSurface, error) {
	p, err := pool.New(logger, cfg, SessionFactory(), opts)
	if err != nil {
		return nil, err
	}
	return &ControlSurface{
		Pool:      p,
		Logger:    logger,
		StartedAt: time.Now(),
	}, nil
}
