// Package server exposes a service.Backend over the HTTP API the board
// client speaks.
package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/alexanderramin/incidentboard/internal/service"
)

// New builds an echo instance with every route registered.
func New(backend service.Backend, logger *log.Logger) *echo.Echo {
	if logger == nil {
		logger = log.New()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}

	e.Use(middleware.Recover())
	e.Use(requestID())
	e.Use(requestLogger(logger))

	Register(e, backend, logger)
	return e
}
