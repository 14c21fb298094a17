// Package api serves the library web endpoints over HTTP/1.1 and h2c.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"library/config"
	"library/internal/delivery"
	apimiddleware "library/internal/delivery/api/middleware"
	"library/internal/delivery/api/router"
	"library/internal/delivery/middleware"
	"library/internal/domain/lifecycle"
	"library/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

type ServerParams struct {
	fx.In

	Lc                fx.Lifecycle
	Cfg               *config.Config
	Logger            *slog.Logger
	Metrics           *metrics.Metrics
	SessionMiddleware *apimiddleware.SessionMiddleware
	RouterParams      router.RouterParams
}

type httpServer struct {
	addr   string
	idle   http2.Server
	logger *slog.Logger
	echo   *echo.Echo
}

// NewServer registers graceful shutdown with fx; Serve is started by main.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := &httpServer{
		addr:   net.JoinHostPort("0.0.0.0", strconv.Itoa(params.Cfg.HTTP.Port)),
		idle:   http2.Server{IdleTimeout: params.Cfg.HTTP.Timeouts.IdleTimeout},
		logger: params.Logger,
		echo:   NewEcho(params),
	}
	params.Lc.Append(fx.StopHook(srv.shutdown))

	return srv, nil
}

// NewEcho assembles the middleware chain and routes. Order matters: the
// request id scopes the logger, and the session is loaded before the access
// log so the account id is recorded.
func NewEcho(params ServerParams) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	timeouts := params.Cfg.HTTP.Timeouts
	e.Server.ReadTimeout = timeouts.ReadTimeout
	e.Server.ReadHeaderTimeout = timeouts.ReadHeaderTimeout
	e.Server.WriteTimeout = timeouts.WriteTimeout
	e.Server.IdleTimeout = timeouts.IdleTimeout

	e.Use(
		echomiddleware.Recover(),
		middleware.NewRequestIDMiddleware(params.Logger).Process,
		params.SessionMiddleware.Load,
		middleware.NewLoggerMiddleware(params.Logger, params.Cfg).Handle,
		apimiddleware.NewMetricsMiddleware(params.Metrics).Handle,
		echomiddleware.CORS(),
		echomiddleware.BodyLimit(params.Cfg.HTTP.MaxRequestBodySize),
	)
	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(params.Logger).HandleHTTPError

	r := router.NewRouter(params.RouterParams)
	r.RegisterRoutes(e)
	r.RegisterMetricsRoute(e)

	return e
}

func (s *httpServer) Serve(context.Context) error {
	s.logger.Info("Library HTTP server listening", slog.String("addr", s.addr))

	err := s.echo.StartH2CServer(s.addr, &s.idle)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return errors.WithStack(err)
}

func (s *httpServer) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Library HTTP server shutting down")

	return errors.WithStack(s.echo.Shutdown(ctx))
}
