package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trendai/watchdog/util/svcutil"
	"github.com/trendai/watchdog/watchdog/engine"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	slogecho "github.com/samber/slog-echo"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "run the HTTP API",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for HTTP APIs (including /metrics)",
			Value:   ":3990",
			EnvVars: []string{"WATCHDOG_BIND"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := svcutil.ConfigLogger(cctx, os.Stdout)

		stopTracing, err := setupTracing(ctx)
		if err != nil {
			return err
		}
		defer stopTracing()

		eng, err := engineFromFlags(ctx, cctx, logger)
		if err != nil {
			return err
		}

		srv := NewServer(eng, Config{
			Logger: logger,
			Bind:   cctx.String("bind"),
		})
		if err := srv.Run(); err != nil {
			return fmt.Errorf("failed to run watchdog service: %w", err)
		}
		return nil
	},
}

type Server struct {
	eng    *engine.Engine
	echo   *echo.Echo
	httpd  *http.Server
	logger *slog.Logger
}

type Config struct {
	Logger *slog.Logger
	Bind   string
	// HTTP metrics registry; defaults to the prometheus default registerer
	Registerer prometheus.Registerer
}

func NewServer(eng *engine.Engine, config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()

	// httpd
	var (
		httpTimeout        = 1 * time.Minute
		httpMaxHeaderBytes = 1 * (1024 * 1024)
	)

	srv := &Server{
		eng:    eng,
		echo:   e,
		logger: logger,
	}
	srv.httpd = &http.Server{
		Handler:        srv,
		Addr:           config.Bind,
		WriteTimeout:   httpTimeout,
		ReadTimeout:    httpTimeout,
		MaxHeaderBytes: httpMaxHeaderBytes,
	}

	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("watchdog"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "watchdog",
		Registerer: config.Registerer,
	}))
	e.Use(middleware.BodyLimit("16M"))
	e.HTTPErrorHandler = srv.errorHandler

	e.GET("/_health", srv.HandleHealthCheck)
	e.GET("/metrics", echoprometheus.NewHandler())

	e.POST("/risks/ingest", srv.HandleIngest)
	e.GET("/risks/:token", srv.HandleGetRisk)
	e.GET("/risks/:token/posts", srv.HandleGetPosts)
	e.POST("/watchdog/analyze/:token", srv.HandleAnalyze)
	e.POST("/watchdog/bulk-analyze", srv.HandleBulkAnalyze)
	e.GET("/narratives/:token", srv.HandleNarratives)
	e.GET("/accounts/:id/trust", srv.HandleAccountTrust)
	e.GET("/rankings/high-risk", srv.HandleHighRisk)

	return srv
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	srv.echo.ServeHTTP(rw, req)
}

func (srv *Server) Run() error {
	srv.logger.Info("starting server", "bind", srv.httpd.Addr)
	go func() {
		if err := srv.httpd.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				srv.logger.Error("HTTP server shutting down unexpectedly", "err", err)
			}
		}
	}()

	// Wait for a signal to exit.
	srv.logger.Info("registering OS exit signal handler")
	quit := make(chan struct{})
	exitSignals := make(chan os.Signal, 1)
	signal.Notify(exitSignals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-exitSignals
		srv.logger.Info("received OS exit signal", "signal", sig)

		if err := srv.Shutdown(); err != nil {
			srv.logger.Error("HTTP server shutdown error", "err", err)
		}

		// Trigger the return that causes an exit.
		close(quit)
	}()
	<-quit
	srv.logger.Info("graceful shutdown complete")
	return nil
}

func (srv *Server) Shutdown() error {
	srv.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.httpd.Shutdown(ctx)
}

type GenericStatus struct {
	Daemon  string `json:"daemon"`
	Status  string `json:"status"`
	Message string `json:"msg,omitempty"`
}

func (srv *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var errorMessage string
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		errorMessage = fmt.Sprintf("%s", he.Message)
	}
	if code >= 500 {
		srv.logger.Warn("watchdog-http-internal-error", "err", err)
		if errorMessage == "" {
			errorMessage = "internal error"
		}
	}
	if !c.Response().Committed {
		c.JSON(code, GenericStatus{Status: "error", Daemon: "watchdog", Message: errorMessage})
	}
}

func (srv *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, GenericStatus{Status: "ok", Daemon: "watchdog"})
}
