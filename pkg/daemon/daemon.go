package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	ginlogrus "github.com/toorop/gin-logrus"

	"github.com/healthwatcher/gluco/pkg/combined"
	"github.com/healthwatcher/gluco/pkg/config"
)

var (
	conf    config.Config
	session = combined.New()
)

// Options controls where the daemon listens.
type Options struct {
	ConfigPath string
	// UnixSocketPath is used unless ListenAddr is set.
	UnixSocketPath string
	// ListenAddr is a TCP host:port.
	ListenAddr   string
	AllowNonRoot bool
	// ReportSchedule is a cron expression for periodic glucose reports.
	// Empty disables them.
	ReportSchedule string
}

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(ginlogrus.Logger(logrus.StandardLogger()), gin.Recovery())
	router.GET("/version", getVersion)
	router.GET("/config", getConfig)
	router.PUT("/coefficients", setCoefficients)
	router.POST("/estimate/spo2", estimateSpO2)
	router.POST("/estimate/ppg", estimatePPG)
	router.POST("/calibrate", calibrate)
	router.POST("/summary", summarize)
	router.POST("/combined", estimateCombined)
	router.DELETE("/combined", resetCombined)
	router.GET("/events", streamEvents)
	router.GET("/report", getReport)

	return router
}

func listen(opts Options) (net.Listener, error) {
	if opts.ListenAddr != "" {
		return net.Listen("tcp", opts.ListenAddr)
	}

	// A socket left behind by a crashed daemon would make Listen fail.
	if _, err := os.Stat(opts.UnixSocketPath); err == nil {
		logrus.Warnf("removing stale socket %s", opts.UnixSocketPath)
		if err := os.Remove(opts.UnixSocketPath); err != nil {
			return nil, err
		}
	}

	l, err := net.Listen("unix", opts.UnixSocketPath)
	if err != nil {
		return nil, err
	}

	if opts.AllowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", opts.UnixSocketPath)
		if err := os.Chmod(opts.UnixSocketPath, 0777); err != nil {
			_ = l.Close()
			return nil, err
		}
	}

	return l, nil
}

// Run serves the HTTP API until ctx is done or SIGINT/SIGTERM is received.
// SIGHUP reloads the config file.
func Run(ctx context.Context, opts Options) error {
	router := setupRoutes()

	var err error
	conf, err = config.NewFile(opts.ConfigPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config during startup")
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer func() {
		signal.Stop(sighup)
		close(sighup)
	}()
	go func() {
		for range sighup {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	if opts.ReportSchedule != "" {
		if err := report.Start(opts.ReportSchedule); err != nil {
			return pkgerrors.Wrapf(err, "invalid report schedule %q", opts.ReportSchedule)
		}
		defer report.Stop()
	}

	l, err := listen(opts)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen")
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Event streams never finish on their own.
	srv.RegisterOnShutdown(hub.Close)

	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Handle common process-killing signals, so we can gracefully shut down.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logrus.Infof("shutting down: %v", context.Cause(ctx))
	case err := <-serveErr:
		return pkgerrors.Wrapf(err, "http server failed")
	}

	logrus.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}

	if opts.ListenAddr == "" {
		if err := os.Remove(opts.UnixSocketPath); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("failed to remove socket %s: %v", opts.UnixSocketPath, err)
		}
	}

	logrus.Info("exiting")
	return nil
}
