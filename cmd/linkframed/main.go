package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/zxhio/linkframe/internal/api"
	"github.com/zxhio/linkframe/internal/capture"
	_ "github.com/zxhio/linkframe/internal/capture/pcapture"
	"github.com/zxhio/linkframe/internal/config"
	"github.com/zxhio/linkframe/internal/handler"
	"github.com/zxhio/linkframe/internal/link"
	"github.com/zxhio/linkframe/internal/service"
	"github.com/zxhio/linkframe/pkg/builder"
	"github.com/zxhio/linkframe/pkg/profile"
)

const logoAscii = `
 |  o      |      _|_  _  _  _   _
 |  | |/\  |/    | |  (_|| |||  (/_
`

var (
	version    bool
	verbose    bool
	configPath string
)

func main() {
	pflag.StringVarP(&configPath, "config", "c", "", "Config file path (yaml or json)")
	pflag.BoolVarP(&version, "version", "V", false, "Print version")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	pflag.Parse()

	if version {
		fmt.Println(color.HiBlueString(logoAscii))
		fmt.Println(builder.BuildInfo())
		os.Exit(0)
	}

	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load config: %s\n", err)
			os.Exit(1)
		}
		cfg = *c
	}
	setupLogging(&cfg)

	logrus.WithFields(logrus.Fields{"pid": os.Getpid(), "config": configPath}).Info("///linkframed start")
	defer logrus.WithField("pid", os.Getpid()).Info("///linkframed quit")

	backend, err := capture.ByName(cfg.Backend)
	if err != nil {
		logrus.WithError(err).Fatal("Fatal to find capture backend")
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		logrus.WithError(err).Fatal("Fatal to listen")
	}
	defer lis.Close()
	logrus.WithField("addr", lis.Addr()).Info("Listen on")

	if cfg.Pprof != "" {
		plis, err := net.Listen("tcp", cfg.Pprof)
		if err != nil {
			logrus.WithError(err).Fatal("Fatal to listen pprof")
		}
		defer plis.Close()
		logrus.WithField("addr", plis.Addr()).Info("Serve pprof")
		go profile.Serve(plis)
	}

	kernel := link.NewKernel(
		link.WithDeviceOpts(link.WithBackend(backend), link.WithCaptureConfig(cfg.CaptureConfig())),
		link.WithPollInterval(cfg.PollInterval),
	)
	svc := service.NewDeviceService(kernel, handler.NewLogger(logrus.WithField("component", "dispatch")))
	defer svc.Close()

	for _, name := range cfg.Devices {
		if _, err := svc.AddDevice(name); err != nil {
			logrus.WithError(err).WithField("name", name).Error("Fail to add configured device")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	go func() {
		sig := <-sigCh
		logrus.WithField("sig", sig).Info("Recv signal")
		lis.Close()
	}()

	g := gin.New()
	g.Use(gin.Recovery())
	if cfg.Verbose {
		g.Use(gin.Logger())
	}
	api.SetDeviceRouter(g, svc)
	if err := g.RunListener(lis); err != nil {
		logrus.WithError(err).Info("API server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	if verbose || cfg.Verbose {
		cfg.Verbose = true
		gin.SetMode(gin.DebugMode)
		logrus.SetLevel(logrus.DebugLevel)
		return
	}

	gin.SetMode(gin.ReleaseMode)
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Log.File != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		})
	}
}
