// Live Camera Filtering
// Captures frames from a camera, applies the selected filter and shows the
// result in real time.

package main

import (
	"context"
	"errors"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"live-camera-filtering/internal/algorithms"
	"live-camera-filtering/internal/capture"
	"live-camera-filtering/internal/config"
	"live-camera-filtering/internal/core"
	"live-camera-filtering/internal/filters"
	"live-camera-filtering/internal/gui"
)

const (
	AppName    = "Live Camera Filtering"
	AppID      = "com.example.live-camera-filtering"
	AppVersion = "1.0.0"
)

func main() {
	// Parse command line flags
	flags := config.NewFlagSet(os.Args[0])
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	debugMode, _ := flags.GetBool("debug")

	// Initialize logger
	logger := initLogger(debugMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fs := afero.NewOsFs()
	cfg, err := config.LoadConfig(ctx, fs, flags)
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}
	if cfg.Debug && !debugMode {
		logger = initLogger(true)
	}

	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": cfg.Debug,
		"source":     cfg.CameraSource,
	}).Info("Starting Live Camera Filtering")

	registry := filters.Builtin()
	engine, err := algorithms.NewEngine(registry, logger)
	if err != nil {
		logger.WithError(err).Error("Filter table is invalid")
		os.Exit(1)
	}

	camera := capture.NewCamera(fs, capture.Settings{
		Width:  cfg.CameraWidth,
		Height: cfg.CameraHeight,
		FPS:    cfg.CameraFPS,
	}, logger)

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.MediaVideoIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	selection := &core.AtomicSelection{}
	mainApp := gui.NewApplication(myApp, registry.Names(), selection,
		fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)), logger)

	pipeline := core.NewPipeline(camera, registry, engine, selection, mainApp.View(),
		core.WithLogger(logger),
		core.WithDisplayBuffer(cfg.DisplayBuffer),
	)
	mainApp.Attach(pipeline)

	if err := pipeline.Init(ctx, core.DeviceKind(cfg.CameraSource)); err != nil {
		mainApp.ShowFailure(err)
	}

	mainApp.ShowAndRun()

	stats := camera.Stats()
	logger.WithFields(logrus.Fields{
		"frames_read":   stats.FramesRead,
		"read_failures": stats.ReadFailures,
		"pipeline":      pipeline.Metrics().Summary(),
	}).Info("Application shutting down gracefully")
}

// initLogger configures the standard logger with the appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
