/*
DESCRIPTION
  compositor is the standalone real-time video compositor service: it
  loads a Config from flags and an optional scene file, starts a
  pipeline.Pipeline, exposes its control-plane operations through an
  api.Server with scene-file hot-reload, and notifies systemd once the
  pipeline is running.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package compositor runs a standalone real-time video compositor.
package main

import (
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/compositor/api"
	"github.com/ausocean/compositor/pipeline"
	"github.com/ausocean/compositor/pipeline/config"
	"github.com/ausocean/utils/logging"
)

// Logging configuration, matching the teacher's cmd entrypoints.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
)

const pkg = "compositor: "

func main() {
	var (
		logFile     = flag.String("log-file", "/var/log/compositor/compositor.log", "path to log file")
		logVerbose  = flag.Bool("verbose", false, "enable debug logging")
		width       = flag.Uint("width", 1920, "output width in pixels")
		height      = flag.Uint("height", 1080, "output height in pixels")
		fpsNum      = flag.Uint("fps-num", 30, "output framerate numerator")
		fpsDen      = flag.Uint("fps-den", 1, "output framerate denominator")
		outputPath  = flag.String("output-path", "", "output file path; if neither this nor -http-address is set, rendered ticks are not written anywhere")
		multiFile   = flag.Bool("output-files", false, "rotate output into a new timestamped file per write instead of one continuous file")
		maxFileSize = flag.Uint("max-file-size", 0, "rotate the output file once it exceeds this many bytes; 0 disables rotation")
		httpAddress = flag.String("http-address", "", "if set, POST rendered ticks to this address (in addition to -output-path, if that is set)")
		scenePath   = flag.String("scene-file", "", "path to a scene-spec JSON file to load and hot-reload on change")
	)
	flag.Parse()

	fileLog := &lumberjack.Logger{Filename: *logFile, MaxSize: logMaxSize, MaxBackups: logMaxBackup, MaxAge: logMaxAge}
	level := logging.Info
	if *logVerbose {
		level = logging.Debug
	}
	log := logging.New(level, io.MultiWriter(fileLog, os.Stderr), false)

	log.Info("starting compositor")

	cfg := config.Config{
		Width: *width, Height: *height,
		FrameRateNum: *fpsNum, FrameRateDen: *fpsDen,
		OutputPath: *outputPath, MaxFileSize: *maxFileSize,
		HTTPAddress: *httpAddress,
		ScenePath:   *scenePath,
		Logger:      log, LogLevel: level,
	}
	cfg.Outputs = outputsFor(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal(pkg+"invalid configuration", "error", err.Error())
	}
	if *multiFile {
		for i, o := range cfg.Outputs {
			if o == config.OutputFile {
				cfg.Outputs[i] = config.OutputFiles
			}
		}
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		log.Fatal(pkg+"could not create pipeline", "error", err.Error())
	}

	server := api.NewServer(p, log)

	var watcher *api.SceneFileWatcher
	if cfg.ScenePath != "" {
		watcher, err = api.WatchSceneFile(server, cfg.ScenePath)
		if err != nil {
			log.Fatal(pkg+"could not watch scene file", "error", err.Error())
		}
	}

	if err := p.Start(); err != nil {
		log.Fatal(pkg+"could not start pipeline", "error", err.Error())
	}
	log.Info("pipeline started")

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warning(pkg+"could not notify systemd", "error", err.Error())
	} else if ok {
		log.Debug("notified systemd of readiness")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	if watcher != nil {
		watcher.Close()
	}
	if err := p.Stop(); err != nil {
		log.Error(pkg+"error stopping pipeline", "error", err.Error())
	}
}

// outputsFor infers which output sinks cfg requests from the flags
// already populated onto it: a file sink if OutputPath is set and an HTTP
// sink if HTTPAddress is set. Both, or neither, may be returned; Validate
// does not check Outputs.
func outputsFor(cfg config.Config) []uint8 {
	var outs []uint8
	if cfg.OutputPath != "" {
		outs = append(outs, config.OutputFile)
	}
	if cfg.HTTPAddress != "" {
		outs = append(outs, config.OutputHTTP)
	}
	return outs
}
