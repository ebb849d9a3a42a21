package main

import (
	"context"
	"net"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/yadexhq/yadex/pkg/config"
	"github.com/yadexhq/yadex/pkg/sandbox"
	"github.com/yadexhq/yadex/pkg/server"
	"github.com/yadexhq/yadex/pkg/templates"
	"github.com/yadexhq/yadex/pkg/version"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Config string `short:"c" long:"config" description:"path to configuration file" default:"/etc/yadex/config.yaml"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.Err(err).Fatal("flags parse error")
	}

	log.Info("starting yadex", logger.Data{"version": version.Version, "config": opts.Config})

	cfg, err := config.New(opts.Config)
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	if cfg.LogLevel != "info" {
		log = logger.NewWithLevel(cfg.LogLevel)
	}

	// Templates live next to the config file, which is outside the root once
	// the process is confined.
	store, err := templates.New(cfg.ConfigDir, cfg.Template)
	if err != nil {
		log.Err(err).Fatal("template error")
	}
	log.Info("templates loaded", logger.Data{"index": cfg.Template.IndexFile, "error": cfg.Template.ErrorFile})

	if err := sandbox.Enter(cfg.Service.Root); err != nil {
		log.Err(err).Fatal("sandbox error")
	}
	log.Info("confined to root", logger.Data{"root": cfg.Service.Root})

	root, err := os.OpenRoot("/")
	if err != nil {
		log.Err(errors.WithStack(err)).Fatal("root open error")
	}
	defer root.Close()

	srv := server.New(cfg, root.FS(), store)
	metricsSrv := server.NewMetrics(cfg)

	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", srv.Addr)
	if err != nil {
		log.Err(err).Fatal("failed to bind port")
	}

	graceful := signals.Setup()

	go func() {
		log.Info("server started", logger.Data{"address": listener.Addr().String(), "limit": cfg.Service.Limit})

		err := srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	if metricsSrv != nil {
		go func() {
			log.Info("metrics server started", logger.Data{"address": metricsSrv.Addr})

			err := metricsSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Err(err).Error("metrics server stopped")
			}
		}()
	}

	<-graceful
	log.Info("starting graceful shutdown")

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			log.Err(err).Error("metrics server shutdown error")
		}
	}

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")
}
