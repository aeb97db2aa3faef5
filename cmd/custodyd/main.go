package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/config"
	httpinterface "github.com/tdex-network/tdex-custody/internal/interfaces/http"
	"github.com/tdex-network/tdex-custody/pkg/stats"
)

const metricsFile = "metrics.txt"

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	appConfig, err := config.AppConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to init infrastructure")
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}
	defer appConfig.RepoManager().Close()

	opts := httpinterface.ServiceOpts{
		Address:    fmt.Sprintf(":%d", config.GetInt(config.HTTPListeningPortKey)),
		CustodySvc: appConfig.CustodyService(),
		Decimals:   int32(config.GetInt(config.DecimalsKey)),
	}
	if svc := appConfig.CheckoutService(); svc != nil {
		opts.CheckoutSvc = svc
	}

	svc, err := httpinterface.NewService(opts)
	if err != nil {
		log.WithError(err).Fatal("failed to init http interface")
	}

	log.Debug("starting daemon")
	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start http interface")
	}
	defer svc.Stop()

	log.Infof(
		"custody daemon running on %s, contract %s",
		config.NetworkConfig().Name, config.NetworkConfig().CustodyContract,
	)

	if interval := config.GetInt(config.StatsIntervalKey); interval > 0 {
		path := filepath.Join(
			config.GetDatadir(), config.ProfilerLocation, metricsFile,
		)
		stop := make(chan struct{})
		defer close(stop)
		go dumpMetrics(path, time.Duration(interval)*time.Second, stop)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Debug("shutting down daemon")
}

func dumpMetrics(path string, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := stats.DumpMetrics(path); err != nil {
				log.WithError(err).Warn("failed to dump metrics")
			}
		}
	}
}
