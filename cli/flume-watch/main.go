package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/weirlab/flume"
	E "github.com/weirlab/flume/common/exceptions"
	_ "github.com/weirlab/flume/common/log"
	"github.com/weirlab/flume/service/watch"
)

var (
	configPath    string
	metricsListen string
)

func main() {
	command := &cobra.Command{
		Use:     "flume-watch",
		Short:   "supervise idle-watched streams from a config",
		Version: flume.VersionStr,
		Run:     run,
	}
	command.Flags().StringVarP(&configPath, "config", "c", "watch.yaml", "Use a configuration file.")
	command.Flags().StringVar(&metricsListen, "metrics-listen", "", "Serve prometheus metrics at this address.")
	if err := command.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) {
	config, err := watch.Load(configPath)
	if err != nil {
		logrus.StandardLogger().Log(logrus.FatalLevel, err, "\n\n")
		cmd.Help()
		os.Exit(1)
	}
	if metricsListen != "" {
		config.Metrics.Enabled = true
		config.Metrics.Listen = metricsListen
	}
	if config.Metrics.Enabled {
		go func() {
			err := http.ListenAndServe(config.Metrics.Listen, promhttp.Handler())
			if err != nil {
				logrus.Error(E.Cause(err, "metrics listener"))
			}
		}()
		logrus.Info("serving metrics at ", config.Metrics.Listen)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-osSignals
		cancel()
	}()

	err = watch.NewWatcher(*config).Run(ctx)
	if err != nil && !E.IsCanceled(err) {
		logrus.Fatal(err)
	}
}
