package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/weirlab/flume"
	E "github.com/weirlab/flume/common/exceptions"
	"github.com/weirlab/flume/common/idle"
	_ "github.com/weirlab/flume/common/log"
	"github.com/weirlab/flume/common/stream"
	"github.com/weirlab/flume/transport/line"
)

var (
	network string
	timeout time.Duration
)

func main() {
	command := &cobra.Command{
		Use:     "idle-chk [address]",
		Short:   "watch a line feed until it goes idle",
		Version: flume.VersionStr,
		Args:    cobra.MaximumNArgs(1),
		Run:     run,
	}
	command.Flags().StringVarP(&network, "network", "n", "tcp", "Set the dial network.")
	command.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Set the idle window.")
	if err := command.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-osSignals
		cancel()
	}()

	var source stream.Source[string]
	if len(args) == 1 {
		dialed, err := line.Dial(ctx, network, args[0])
		if err != nil {
			logrus.Fatal(E.Cause(err, "dial ", args[0]))
		}
		source = dialed
	} else {
		source = line.NewSource(os.Stdin)
	}

	watched := idle.NewTimeoutSource[string](source, timeout)
	defer watched.Close()

	var count int
	for {
		item, err := watched.Next(ctx)
		switch {
		case err == nil:
			count++
			fmt.Println(item)
		case errors.Is(err, io.EOF):
			if watched.TimedOut() {
				logrus.Info("idle for ", timeout, ", ended after ", count, " lines")
			} else {
				logrus.Info("ended naturally after ", count, " lines")
			}
			return
		case E.IsCanceled(err):
			logrus.Info("interrupted after ", count, " lines")
			return
		default:
			logrus.Fatal(err)
		}
	}
}
