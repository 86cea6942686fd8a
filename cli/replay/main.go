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
	"github.com/weirlab/flume/common"
	E "github.com/weirlab/flume/common/exceptions"
	"github.com/weirlab/flume/common/idle"
	_ "github.com/weirlab/flume/common/log"
	"github.com/weirlab/flume/common/stream"
	"github.com/weirlab/flume/transport/line"
	"github.com/weirlab/flume/transport/replay"
)

var (
	path    string
	timeout time.Duration
)

func main() {
	command := &cobra.Command{
		Use:     "replay",
		Short:   "record and replay line feeds",
		Version: flume.VersionStr,
	}
	command.PersistentFlags().StringVarP(&path, "file", "f", "stream.jsonl", "set recording path (.xz compresses)")
	command.AddCommand(&cobra.Command{
		Use:   "record <address>",
		Short: "Record a tcp line feed",
		Run:   record,
		Args:  cobra.ExactArgs(1),
	})
	playCommand := &cobra.Command{
		Use:   "play",
		Short: "Replay a recording to stdout, honoring the recorded gaps",
		Run:   play,
	}
	playCommand.Flags().DurationVarP(&timeout, "timeout", "t", 0, "End the replay when it is idle for this window.")
	command.AddCommand(playCommand)
	if err := command.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-osSignals
		cancel()
	}()
	return ctx, cancel
}

func record(cmd *cobra.Command, args []string) {
	if common.FileExists(path) {
		logrus.Fatal(path, " already exists")
	}
	ctx, cancel := signalContext()
	defer cancel()

	source, err := line.Dial(ctx, "tcp", args[0])
	if err != nil {
		logrus.Fatal(E.Cause(err, "dial ", args[0]))
	}
	defer source.Close()
	writer, err := replay.Create(path)
	if err != nil {
		logrus.Fatal(E.Cause(err, "create ", path))
	}
	recorder, err := replay.NewRecorder[string](writer)
	if err != nil {
		logrus.Fatal(err)
	}

	var count int
	for {
		item, err := source.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !E.IsClosedOrCanceled(err) {
				common.Close(recorder)
				logrus.Fatal(err)
			}
			break
		}
		if err := recorder.Record(item); err != nil {
			logrus.Fatal(E.Cause(err, "write ", path))
		}
		count++
	}
	if err := recorder.Close(); err != nil {
		logrus.Fatal(E.Cause(err, "finish ", path))
	}
	logrus.Info("recorded ", count, " lines to ", path)
}

func play(cmd *cobra.Command, args []string) {
	ctx, cancel := signalContext()
	defer cancel()

	reader, err := replay.OpenFile(path)
	if err != nil {
		logrus.Fatal(E.Cause(err, "open ", path))
	}
	source, err := replay.NewSource[string](reader)
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("replaying ", source.Header().ID, " recorded at ", source.Header().Created)

	var feed stream.Source[string] = source
	var watched *idle.TimeoutSource[string]
	if timeout > 0 {
		watched = idle.NewTimeoutSource[string](source, timeout)
		feed = watched
		defer watched.Close()
	} else {
		defer source.Close()
	}

	var count int
	for {
		item, err := feed.Next(ctx)
		switch {
		case err == nil:
			count++
			fmt.Println(item)
		case errors.Is(err, io.EOF):
			if watched != nil && watched.TimedOut() {
				logrus.Info("idle for ", timeout, ", ended after ", count, " lines")
			} else {
				logrus.Info("replayed ", count, " lines")
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
