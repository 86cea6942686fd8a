// Package log configures the process-wide logrus logger. Importing it
// for side effects is enough for programs that only log through tagged
// entries.
package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

func init() {
	level := logrus.InfoLevel
	if raw := os.Getenv("FLUME_LOG_LEVEL"); raw != "" {
		if parsed, err := logrus.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	logrus.SetLevel(level)
	formatter := logrus.StandardLogger().Formatter.(*logrus.TextFormatter)
	formatter.ForceColors = true
	formatter.FullTimestamp = true
	logrus.AddHook(new(TaggedHook))
}

// NewLogger returns an entry whose messages carry tag as a prefix.
func NewLogger(tag string) *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger()).WithField("tag", tag)
}

type TaggedHook struct{}

func (h *TaggedHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *TaggedHook) Fire(entry *logrus.Entry) error {
	tagValue, loaded := entry.Data["tag"]
	if !loaded {
		return nil
	}
	tag, isString := tagValue.(string)
	if !isString {
		return nil
	}
	delete(entry.Data, "tag")
	entry.Message = "[" + tag + "] " + strings.TrimPrefix(entry.Message, tag+": ")
	return nil
}
