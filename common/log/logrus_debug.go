//go:build debug

package log

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Debug builds report the call site, shortened to a path relative to
// the working directory.
func init() {
	workDir, _ := os.Getwd()
	logger := logrus.StandardLogger()
	logger.SetReportCaller(true)
	logger.Formatter.(*logrus.TextFormatter).CallerPrettyfier = func(frame *runtime.Frame) (string, string) {
		file := frame.File
		if workDir != "" {
			if relative, err := filepath.Rel(workDir, file); err == nil && !strings.HasPrefix(relative, "..") {
				file = relative
			}
		}
		return "", " " + file + ":" + strconv.Itoa(frame.Line)
	}
}
