//go:build debug

package flume

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/sirupsen/logrus"
)

// Debug builds serve pprof on localhost.
func init() {
	go func() {
		err := http.ListenAndServe("127.0.0.1:6060", nil)
		if err != nil {
			logrus.Error("pprof listener: ", err)
		}
	}()
}
