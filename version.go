package flume

const (
	Version    = "0.3.0"
	VersionStr = "flume " + Version
)
