package version

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/baloola/naucse/pkg/version.Version=v0.3.0"
var Version = "v0.3.0"
