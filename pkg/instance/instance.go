package instance

import (
	"os"

	"github.com/freshfind/storefront/pkg/env"
)

const EnvInstanceID = "FRESHFIND_INSTANCE_ID"

// GetID names this storefront process in logs. It prefers the explicit
// setting, then the platform dyno name, then the host name.
func GetID() string {
	if id := env.Get(EnvInstanceID, env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
