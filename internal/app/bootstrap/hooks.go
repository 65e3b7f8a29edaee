// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires this app into the WAFFLE lifecycle.
// Each function is called in order by app.Run, from configuration
// loading through DB setup, HTTP handler construction, and finally
// graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "filevault",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema,
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
