package main

import (
	"os"

	vane "github.com/go-vane/vane"
	"github.com/go-vane/vane/core"
)

func registerRoutes(r *core.Router) {
	r.MustHandle("", core.MustRouteBinding("main", core.Literal("Home"), core.Literal("index"), ""))
	r.MustHandle("[controller]/[action]", core.MustRouteBinding("main", core.CaptureGroup(1), core.CaptureGroup(2), ""))
}

func main() {
	env := "dev"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}

	vane.Start(vane.RuntimeConfig{
		Env:         env,
		EnableCache: env == "prod",
		Port:        8080,
		Routes:      registerRoutes,
	})
}
