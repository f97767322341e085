/*
meshbake converts mesh documents into render-ready glTF or JSON meshes.

	meshbake -in assets/meshes -out build -format glb
	meshbake -config meshbake.toml -in assets/meshes -watch
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/meshbake/engine"
	"github.com/spaghettifunk/meshbake/engine/core"
)

func main() {
	app := &engine.ApplicationConfig{}
	flag.StringVar(&app.ConfigPath, "config", "", "path of the TOML configuration file")
	flag.StringVar(&app.InputDir, "in", "assets/meshes", "directory or .mesh.toml file to export")
	flag.BoolVar(&app.Watch, "watch", false, "re-export documents as they change")
	flag.StringVar(&app.Flags.OutputDir, "out", "", "output directory")
	flag.StringVar(&app.Flags.Format, "format", "", "output format: glb, gltf or json")
	flag.IntVar(&app.Flags.Workers, "workers", 0, "number of export workers")
	flag.StringVar(&app.Flags.LogLevel, "log", "", "log level: debug, info, warn or error")
	flag.Parse()

	e, err := engine.New(app)
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("%s", err)
	}

	// cancel the run on the usual termination signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("%s", err)
	}
	if runErr != nil {
		core.LogError("%s", runErr)
		os.Exit(1)
	}
}
