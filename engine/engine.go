package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/meshbake/engine/assets"
	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
	"github.com/spaghettifunk/meshbake/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// settleDelay coalesces the bursts of write events editors produce on save.
const settleDelay = 200 * time.Millisecond

type Engine struct {
	currentStage  Stage
	appConfig     *ApplicationConfig
	config        core.Config
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	clock         *core.Clock

	mutex   sync.Mutex
	pending map[string]*time.Timer
}

func New(app *ApplicationConfig) (*Engine, error) {
	e := &Engine{
		currentStage: EngineStageBooting,
		appConfig:    app,
		clock:        core.NewClock(),
		pending:      make(map[string]*time.Timer),
	}

	cfg := core.DefaultConfig()
	if app.ConfigPath != "" {
		am := assets.NewAssetManager()
		defer am.Close()
		res, err := am.LoadAsset(app.ConfigPath, metadata.ResourceTypeConfig, nil)
		if err != nil {
			core.LogError("%s", err)
			return nil, err
		}
		cfg = *res.Data.(*core.Config)
	}
	cfg.Resolve(app.Flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := core.SetLogLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("%w: log level: %v", core.ErrInvalidConfig, err)
	}
	e.config = cfg

	e.setStage(EngineStageBootComplete)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.setStage(EngineStageInitializing)

	e.assetManager = assets.NewAssetManager()
	if err := e.assetManager.Initialize(e.appConfig.InputDir); err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(e.config, e.assetManager)
	if err != nil {
		return err
	}
	e.systemManager = sm

	core.LogInfo("exporting %d meshes from %s to %s (%s, %d workers)",
		len(e.assetManager.Assets(metadata.ResourceTypeMesh)), e.appConfig.InputDir, e.config.Output.Dir, e.config.Output.Format, e.config.Jobs.Workers)

	e.setStage(EngineStageInitialized)
	return nil
}

// Run exports every indexed mesh, then keeps re-exporting changed documents
// until ctx is done when watching. In batch mode it fails if any mesh could
// not be exported.
func (e *Engine) Run(ctx context.Context) error {
	e.setStage(EngineStageRunning)
	es := e.systemManager.ExportSystem()

	e.clock.Start()
	reports := es.ExportAll()
	e.clock.Stop()

	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
			core.LogError("%s: %s", r.Source, r.Err)
		}
	}
	m := es.Metrics()
	core.LogInfo("exported %d meshes (%d failed) in %s: %d vertices, %d indices, %d warnings, %d errors, %.2fms avg",
		m.Meshes, m.Failed, e.clock.Elapsed(), m.Vertices, m.Indices, m.Warnings, m.Errors, m.AverageMS())

	if !e.appConfig.Watch {
		if failed > 0 {
			return fmt.Errorf("%w: %d of %d", core.ErrExportFailed, failed, len(reports))
		}
		return nil
	}
	return e.watch(ctx)
}

func (e *Engine) watch(ctx context.Context) error {
	if err := e.assetManager.Watch(); err != nil {
		return err
	}
	core.LogInfo("watching %s for changes", e.appConfig.InputDir)

	es := e.systemManager.ExportSystem()
	errs := e.assetManager.Errors()
	for {
		select {
		case ev, ok := <-e.assetManager.Events():
			if !ok {
				return nil
			}
			if ev.Type != metadata.ResourceTypeMesh {
				continue
			}
			if ev.Removed {
				core.LogInfo("%s removed", ev.Path)
				continue
			}
			e.schedule(ev.Path, es)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			core.LogWarn("watcher: %s", err)

		case <-ctx.Done():
			e.reportFailures(es.Recent())
			return nil
		}
	}
}

// reportFailures warns about every document whose latest export failed.
func (e *Engine) reportFailures(reports []*systems.ExportReport) {
	latest := make(map[string]*systems.ExportReport, len(reports))
	order := make([]string, 0, len(reports))
	for _, r := range reports {
		if _, seen := latest[r.Source]; !seen {
			order = append(order, r.Source)
		}
		latest[r.Source] = r
	}
	for _, source := range order {
		if r := latest[source]; r.Err != nil {
			core.LogWarn("last export of %s failed: %s", source, r.Err)
		}
	}
}

// schedule re-exports path once no write has been seen for settleDelay.
func (e *Engine) schedule(path string, es *systems.ExportSystem) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if t, ok := e.pending[path]; ok {
		t.Reset(settleDelay)
		return
	}
	e.pending[path] = time.AfterFunc(settleDelay, func() {
		e.mutex.Lock()
		defer e.mutex.Unlock()
		delete(e.pending, path)
		if e.currentStage == EngineStageShuttingDown {
			return
		}
		es.Enqueue(path)
	})
}

func (e *Engine) Shutdown() error {
	e.mutex.Lock()
	e.currentStage = EngineStageShuttingDown
	for path, t := range e.pending {
		t.Stop()
		delete(e.pending, path)
	}
	e.mutex.Unlock()

	if e.assetManager != nil {
		if err := e.assetManager.Close(); err != nil && !errors.Is(err, core.ErrWatcherClosed) {
			return err
		}
	}
	if e.systemManager != nil {
		if n := e.systemManager.ExportSystem().Pending(); n > 0 {
			core.LogInfo("finishing %d pending exports", n)
		}
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	return nil
}

// Config returns the resolved configuration the engine runs with.
func (e *Engine) Config() core.Config {
	return e.config
}

func (e *Engine) Stage() Stage {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.currentStage
}

func (e *Engine) setStage(stage Stage) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.currentStage = stage
}
