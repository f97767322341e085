package systems

import (
	"github.com/spaghettifunk/meshbake/engine/assets"
	"github.com/spaghettifunk/meshbake/engine/core"
)

// jobQueueSize bounds how many exports can wait for a worker.
const jobQueueSize = 256

type SystemManager struct {
	jobSystem    *JobSystem
	exportSystem *ExportSystem
}

func NewSystemManager(cfg core.Config, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(cfg.Jobs.Workers, jobQueueSize)
	if err != nil {
		return nil, err
	}

	es, err := NewExportSystem(cfg, am, js)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		jobSystem:    js,
		exportSystem: es,
	}, nil
}

func (sm *SystemManager) ExportSystem() *ExportSystem {
	return sm.exportSystem
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
