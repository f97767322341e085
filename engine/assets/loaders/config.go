package loaders

import (
	"os"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// ConfigLoader reads an exporter configuration file into a core.Config.
type ConfigLoader struct{}

func (cl *ConfigLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	cfg, err := core.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     "config",
		FullPath: path,
		Type:     metadata.ResourceTypeConfig,
		DataSize: uint64(info.Size()),
		Data:     &cfg,
	}, nil
}

func (cl *ConfigLoader) Unload(res *metadata.Resource) error {
	return nil
}
