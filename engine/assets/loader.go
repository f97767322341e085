package assets

import "github.com/spaghettifunk/meshbake/engine/renderer/metadata"

// Loader reads one kind of asset from disk. The AssetManager keeps one
// Loader per resource type and routes LoadAsset and UnloadAsset to it.
type Loader interface {
	// Load reads path into a resource of assetType. params carries
	// loader-specific options and may be nil.
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	// Unload releases the data held by a resource returned from Load.
	Unload(*metadata.Resource) error
}
