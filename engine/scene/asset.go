package scene

import (
	"github.com/spaghettifunk/meshbake/engine/exporter"
)

// Asset is one loaded mesh document: the mesh and its optional deformer.
type Asset struct {
	Mesh     *Mesh
	Skin     *Skin
	Skeleton *Skeleton
}

// ExportSkin binds the skin to its skeleton, nil when the mesh is not skinned.
func (a *Asset) ExportSkin() *exporter.Skin {
	if a.Skin == nil {
		return nil
	}
	return a.Skin.Bind(a.Skeleton)
}

// Options returns base with the asset's skin attached.
func (a *Asset) Options(base exporter.Options) exporter.Options {
	base.Skin = a.ExportSkin()
	return base
}
