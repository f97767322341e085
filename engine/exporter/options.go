package exporter

import (
	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/math"
)

// Options controls one mesh extraction.
type Options struct {
	OptimizeVertices   bool
	ExportTangents     bool
	ExportSkin         bool
	LegacyExtraWeights bool
	// Axis is negated on positions, normals and tangents.
	Axis math.Axis
	// Skin is nil for unskinned meshes.
	Skin *Skin
}

func OptionsFromConfig(cfg core.ExportConfig) Options {
	return Options{
		OptimizeVertices:   cfg.OptimizeVertices,
		ExportTangents:     cfg.ExportTangents,
		ExportSkin:         cfg.ExportSkin,
		LegacyExtraWeights: cfg.LegacyExtraWeights,
		Axis:               math.AxisZ,
	}
}
