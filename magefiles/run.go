//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Exports the sample meshes under assets/meshes into build/.
func (Run) Export() error {
	mg.Deps(Build.Binary)
	fmt.Println("Export sample meshes...")
	_, err := executeCmd("bin/meshbake", withArgs("-config", sampleConfig, "-in", sampleMeshes), withStream())
	return err
}

// Exports the sample meshes and keeps re-exporting them as they change.
func (Run) Watch() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd("bin/meshbake", withArgs("-config", sampleConfig, "-in", sampleMeshes, "-watch", "-log", "debug"), withStream())
	return err
}

// Removes the binary and every exported mesh.
func (Run) Clean() error {
	for _, dir := range []string{"bin", "build"} {
		if err := removeAll(dir); err != nil {
			return err
		}
	}
	return nil
}
