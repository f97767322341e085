package core

import "github.com/google/uuid"

// meshNamespace scopes the name-based identifiers handed out to exported meshes.
var meshNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/spaghettifunk/meshbake/mesh"))

// MeshID returns a stable identifier for the mesh with the given name, so that
// re-exporting the same source yields the same record id.
func MeshID(name string) string {
	return uuid.NewSHA1(meshNamespace, []byte(name)).String()
}

// NewID returns a random identifier, used for records that have no stable name.
func NewID() string {
	return uuid.New().String()
}
