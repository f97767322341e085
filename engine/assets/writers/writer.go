package writers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// Writer serializes a mesh record to a file.
type Writer interface {
	Write(record *metadata.MeshRecord, path string) error
	// Extension is the file suffix, dot included.
	Extension() string
}

// ForFormat returns the writer of a configured output format.
func ForFormat(format string) (Writer, error) {
	switch format {
	case core.FormatGLB:
		return &GLTFWriter{Binary: true}, nil
	case core.FormatGLTF:
		return &GLTFWriter{}, nil
	case core.FormatJSON:
		return &JSONWriter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownFormat, format)
	}
}

// OutputPath places a record named name in dir with the writer's extension.
func OutputPath(dir, name string, w Writer) string {
	return filepath.Join(dir, name+w.Extension())
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}
	return nil
}
