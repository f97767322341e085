package writers

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// JSONWriter writes the mesh record as is.
type JSONWriter struct {
	Indent bool
}

func (jw *JSONWriter) Extension() string {
	return ".json"
}

func (jw *JSONWriter) Write(record *metadata.MeshRecord, path string) error {
	var (
		data []byte
		err  error
	)
	if jw.Indent {
		data, err = json.MarshalIndent(record, "", "  ")
	} else {
		data, err = json.Marshal(record)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", record.Name, err)
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
