package storage

import (
	"encoding/json"
	"os"

	"github.com/san-kum/rigidsim/internal/world"
)

type ExportData struct {
	Run      RunMetadata   `json:"run"`
	Timeline []world.Stats `json:"timeline"`
}

// ExportJSON writes a run and its timeline as one JSON document.
func ExportJSON(path string, meta RunMetadata, timeline []world.Stats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Timeline: timeline})
}
