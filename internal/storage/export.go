package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/cablesim/internal/sim"
)

type ExportData struct {
	ID      string               `json:"id"`
	Name    string               `json:"name"`
	Model   string               `json:"model"`
	Dt      float64              `json:"dt"`
	Steps   int                  `json:"steps"`
	Tags    []string             `json:"tags"`
	Times   []float64            `json:"times"`
	States  [][]float64          `json:"states"`
	Forces  []map[string]float64 `json:"forces"`
	Metrics map[string]float64   `json:"metrics"`
}

// ExportJSON writes a saved run as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	data := ExportData{
		ID:      meta.ID,
		Name:    meta.Name,
		Model:   meta.Model,
		Dt:      meta.Dt,
		Steps:   len(result.Forces),
		Tags:    result.Tags,
		Times:   result.Times,
		States:  make([][]float64, len(result.States)),
		Forces:  result.Forces,
		Metrics: result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
