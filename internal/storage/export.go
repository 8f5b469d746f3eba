package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
)

type ExportData struct {
	Params    dynamo.Params      `json:"params"`
	Frames    int                `json:"frames"`
	Times     []float64          `json:"times"`
	Positions [][]dynamo.Vec2    `json:"positions"`
	Stretch   []float64          `json:"max_stretch"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewExport(p dynamo.Params, result *sim.Result) ExportData {
	return ExportData{
		Params:    p,
		Frames:    result.Frames,
		Times:     result.Times,
		Positions: result.Positions,
		Stretch:   result.MaxStretch,
		Metrics:   result.Metrics,
	}
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
