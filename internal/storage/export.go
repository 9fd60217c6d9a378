package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

type ExportData struct {
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Controls   [][]float64        `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
}

func buildExport(model, integrator, controller string, dt, duration float64, result *dynamics.Result) ExportData {
	data := ExportData{
		Model:      model,
		Integrator: integrator,
		Controller: controller,
		Dt:         dt,
		Duration:   duration,
		Steps:      len(result.Times),
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Controls:   make([][]float64, len(result.Controls)),
		Metrics:    result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Controls[i] = c
	}
	return data
}

// ExportJSON writes the full run to w as indented JSON.
func ExportJSON(w io.Writer, model, integrator, controller string, dt, duration float64, result *dynamics.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(model, integrator, controller, dt, duration, result))
}

// ExportJSONFile writes the run to the given path.
func ExportJSONFile(path, model, integrator, controller string, dt, duration float64, result *dynamics.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, model, integrator, controller, dt, duration, result)
}
