package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/sim"
)

type ExportData struct {
	Scenario  string               `json:"scenario"`
	Dt        float64              `json:"dt"`
	Steps     int                  `json:"steps"`
	Seed      int64                `json:"seed"`
	Particles int                  `json:"particles"`
	Groups    int                  `json:"groups"`
	Times     []float64            `json:"times"`
	Series    map[string][]float64 `json:"series"`
	Metrics   map[string]float64   `json:"metrics"`
}

// ExportJSON writes a finished run as one indented JSON document.
func ExportJSON(w io.Writer, cfg *config.Config, result *sim.Result) error {
	data := ExportData{
		Scenario:  cfg.Scenario,
		Dt:        cfg.Dt,
		Steps:     result.StepsTaken,
		Seed:      cfg.Seed,
		Particles: result.Particles,
		Groups:    result.Groups,
		Times:     result.Times,
		Series:    result.Series,
		Metrics:   result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
