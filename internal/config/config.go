// Package config defines the JSON configuration schema (§6) and its
// validation, grounded on the teacher's Config struct
// (internal/config/config.go): a plain value struct with a
// Validate/Clone method pair, loaded with encoding/json rather than the
// teacher's hand-built defaults (this kernel's schema is read from a
// file, not compiled in).
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"picopic-go/internal/simerr"
)

// Geometry mirrors §6's `geometry` key.
type Geometry struct {
	RSize        float64    `json:"r_size"`
	ZSize        float64    `json:"z_size"`
	RGridAmount  int        `json:"r_grid_amount"`
	ZGridAmount  int        `json:"z_grid_amount"`
	AreasByR     int        `json:"areas_by_r"`
	AreasByZ     int        `json:"areas_by_z"`
	Walls        [4]bool    `json:"walls"`
	PMLLength    [4]float64 `json:"pml_length"`
	PMLSigma     [2]float64 `json:"pml_sigma"`
}

// Time mirrors §6's `time` key.
type Time struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Step  float64 `json:"step"`
}

// Specie mirrors one entry of §6's `particle_species` array.
type Specie struct {
	Name         string  `json:"name"`
	Mass         float64 `json:"mass"`
	Charge       float64 `json:"charge"`
	MacroAmount  int     `json:"macro_amount"`
	LeftDensity  float64 `json:"left_density"`
	RightDensity float64 `json:"right_density"`
	Temperature  float64 `json:"temperature"`
}

// Beam mirrors one entry of §6's `particle_beams` array.
type Beam struct {
	Name            string  `json:"name"`
	Mass            float64 `json:"mass"`
	Charge          float64 `json:"charge"`
	MacroAmount     int     `json:"macro_amount"`
	StartTime       float64 `json:"start_time"`
	BunchRadius     float64 `json:"bunch_radius"`
	Density         float64 `json:"density"`
	BunchesAmount   int     `json:"bunches_amount"`
	BunchLength     float64 `json:"bunch_length"`
	BunchesDistance float64 `json:"bunches_distance"`
	Velocity        float64 `json:"velocity"`
}

// OutputData mirrors §6's `output_data` key.
type OutputData struct {
	DataRoot      string `json:"data_root"`
	Compress      bool   `json:"compress"`
	CompressLevel int    `json:"compress_level"`
}

// Probe mirrors one entry of §6's `probes` array.
type Probe struct {
	Component string  `json:"component"`
	Specie    string  `json:"specie"`
	Shape     string  `json:"shape"` // one of rec, vec, dot, mpframe
	Size      [4]int  `json:"size"`  // r_start, z_start, r_end, z_end
	Schedule  int     `json:"schedule"`
}

// Config is the top-level schema of §6's JSON configuration file.
type Config struct {
	Geometry        Geometry `json:"geometry"`
	Time            Time     `json:"time"`
	ParticleSpecies []Specie `json:"particle_species"`
	ParticleBeams   []Beam   `json:"particle_beams"`
	OutputData      OutputData `json:"output_data"`
	Probes          []Probe  `json:"probes"`
}

// Load reads and parses a config file from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerr.NewConfigError("reading config %q: %v", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, simerr.NewConfigError("parsing config %q: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validShapes = map[string]bool{"rec": true, "vec": true, "dot": true, "mpframe": true}

// Validate checks the configuration for the constraints §6 and the
// invariants of §8 require before the simulation starts.
func (c *Config) Validate() error {
	if c.Geometry.RSize <= 0 || c.Geometry.ZSize <= 0 {
		return simerr.NewConfigError("geometry r_size/z_size must be positive: r=%f z=%f", c.Geometry.RSize, c.Geometry.ZSize)
	}
	if c.Geometry.RGridAmount <= 0 || c.Geometry.ZGridAmount <= 0 {
		return simerr.NewConfigError("geometry r_grid_amount/z_grid_amount must be positive: r=%d z=%d",
			c.Geometry.RGridAmount, c.Geometry.ZGridAmount)
	}
	if c.Geometry.AreasByR <= 0 || c.Geometry.AreasByZ <= 0 {
		return simerr.NewConfigError("areas_by_r/areas_by_z must be positive: r=%d z=%d", c.Geometry.AreasByR, c.Geometry.AreasByZ)
	}
	if c.Geometry.RGridAmount%c.Geometry.AreasByR != 0 || c.Geometry.ZGridAmount%c.Geometry.AreasByZ != 0 {
		return simerr.NewConfigError("grid amount must divide evenly across areas: r_grid_amount=%d areas_by_r=%d z_grid_amount=%d areas_by_z=%d",
			c.Geometry.RGridAmount, c.Geometry.AreasByR, c.Geometry.ZGridAmount, c.Geometry.AreasByZ)
	}
	if c.Time.Step <= 0 {
		return simerr.NewConfigError("time.step must be positive, got %f", c.Time.Step)
	}
	if c.Time.End <= c.Time.Start {
		return simerr.NewConfigError("time.end (%f) must be greater than time.start (%f)", c.Time.End, c.Time.Start)
	}
	if len(c.ParticleSpecies) == 0 && len(c.ParticleBeams) == 0 {
		return simerr.NewConfigError("at least one particle_species or particle_beams entry is required")
	}
	for _, sp := range c.ParticleSpecies {
		if sp.Mass <= 0 {
			return simerr.NewConfigError("species %q: mass must be positive, got %f", sp.Name, sp.Mass)
		}
		if sp.MacroAmount <= 0 {
			return simerr.NewConfigError("species %q: macro_amount must be positive, got %d", sp.Name, sp.MacroAmount)
		}
	}
	for _, b := range c.ParticleBeams {
		if b.Mass <= 0 {
			return simerr.NewConfigError("beam %q: mass must be positive, got %f", b.Name, b.Mass)
		}
		if b.BunchesAmount <= 0 {
			return simerr.NewConfigError("beam %q: bunches_amount must be positive, got %d", b.Name, b.BunchesAmount)
		}
	}
	for _, p := range c.Probes {
		if !validShapes[p.Shape] {
			return simerr.NewConfigError("probe component %q: unrecognized shape %q", p.Component, p.Shape)
		}
		if p.Size[2] < p.Size[0] || p.Size[3] < p.Size[1] {
			return fmt.Errorf("probe component %q: size window is inverted: %v", p.Component, p.Size)
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration (slices are copied,
// not shared), grounded on the teacher's Config.Clone.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ParticleSpecies = append([]Specie(nil), c.ParticleSpecies...)
	clone.ParticleBeams = append([]Beam(nil), c.ParticleBeams...)
	clone.Probes = append([]Probe(nil), c.Probes...)
	return &clone
}
