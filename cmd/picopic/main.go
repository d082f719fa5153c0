// Command picopic drives a full run of the simulation kernel from a
// JSON configuration file (§6): it builds the tile grid, the global
// geometry, the configured species/beams, and the probe writers, then
// runs the driver to completion. Grounded on the CLI shape of the
// teacher pack's cmd/optimize/main.go (flag-based configuration,
// log.Fatal on setup failure) generalized from an optimizer's flags to
// this kernel's config-file-driven invocation.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"picopic-go/internal/config"
	"picopic-go/internal/driver"
	"picopic-go/internal/geometry"
	"picopic-go/internal/migration"
	"picopic-go/internal/output"
	"picopic-go/internal/particle"
	"picopic-go/internal/prng"
	"picopic-go/internal/tile"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("f", "./PicoPIC.json", "path to the simulation config file")
	seed := flag.Uint64("seed", 1, "root seed for the deterministic random substreams")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("picopic", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	d, err := buildDriver(cfg, *seed)
	if err != nil {
		log.Fatalf("building simulation: %v", err)
	}

	if err := d.Run(); err != nil {
		log.Fatalf("simulation run failed: %v", err)
	}
}

// buildDriver assembles the tile grid, species, and output writers
// described by cfg into a ready-to-run Driver.
func buildDriver(cfg *config.Config, seed uint64) (*driver.Driver, error) {
	rows, cols := cfg.Geometry.AreasByR, cfg.Geometry.AreasByZ
	rPerTile := cfg.Geometry.RGridAmount / rows
	zPerTile := cfg.Geometry.ZGridAmount / cols
	rSizePerTile := cfg.Geometry.RSize / float64(rows)
	zSizePerTile := cfg.Geometry.ZSize / float64(cols)

	seeds := prng.NewSeedMap(seed)
	grid := &migration.Grid{Tiles: make([][]*tile.Tile, rows)}

	for i := 0; i < rows; i++ {
		grid.Tiles[i] = make([]*tile.Tile, cols)
		for j := 0; j < cols; j++ {
			geom, err := geometry.New(
				rSizePerTile, zSizePerTile,
				i*rPerTile, (i+1)*rPerTile,
				j*zPerTile, (j+1)*zPerTile,
				rPerTile, zPerTile,
				tilePML(cfg, i, j, rows, cols),
				tileWalls(cfg, i, j, rows, cols),
			)
			if err != nil {
				return nil, fmt.Errorf("tile (%d,%d) geometry: %w", i, j, err)
			}
			geom.AreasByR, geom.AreasByZ = rows, cols

			species := tileSpecies(cfg, rows, cols)
			grid.Tiles[i][j] = tile.New(i, j, geom, cfg.Time.Step, seeds, species)
		}
	}

	globalGeom, err := geometry.New(
		cfg.Geometry.RSize, cfg.Geometry.ZSize,
		0, cfg.Geometry.RGridAmount, 0, cfg.Geometry.ZGridAmount,
		cfg.Geometry.RGridAmount, cfg.Geometry.ZGridAmount,
		geometry.PML{}, geometry.Walls{},
	)
	if err != nil {
		return nil, fmt.Errorf("global geometry: %w", err)
	}
	globalGeom.AreasByR, globalGeom.AreasByZ = rows, cols

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			grid.Tiles[i][j].Distribute(0)
		}
	}

	writers, err := buildWriters(cfg, grid)
	if err != nil {
		return nil, err
	}

	return &driver.Driver{
		Grid:       grid,
		GlobalGeom: globalGeom,
		Clock:      &driver.Clock{Current: cfg.Time.Start, Step: cfg.Time.Step, End: cfg.Time.End},
		Writers:    writers,
		Collision:  collisionConfig(cfg),
	}, nil
}

// tileWalls sets reflecting-wall flags on a tile's edges that sit on
// the global domain boundary; interior tile edges are never walls,
// since particles crossing them are handed to the neighboring tile by
// migration instead.
func tileWalls(cfg *config.Config, i, j, rows, cols int) geometry.Walls {
	w := cfg.Geometry.Walls
	return geometry.Walls{
		R0:    i == 0 && w[0],
		RWall: i == rows-1 && w[1],
		Z0:    j == 0 && w[2],
		ZWall: j == cols-1 && w[3],
	}
}

// tilePML installs the configured PML thickness only on a tile's edges
// that sit on the global domain boundary; interior edges carry no
// absorption layer.
func tilePML(cfg *config.Config, i, j, rows, cols int) geometry.PML {
	p := cfg.Geometry.PMLLength
	pml := geometry.PML{Sigma1: cfg.Geometry.PMLSigma[0], Sigma2: cfg.Geometry.PMLSigma[1]}
	if i == 0 {
		pml.LengthR0 = p[0]
	}
	if j == 0 {
		pml.LengthZ0 = p[1]
	}
	if i == rows-1 {
		pml.LengthRWall = p[2]
	}
	if j == cols-1 {
		pml.LengthZWall = p[3]
	}
	return pml
}

// tileSpecies builds one tile's slice of species descriptors from the
// config's global species/beam list, splitting each species' macro
// particle budget evenly across tiles.
func tileSpecies(cfg *config.Config, rows, cols int) []particle.Specie {
	tileCount := rows * cols
	species := make([]particle.Specie, 0, len(cfg.ParticleSpecies)+len(cfg.ParticleBeams))

	id := 0
	for _, sp := range cfg.ParticleSpecies {
		perTile := sp.MacroAmount / tileCount
		species = append(species, particle.NewBackground(
			sp.Name, id, sp.Mass, sp.Charge, perTile,
			sp.LeftDensity, sp.RightDensity, sp.Temperature,
		))
		id++
	}
	for _, b := range cfg.ParticleBeams {
		perTile := b.MacroAmount / tileCount
		species = append(species, particle.NewBeam(
			b.Name, id, b.Mass, b.Charge, perTile,
			b.StartTime, b.BunchRadius, b.Density, b.BunchesAmount,
			b.BunchLength, b.BunchesDistance, b.Velocity,
		))
		id++
	}
	return species
}

// collisionConfig carries the configured species' bulk densities and
// electron temperature through to the driver's per-tick collision pass
// as a tile-wide approximation (see DESIGN.md).
func collisionConfig(cfg *config.Config) driver.CollisionConfig {
	var cc driver.CollisionConfig
	for _, sp := range cfg.ParticleSpecies {
		if sp.Charge < 0 {
			cc.MassEl = sp.Mass
			cc.DensityEl = (sp.LeftDensity + sp.RightDensity) / 2
			cc.TemperatureEl = sp.Temperature
		} else {
			cc.MassIon = sp.Mass
			cc.DensityIon = (sp.LeftDensity + sp.RightDensity) / 2
		}
	}
	return cc
}

// buildWriters constructs one PlainWriter per configured probe,
// rooting its output file under the config's output data_root and
// sampling the tile holding the probe's origin cell. Probes spanning
// more than one tile are not supported; see DESIGN.md.
func buildWriters(cfg *config.Config, grid *migration.Grid) ([]output.Writer, error) {
	writers := make([]output.Writer, 0, len(cfg.Probes))
	rows, cols := grid.TileRows(), grid.TileCols()

	for idx, p := range cfg.Probes {
		ti, tj, ok := probeTile(grid, p, rows, cols)
		if !ok {
			return nil, fmt.Errorf("probe %d (%s): origin cell (%d,%d) is not inside any tile",
				idx, p.Component, p.Size[0], p.Size[1])
		}
		t := grid.Tiles[ti][tj]

		path := filepath.Join(cfg.OutputData.DataRoot, fmt.Sprintf("%s_%d.csv", p.Component, idx))
		w, err := output.NewPlainWriter(output.Probe{
			Path: path, Component: p.Component, Specie: p.Specie,
			RStart: localIndex(p.Size[0], t.Geom.BotR), ZStart: localIndex(p.Size[1], t.Geom.LeftZ),
			REnd: localIndex(p.Size[2], t.Geom.BotR), ZEnd: localIndex(p.Size[3], t.Geom.LeftZ),
			Schedule: p.Schedule,
		}, t.Field, t.Geom)
		if err != nil {
			return nil, fmt.Errorf("probe %d (%s): %w", idx, p.Component, err)
		}
		writers = append(writers, w)
	}
	return writers, nil
}

// probeTile locates the tile owning a probe's origin cell in the
// global grid index space. ok is false if no tile's footprint contains
// that cell (a misconfigured probe).
func probeTile(grid *migration.Grid, p config.Probe, rows, cols int) (i, j int, ok bool) {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g := grid.Tiles[i][j].Geom
			if p.Size[0] >= g.BotR && p.Size[0] < g.TopR && p.Size[1] >= g.LeftZ && p.Size[1] < g.RightZ {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func localIndex(globalIdx, tileOffset int) int {
	if v := globalIdx - tileOffset; v >= 0 {
		return v
	}
	return 0
}
