// Package output implements the probe data sink (§4.8, Output
// component): one Writer per configured probe, each dumping a row of
// field/particle samples when the simulation step matches its
// schedule. Grounded on dataWriter.hpp's DataWriter class at the
// interface level (path, component, specie, shape, size, schedule
// fields); file-format specifics (compression, HDF5 container layout)
// are out of scope per the Non-goals, so the one concrete
// implementation built here, PlainWriter, emits CSV rows via
// github.com/gocarina/gocsv in the style of the teacher pack's
// telemetry.OutputManager (pthm-soup/telemetry/output.go).
package output

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"picopic-go/internal/field"
	"picopic-go/internal/geometry"
)

// Writer is the per-probe output sink the driver dumps to once per
// step.
type Writer interface {
	// Dump writes this probe's sample for the given step, if the
	// probe's schedule selects it. A no-op on off-schedule steps.
	Dump(step int) error
	// Close releases any held file handle.
	Close() error
}

// Probe describes one configured sample region and cadence, mirroring
// DataWriter's path/component/specie/shape/size/schedule fields.
type Probe struct {
	Path      string
	Component string // one of "Er", "Ephi", "Ez", "Hr", "Hphi", "Hz"; any other name (current components included) samples as 0
	Specie    string
	RStart, ZStart, REnd, ZEnd int
	Schedule  int // dump every Schedule-th step; 0 means every step
}

// sample is one CSV row: the simulation step, the probed cell, and the
// sampled value.
type sample struct {
	Step  int     `csv:"step"`
	R     int     `csv:"r"`
	Z     int     `csv:"z"`
	Value float64 `csv:"value"`
}

// PlainWriter is the one concrete Writer built: it samples a rectangular
// (r, z) window of one field component from one tile's Field each
// scheduled step and appends CSV rows to Probe.Path.
type PlainWriter struct {
	probe Probe
	field *field.Field
	geom  *geometry.Geometry
	file  *os.File

	headerWritten bool
}

// NewPlainWriter opens (creating if absent) the probe's output file.
func NewPlainWriter(probe Probe, f *field.Field, geom *geometry.Geometry) (*PlainWriter, error) {
	file, err := os.OpenFile(probe.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening probe output %q: %w", probe.Path, err)
	}
	return &PlainWriter{probe: probe, field: f, geom: geom, file: file}, nil
}

// Dump samples the probe's window for component at this step, if the
// schedule selects it, and appends the rows as CSV.
func (w *PlainWriter) Dump(step int) error {
	if w.probe.Schedule > 1 && step%w.probe.Schedule != 0 {
		return nil
	}

	rows := make([]*sample, 0, (w.probe.REnd-w.probe.RStart+1)*(w.probe.ZEnd-w.probe.ZStart+1))
	for i := w.probe.RStart; i <= w.probe.REnd; i++ {
		for j := w.probe.ZStart; j <= w.probe.ZEnd; j++ {
			rows = append(rows, &sample{Step: step, R: i, Z: j, Value: w.componentAt(i, j)})
		}
	}

	if !w.headerWritten {
		if err := gocsv.Marshal(rows, w.file); err != nil {
			return fmt.Errorf("writing probe header+rows for %q: %w", w.probe.Path, err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, w.file); err != nil {
		return fmt.Errorf("appending probe rows for %q: %w", w.probe.Path, err)
	}
	return nil
}

func (w *PlainWriter) componentAt(i, j int) float64 {
	switch w.probe.Component {
	case "Er":
		return w.field.E.At(i, j).R
	case "Ephi":
		return w.field.E.At(i, j).Phi
	case "Ez":
		return w.field.E.At(i, j).Z
	case "Hr":
		return w.field.H.At(i, j).R
	case "Hphi":
		return w.field.H.At(i, j).Phi
	case "Hz":
		return w.field.H.At(i, j).Z
	default:
		return 0
	}
}

// Close releases the probe's file handle.
func (w *PlainWriter) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
