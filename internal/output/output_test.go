package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"picopic-go/internal/field"
	"picopic-go/internal/geometry"
	"picopic-go/internal/vector"
)

func testGeom(t *testing.T) *geometry.Geometry {
	t.Helper()
	g, err := geometry.New(1.0, 1.0, 0, 5, 0, 5, 5, 5, geometry.PML{}, geometry.Walls{})
	if err != nil {
		t.Fatalf("geometry.New: %v", err)
	}
	return g
}

func TestPlainWriterDumpsScheduledStepOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.csv")
	geom := testGeom(t)
	f := field.New(geom.RGridAmount, geom.ZGridAmount)
	f.E.Set(1, 1, vector.New(3.5, 0, 0))

	w, err := NewPlainWriter(Probe{
		Path: path, Component: "Er",
		RStart: 0, REnd: 2, ZStart: 0, ZEnd: 2,
		Schedule: 2,
	}, f, geom)
	if err != nil {
		t.Fatalf("NewPlainWriter: %v", err)
	}
	defer w.Close()

	if err := w.Dump(0); err != nil {
		t.Fatalf("Dump(0): %v", err)
	}
	if err := w.Dump(1); err != nil {
		t.Fatalf("Dump(1): %v", err)
	}

	w.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// header + 9 rows for step 0 only (step 1 is off-schedule)
	if len(lines) != 1+9 {
		t.Fatalf("expected 10 lines (header+9 rows for the scheduled step only), got %d:\n%s", len(lines), data)
	}
	if !strings.Contains(string(data), "3.5") {
		t.Errorf("expected the sampled E_r value to appear in output, got:\n%s", data)
	}
}
