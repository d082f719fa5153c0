// Package grid implements Grid3D, the core+overlay storage used for
// every per-tile scalar and vector field in the kernel (§4.2).
package grid

// Grid3D is a (nr, nz) core with a one-cell overlay halo in every
// direction, addressed with shifted indices so the core and the halo
// share one backing array of shape (nr+2, nz+2).
type Grid3D[T any] struct {
	nr, nz int
	data   [][]T
}

// New allocates a Grid3D with the given core shape.
func New[T any](nr, nz int) *Grid3D[T] {
	data := make([][]T, nr+2)
	for i := range data {
		data[i] = make([]T, nz+2)
	}
	return &Grid3D[T]{nr: nr, nz: nz, data: data}
}

// NR returns the core width.
func (g *Grid3D[T]) NR() int { return g.nr }

// NZ returns the core height.
func (g *Grid3D[T]) NZ() int { return g.nz }

// inCore reports whether (i, j) is within the core index range.
func (g *Grid3D[T]) inCore(i, j int) bool {
	return i >= 0 && i < g.nr && j >= 0 && j < g.nz
}

// At reads the value at core index (i, j). Indices of -1 or nr/nz read
// the overlay halo ring.
func (g *Grid3D[T]) At(i, j int) T {
	return g.data[i+1][j+1]
}

// Set writes the value at core index (i, j) (or overlay index, per At).
func (g *Grid3D[T]) Set(i, j int, v T) {
	g.data[i+1][j+1] = v
}

// IncAt adds delta to the value at a core or overlay index in place.
// Addition requires a combine function since Grid3D is generic over any
// T; scalar instantiations pass a simple "+", vector instantiations pass
// Vec3.Add.
func (g *Grid3D[T]) IncAt(i, j int, delta T, add func(a, b T) T) {
	g.data[i+1][j+1] = add(g.data[i+1][j+1], delta)
}

// Fill writes v to every core and overlay cell.
func (g *Grid3D[T]) Fill(v T) {
	for i := range g.data {
		for j := range g.data[i] {
			g.data[i][j] = v
		}
	}
}

// OverlaySet writes v to only the halo ring, leaving the core untouched.
func (g *Grid3D[T]) OverlaySet(v T) {
	last := len(g.data) - 1
	for j := range g.data[0] {
		g.data[0][j] = v
		g.data[last][j] = v
	}
	for i := 1; i < last; i++ {
		g.data[i][0] = v
		g.data[i][len(g.data[i])-1] = v
	}
}

// OverlayAt reads the overlay halo value just outside the core edge
// identified by (i, j) in shifted coordinates (i.e. i/j in [-1, nr]/[-1,
// nz]). It is the same storage as At; seam reduction in
// internal/migration reads the halo through At directly.
func (g *Grid3D[T]) OverlayAt(i, j int) T {
	return g.At(i, j)
}
