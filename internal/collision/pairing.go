// Package collision implements the per-cell binary Coulomb collision
// operator (§4.7, C8): a shared pairing protocol plus two scattering
// kernels (Takizuka-Abe 1977 like-like, Sentoku-Kemp relativistic
// electron-ion). Grounded expression-for-expression on
// original_source/src/collisionsSentokuM.cpp's collide() (pairing) and
// collide_single() (scattering); collisionsTA77S.hpp supplies the
// like-like kernel's declared shape.
package collision

import "picopic-go/internal/particle"

// Pair is one scattering partner pair produced by Pairing.
type Pair struct {
	A, B *particle.Particle
}

// Pairing builds the full set of per-cell collision pairs: like-like
// pairs within each species list, plus electron-ion pairs, per §4.7.
// Callers are expected to have already shuffled electrons/ions with a
// seeded stream (§5: pairing order is randomized each step).
func Pairing(electrons, ions []*particle.Particle) []Pair {
	pairs := likeLikePairs(ions)
	pairs = append(pairs, likeLikePairs(electrons)...)
	pairs = append(pairs, crossSpeciesPairs(electrons, ions)...)
	return pairs
}

// likeLikePairs ports the TA77 case-1a/1b branching: consecutive pairs
// for an even-sized list; a leading triangle plus consecutive pairs for
// an odd-sized list of at least 3.
func likeLikePairs(list []*particle.Particle) []Pair {
	n := len(list)
	var pairs []Pair

	if n%2 == 0 {
		for k := 0; k+1 < n; k += 2 {
			pairs = append(pairs, Pair{list[k], list[k+1]})
		}
		return pairs
	}

	if n >= 3 {
		pairs = append(pairs,
			Pair{list[0], list[1]},
			Pair{list[1], list[2]},
			Pair{list[2], list[0]},
		)
		for k := 3; k+1 < n; k += 2 {
			pairs = append(pairs, Pair{list[k], list[k+1]})
		}
	}
	return pairs
}

// crossSpeciesPairs ports the TA77 case-2a/2b electron-ion pairing:
// direct index pairing when the lists are equal size, and the
// group-ratio mapping (c = floor(big/small), f = big/small - c)
// otherwise.
func crossSpeciesPairs(electrons, ions []*particle.Particle) []Pair {
	ne, ni := len(electrons), len(ions)
	if ne == 0 || ni == 0 {
		return nil
	}

	if ne == ni {
		pairs := make([]Pair, 0, ne)
		for k := 0; k < ne; k++ {
			pairs = append(pairs, Pair{electrons[k], ions[k]})
		}
		return pairs
	}

	if ni > ne {
		return groupRatioPairs(electrons, ions, ne, ni, false)
	}
	return groupRatioPairs(ions, electrons, ni, ne, true)
}

// groupRatioPairs implements the case-2b group mapping for one
// small/big orientation. small is the shorter list, big the longer;
// swapped reports whether (small, big) correspond to (electrons, ions)
// reversed, so the returned pairs can always be handed back as
// (electron, ion).
func groupRatioPairs(small, big []*particle.Particle, nSmall, nBig int, swapped bool) []Pair {
	c := nBig / nSmall
	// small1 = f*nSmall with f = nBig/nSmall - c, computed in integers so
	// float rounding cannot drop a member from either group.
	small1 := nBig - c*nSmall

	group1 := (c + 1) * small1
	group2 := c * (nSmall - small1)

	var pairs []Pair
	pair := func(s, b *particle.Particle) Pair {
		if swapped {
			return Pair{A: b, B: s}
		}
		return Pair{A: s, B: b}
	}

	for bigIdx := 0; bigIdx < group1 && bigIdx < nBig; bigIdx++ {
		smallIdx := bigIdx / (c + 1)
		if smallIdx >= nSmall {
			break
		}
		pairs = append(pairs, pair(small[smallIdx], big[bigIdx]))
	}
	for bigIdx := 0; bigIdx < group2 && group1+bigIdx < nBig; bigIdx++ {
		smallIdx := bigIdx / c
		if small1+smallIdx >= nSmall {
			break
		}
		pairs = append(pairs, pair(small[small1+smallIdx], big[group1+bigIdx]))
	}
	return pairs
}
