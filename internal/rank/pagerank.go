// Package rank implements the iterative PageRank over a vault's link
// graph: dampening, dangling-mass redistribution, and a convergence
// check. Grounded on original_source/src/rank.rs (d=0.85, the
// teleport/dangling_mass/base shape matches this port term-for-term).
// Per-destination-vertex accumulation is fanned out with
// golang.org/x/sync/errgroup, the same pattern internal/corpus uses for
// document-frequency computation.
package rank

import (
	"golang.org/x/sync/errgroup"

	"github.com/vaultkb/vaultkb/internal/linkresolver"
	"github.com/vaultkb/vaultkb/internal/mdparse"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
)

const damping = 0.85

// Vertex is the minimal view of a Document the Ranker needs: its
// identity and its outgoing Links.
type Vertex struct {
	Path  pathnorm.NormPath
	Links []mdparse.Link
}

// Compute runs PageRank over vertices (in the given order; the
// returned slice is rank-per-index in that same order), restricted to
// edges that resolve (via linkresolver.Resolve against base) to
// another vertex in the set. Iterates until delta < tol or maxIter is
// reached.
func Compute(vertices []Vertex, base string, maxIter int, tol float64) []float64 {
	n := len(vertices)
	if n == 0 {
		return nil
	}

	index := make(map[pathnorm.NormPath]int, n)
	for i, v := range vertices {
		index[v.Path] = i
	}

	inbound := make([][]int, n)
	outdeg := make([]int, n)
	for i, v := range vertices {
		for _, l := range v.Links {
			dst, ok := linkresolver.Resolve(l, base)
			if !ok {
				continue
			}
			j, ok := index[dst]
			if !ok {
				continue
			}
			inbound[j] = append(inbound[j], i)
			outdeg[i]++
		}
	}

	rnk := make([]float64, n)
	for i := range rnk {
		rnk[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < maxIter; iter++ {
		teleport := (1 - damping) / float64(n)

		danglingMass := 0.0
		for i, deg := range outdeg {
			if deg == 0 {
				danglingMass += rnk[i]
			}
		}
		base := teleport + damping*danglingMass/float64(n)

		next := make([]float64, n)
		var g errgroup.Group
		for j := 0; j < n; j++ {
			j := j
			g.Go(func() error {
				sum := 0.0
				for _, i := range inbound[j] {
					sum += rnk[i] / float64(outdeg[i])
				}
				next[j] = base + damping*sum
				return nil
			})
		}
		_ = g.Wait()

		delta := 0.0
		for i := range rnk {
			d := next[i] - rnk[i]
			if d < 0 {
				d = -d
			}
			delta += d
		}
		rnk = next
		if delta < tol {
			break
		}
	}

	return rnk
}
