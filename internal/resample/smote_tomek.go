// Package resample corrects class imbalance in an already-encoded training
// set. It combines SMOTE-style oversampling of minority classes with the
// removal of Tomek links, the pairs of opposite-class mutual nearest
// neighbors that blur the class boundary after oversampling.
//
// Resampling is only ever applied to the training split; synthetic rows in
// the evaluation split would leak information into evaluation.
package resample

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/machinelab/tabprep/internal/errors"
)

// SMOTETomek oversamples every minority class up to the majority class count
// by interpolating between same-class nearest neighbors, then drops both
// endpoints of every Tomek link. The random source is seeded, so the same
// input and seed produce bit-identical output.
type SMOTETomek struct {
	seed       int64
	kNeighbors int
}

// NewSMOTETomek creates a rebalancer with the given seed and neighbor count.
func NewSMOTETomek(seed int64, kNeighbors int) *SMOTETomek {
	return &SMOTETomek{seed: seed, kNeighbors: kNeighbors}
}

// FitResample rebalances the feature matrix and its aligned target vector.
// The output row count differs from the input and row identity is not
// preserved: synthetic rows are appended per class, and Tomek-link rows are
// removed.
func (s *SMOTETomek) FitResample(x *mat.Dense, y []int) (*mat.Dense, []int, error) {
	rows, cols := x.Dims()
	if rows != len(y) {
		return nil, nil, errors.NewResampleError("SMOTETomek.FitResample",
			fmt.Sprintf("feature matrix has %d rows but target has %d", rows, len(y)))
	}
	if rows == 0 {
		return nil, nil, errors.NewResampleError("SMOTETomek.FitResample", "empty training set")
	}

	rng := rand.New(rand.NewSource(s.seed))

	synthetic, syntheticLabels, err := s.oversample(x, y, rng)
	if err != nil {
		return nil, nil, err
	}

	total := rows + len(syntheticLabels)
	combined := mat.NewDense(total, cols, nil)
	labels := make([]int, total)
	for i := range rows {
		combined.SetRow(i, x.RawRowView(i))
		labels[i] = y[i]
	}
	for i, row := range synthetic {
		combined.SetRow(rows+i, row)
		labels[rows+i] = syntheticLabels[i]
	}

	return removeTomekLinks(combined, labels)
}

// oversample generates synthetic rows for every class below the majority
// count. Classes are visited in ascending label order to keep the draw
// sequence deterministic.
func (s *SMOTETomek) oversample(x *mat.Dense, y []int, rng *rand.Rand) ([][]float64, []int, error) {
	_, cols := x.Dims()

	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]int, 0, len(byClass))
	maxCount := 0
	for label, idxs := range byClass {
		classes = append(classes, label)
		if len(idxs) > maxCount {
			maxCount = len(idxs)
		}
	}
	sort.Ints(classes)

	var synthetic [][]float64
	var syntheticLabels []int

	for _, label := range classes {
		idxs := byClass[label]
		need := maxCount - len(idxs)
		if need == 0 {
			continue
		}
		if len(idxs) < 2 {
			return nil, nil, errors.NewResampleError("SMOTETomek.FitResample",
				fmt.Sprintf("class %d has %d sample(s), need at least 2 for neighbor interpolation", label, len(idxs)))
		}

		k := s.kNeighbors
		if k > len(idxs)-1 {
			k = len(idxs) - 1
		}
		neighbors := classNeighbors(x, idxs, k)

		for range need {
			pick := rng.Intn(len(idxs))
			base := x.RawRowView(idxs[pick])
			nn := x.RawRowView(neighbors[pick][rng.Intn(k)])
			gap := rng.Float64()

			row := make([]float64, cols)
			for j := range cols {
				row[j] = base[j] + gap*(nn[j]-base[j])
			}
			synthetic = append(synthetic, row)
			syntheticLabels = append(syntheticLabels, label)
		}
	}

	return synthetic, syntheticLabels, nil
}

// classNeighbors returns, for each sample of the class, the row indices of
// its k nearest same-class neighbors (excluding itself).
func classNeighbors(x *mat.Dense, idxs []int, k int) [][]int {
	type dist struct {
		idx int
		d   float64
	}

	out := make([][]int, len(idxs))
	for i, a := range idxs {
		dists := make([]dist, 0, len(idxs)-1)
		for j, b := range idxs {
			if i == j {
				continue
			}
			dists = append(dists, dist{idx: b, d: floats.Distance(x.RawRowView(a), x.RawRowView(b), 2)})
		}
		sort.Slice(dists, func(p, q int) bool {
			if dists[p].d != dists[q].d {
				return dists[p].d < dists[q].d
			}
			return dists[p].idx < dists[q].idx
		})

		nearest := make([]int, k)
		for n := range k {
			nearest[n] = dists[n].idx
		}
		out[i] = nearest
	}
	return out
}

// removeTomekLinks drops both endpoints of every pair of opposite-class
// mutual nearest neighbors.
func removeTomekLinks(x *mat.Dense, y []int) (*mat.Dense, []int, error) {
	rows, cols := x.Dims()

	nearest := make([]int, rows)
	for i := range rows {
		best := -1
		bestDist := math.Inf(1)
		for j := range rows {
			if i == j {
				continue
			}
			d := floats.Distance(x.RawRowView(i), x.RawRowView(j), 2)
			if d < bestDist || (d == bestDist && j < best) {
				best = j
				bestDist = d
			}
		}
		nearest[i] = best
	}

	drop := make([]bool, rows)
	for i := range rows {
		j := nearest[i]
		if j > i && nearest[j] == i && y[i] != y[j] {
			drop[i] = true
			drop[j] = true
		}
	}

	kept := 0
	for i := range rows {
		if !drop[i] {
			kept++
		}
	}
	if kept == rows {
		return x, y, nil
	}

	out := mat.NewDense(kept, cols, nil)
	labels := make([]int, kept)
	n := 0
	for i := range rows {
		if drop[i] {
			continue
		}
		out.SetRow(n, x.RawRowView(i))
		labels[n] = y[i]
		n++
	}
	return out, labels, nil
}
