package trap

import (
	"math"
	"sort"
)

// Peak is one detected local maximum with its prominence geometry.
type Peak struct {
	Index      int
	Height     float64
	Prominence float64
	LeftBase   int
	RightBase  int
}

// PeakOptions filters candidate peaks. Zero-valued fields disable the
// corresponding filter.
type PeakOptions struct {
	MinHeight     float64 // minimum sample value at the peak
	Distance      int     // minimum index separation between surviving peaks
	MinProminence float64 // minimum prominence
}

// FindPeaks locates local maxima of x. Plateaus count as a single peak at
// their midpoint. Filters apply in order height, distance, prominence;
// distance suppression keeps the taller of two conflicting peaks.
func FindPeaks(x []float64, opts PeakOptions) []Peak {
	idx := localMaxima(x)

	if opts.MinHeight != 0 {
		kept := idx[:0]
		for _, p := range idx {
			if x[p] >= opts.MinHeight {
				kept = append(kept, p)
			}
		}
		idx = kept
	}

	if opts.Distance > 1 {
		idx = selectByDistance(x, idx, opts.Distance)
	}

	peaks := make([]Peak, 0, len(idx))
	for _, p := range idx {
		prom, lb, rb := prominence(x, p)
		if opts.MinProminence != 0 && prom < opts.MinProminence {
			continue
		}
		peaks = append(peaks, Peak{Index: p, Height: x[p], Prominence: prom, LeftBase: lb, RightBase: rb})
	}
	return peaks
}

// localMaxima returns indices of strict local maxima. A flat run bounded by
// lower samples on both sides is reported once, at its middle sample.
// Boundary samples are never maxima.
func localMaxima(x []float64) []int {
	var peaks []int
	i := 1
	for i < len(x)-1 {
		if x[i-1] >= x[i] {
			i++
			continue
		}
		ahead := i + 1
		for ahead < len(x)-1 && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			peaks = append(peaks, (i+ahead-1)/2)
			i = ahead
			continue
		}
		i = ahead
	}
	return peaks
}

// selectByDistance drops peaks closer than dist samples to a taller peak.
// Processing order is tallest first, so the dominant peak of each cluster
// survives.
func selectByDistance(x []float64, peaks []int, dist int) []int {
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[peaks[order[a]]] > x[peaks[order[b]]]
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}
	for _, k := range order {
		if !keep[k] {
			continue
		}
		for j := k - 1; j >= 0 && peaks[k]-peaks[j] < dist; j-- {
			keep[j] = false
		}
		for j := k + 1; j < len(peaks) && peaks[j]-peaks[k] < dist; j++ {
			keep[j] = false
		}
	}

	out := make([]int, 0, len(peaks))
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// prominence computes the height of peak p above the higher of the two
// valley floors separating it from taller terrain (or the signal edge).
func prominence(x []float64, p int) (prom float64, leftBase, rightBase int) {
	leftMin := x[p]
	leftBase = p
	for i := p - 1; i >= 0 && x[i] <= x[p]; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
			leftBase = i
		}
	}

	rightMin := x[p]
	rightBase = p
	for i := p + 1; i < len(x) && x[i] <= x[p]; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
			rightBase = i
		}
	}

	prom = x[p] - math.Max(leftMin, rightMin)
	return prom, leftBase, rightBase
}
