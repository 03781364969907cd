package segmentation

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// kmeansRun holds the outcome of a single Lloyd's-algorithm run.
type kmeansRun struct {
	assignments []int
	wcss        float64
}

// runKMeans partitions the points into k clusters with Lloyd's algorithm,
// restarting with fresh random initializations and keeping the run with the
// lowest within-cluster sum of squares. Points are used as raw Euclidean
// coordinates; callers decide whether to normalize (this pipeline does not).
func runKMeans(points [][]float64, k, restarts, maxIterations int, rng *rand.Rand) kmeansRun {
	best := kmeansRun{wcss: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		run := lloyd(points, k, maxIterations, rng)
		if run.wcss < best.wcss {
			best = run
		}
	}
	return best
}

// lloyd runs one assign/update loop until assignments stop changing or the
// iteration cap is reached.
func lloyd(points [][]float64, k, maxIterations int, rng *rand.Rand) kmeansRun {
	dims := len(points[0])

	// initialize centroids from k distinct points
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centroids[i] = append([]float64(nil), points[idx]...)
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, point := range points {
			nearest := nearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		// recompute centroids as cluster means
		sums := make([][]float64, k)
		sizes := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, point := range points {
			floats.Add(sums[assignments[i]], point)
			sizes[assignments[i]]++
		}
		for c := range centroids {
			if sizes[c] == 0 {
				// reseed empty clusters from a random point
				centroids[c] = append([]float64(nil), points[rng.Intn(len(points))]...)
				continue
			}
			floats.Scale(1/float64(sizes[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	wcss := 0.0
	for i, point := range points {
		d := floats.Distance(point, centroids[assignments[i]], 2)
		wcss += d * d
	}
	return kmeansRun{assignments: assignments, wcss: wcss}
}

func nearestCentroid(point []float64, centroids [][]float64) int {
	nearest := 0
	nearestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(point, centroid, 2); d < nearestDist {
			nearest = c
			nearestDist = d
		}
	}
	return nearest
}
