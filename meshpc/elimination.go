package meshpc

import (
	"container/heap"
	"math"

	"github.com/unixpickle/model3d/model3d"
)

// Weighting parameters for sample elimination.
const (
	poissonAlpha = 8.0
	poissonBeta  = 0.65
	poissonGamma = 1.5
)

// eliminateSamples reduces the candidates to n points by repeatedly
// removing the point with the most weight from close neighbors.
func eliminateSamples(candidates *PointCloud, n int, area float64) *PointCloud {
	numCandidates := candidates.Len()
	if numCandidates <= n {
		return candidates
	}
	ratio := float64(n) / float64(numCandidates)
	rMax := 2 * math.Sqrt(area/(2*math.Sqrt(3)*float64(n)))
	rMin := rMax * poissonBeta * (1 - math.Pow(ratio, poissonGamma))
	weight := func(d float64) float64 {
		if d < rMin {
			d = rMin
		}
		return math.Pow(1-d/rMax, poissonAlpha)
	}

	grid := newPointGrid(candidates.Points, rMax)
	weights := make([]float64, numCandidates)
	for i, p := range candidates.Points {
		grid.Neighbors(p, rMax, func(j int, d float64) {
			if j != i {
				weights[i] += weight(d)
			}
		})
	}

	queue := newWeightQueue(weights)
	removed := make([]bool, numCandidates)
	for remaining := numCandidates; remaining > n; remaining-- {
		i := queue.PopMax()
		removed[i] = true
		grid.Neighbors(candidates.Points[i], rMax, func(j int, d float64) {
			if j != i && !removed[j] {
				queue.Update(j, queue.Weight(j)-weight(d))
			}
		})
	}

	res := &PointCloud{
		Points: make([]model3d.Coord3D, 0, n),
	}
	if candidates.HasNormals() {
		res.Normals = make([]model3d.Coord3D, 0, n)
	}
	for i, p := range candidates.Points {
		if removed[i] {
			continue
		}
		res.Points = append(res.Points, p)
		if candidates.HasNormals() {
			res.Normals = append(res.Normals, candidates.Normals[i])
		}
	}
	return res
}

type gridCell [3]int

// A pointGrid buckets point indices into cubic cells for radius queries.
type pointGrid struct {
	points   []model3d.Coord3D
	cellSize float64
	cells    map[gridCell][]int
}

func newPointGrid(points []model3d.Coord3D, cellSize float64) *pointGrid {
	res := &pointGrid{
		points:   points,
		cellSize: cellSize,
		cells:    map[gridCell][]int{},
	}
	for i, p := range points {
		cell := res.cell(p)
		res.cells[cell] = append(res.cells[cell], i)
	}
	return res
}

func (p *pointGrid) cell(c model3d.Coord3D) gridCell {
	return gridCell{
		int(math.Floor(c.X / p.cellSize)),
		int(math.Floor(c.Y / p.cellSize)),
		int(math.Floor(c.Z / p.cellSize)),
	}
}

// Neighbors calls f for every point strictly closer than r to c, including
// c itself if it is in the grid.
//
// The radius r must not exceed the cell size.
func (p *pointGrid) Neighbors(c model3d.Coord3D, r float64, f func(idx int, dist float64)) {
	center := p.cell(c)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				cell := gridCell{center[0] + dx, center[1] + dy, center[2] + dz}
				for _, idx := range p.cells[cell] {
					if d := p.points[idx].Dist(c); d < r {
						f(idx, d)
					}
				}
			}
		}
	}
}

// A weightQueue is a max-heap of point indices keyed by weight which
// supports changing the weight of queued points.
type weightQueue struct {
	heap      []int
	positions []int
	weights   []float64
}

func newWeightQueue(weights []float64) *weightQueue {
	res := &weightQueue{
		heap:      make([]int, len(weights)),
		positions: make([]int, len(weights)),
		weights:   append([]float64{}, weights...),
	}
	for i := range weights {
		res.heap[i] = i
		res.positions[i] = i
	}
	heap.Init(res)
	return res
}

func (w *weightQueue) Weight(idx int) float64 {
	return w.weights[idx]
}

func (w *weightQueue) PopMax() int {
	return heap.Pop(w).(int)
}

// Update changes the weight of a point which is still in the queue.
func (w *weightQueue) Update(idx int, weight float64) {
	w.weights[idx] = weight
	heap.Fix(w, w.positions[idx])
}

func (w *weightQueue) Len() int {
	return len(w.heap)
}

func (w *weightQueue) Less(i, j int) bool {
	return w.weights[w.heap[i]] > w.weights[w.heap[j]]
}

func (w *weightQueue) Swap(i, j int) {
	w.heap[i], w.heap[j] = w.heap[j], w.heap[i]
	w.positions[w.heap[i]] = i
	w.positions[w.heap[j]] = j
}

func (w *weightQueue) Push(x interface{}) {
	idx := x.(int)
	w.positions[idx] = len(w.heap)
	w.heap = append(w.heap, idx)
}

func (w *weightQueue) Pop() interface{} {
	idx := w.heap[len(w.heap)-1]
	w.heap = w.heap[:len(w.heap)-1]
	w.positions[idx] = -1
	return idx
}
