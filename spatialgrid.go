package rect2d

import (
	"math"
	"sort"
	"sync"

	"github.com/hexfault/rect2d/actor"
	"github.com/hexfault/rect2d/vector2"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is a cell's coordinates in the 2D grid.
type CellKey struct {
	X, Y int
}

// Cell holds the indices of the bodies occupying it.
type Cell struct {
	bodyIndices []int
}

// SpatialGrid is a uniform hashed spatial grid used for broad phase.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a new spatial grid with numCells rounded up to
// the next power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert places a body into every cell its AABB occupies.
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	box := body.Shape.GetAABB()
	minCell := sg.worldToCell(vector2.New(box.Left, box.Bottom))
	maxCell := sg.worldToCell(vector2.New(box.Right, box.Top))

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellIdx := sg.hashCell(CellKey{x, y})

			sg.cells[cellIdx].bodyIndices = append(
				sg.cells[cellIdx].bodyIndices,
				bodyIndex,
			)
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

// Rebuild clears and re-inserts every body, then sorts cells for
// deterministic pair iteration. Callers run this once per step before
// FindPairs/FindPairsParallel.
func (sg *SpatialGrid) Rebuild(bodies []*actor.RigidBody) {
	sg.Clear()
	for i, body := range bodies {
		sg.Insert(i, body)
	}
	sg.SortCells()
}

// FindPairs is the sequential broad-phase query.
func (sg *SpatialGrid) FindPairs(bodies []*actor.RigidBody) []CollisionPair {
	sg.Rebuild(bodies)

	pairs := make([]CollisionPair, 0, len(bodies)/2)

	for bodyIdx := 0; bodyIdx < len(bodies); bodyIdx++ {
		bodyA := bodies[bodyIdx]
		box := bodyA.Shape.GetAABB()
		minCell := sg.worldToCell(vector2.New(box.Left, box.Bottom))
		maxCell := sg.worldToCell(vector2.New(box.Right, box.Top))

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				cellIdx := sg.hashCell(CellKey{x, y})

				for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
					if otherIdx <= bodyIdx {
						continue // avoid duplicate (A,B)/(B,A) pairs
					}

					bodyB := bodies[otherIdx]

					if bodyA.BodyType == actor.BodyTypeStatic && bodyB.BodyType == actor.BodyTypeStatic {
						continue
					}
					if bodyA.IsSleeping && bodyB.IsSleeping {
						continue
					}
					if bodyA.Shape.GetAABB().Overlaps(bodyB.Shape.GetAABB()) {
						pairs = append(pairs, CollisionPair{BodyA: bodyA, BodyB: bodyB})
					}
				}
			}
		}
	}

	return pairs
}

// FindPairsParallel is the worker-sharded broad-phase query, returning a
// channel of pairs as they're discovered.
func (sg *SpatialGrid) FindPairsParallel(bodies []*actor.RigidBody, numWorkers int) <-chan CollisionPair {
	sg.Rebuild(bodies)

	var wg sync.WaitGroup
	pairsChan := make(chan CollisionPair, numWorkers*10)

	bodiesPerWorker := len(bodies) / numWorkers
	if bodiesPerWorker == 0 {
		bodiesPerWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)

		startIdx := w * bodiesPerWorker
		endIdx := startIdx + bodiesPerWorker
		if w == numWorkers-1 {
			endIdx = len(bodies)
		}

		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(bodies))
			for bodyIdx := start; bodyIdx < end; bodyIdx++ {
				for i := range seen {
					seen[i] = false
				}

				bodyA := bodies[bodyIdx]
				box := bodyA.Shape.GetAABB()
				minCell := sg.worldToCell(vector2.New(box.Left, box.Bottom))
				maxCell := sg.worldToCell(vector2.New(box.Right, box.Top))

				for x := minCell.X; x <= maxCell.X; x++ {
					for y := minCell.Y; y <= maxCell.Y; y++ {
						cellIdx := sg.hashCell(CellKey{x, y})

						for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
							if otherIdx <= bodyIdx || seen[otherIdx] {
								continue
							}
							seen[otherIdx] = true

							bodyB := bodies[otherIdx]
							if bodyA.BodyType == actor.BodyTypeStatic && bodyB.BodyType == actor.BodyTypeStatic {
								continue
							}
							if bodyA.IsSleeping && bodyB.IsSleeping {
								continue
							}
							if bodyA.Shape.GetAABB().Overlaps(bodyB.Shape.GetAABB()) {
								pairsChan <- CollisionPair{BodyA: bodyA, BodyB: bodyB}
							}
						}
					}
				}
			}
		}(startIdx, endIdx)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

func (sg *SpatialGrid) worldToCell(pos vector2.Vector2) CellKey {
	return CellKey{
		X: int(math.Floor(pos[0] / sg.cellSize)),
		Y: int(math.Floor(pos[1] / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & sg.cellMask
}
