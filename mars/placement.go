package mars

import (
	"fmt"
	"math/rand/v2"

	"corewar/core"
	"corewar/point"
	"corewar/redcode"
)

// PlacementError reports that warriors could not be laid out in the core
// with the configured min_distance after the retry budget was exhausted,
// per spec.md §4.4/§7.
type PlacementError struct {
	Warrior     int
	MinDistance int
	Attempts    int
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("mars: could not place warrior %d with min_distance=%d after %d attempts",
		e.Warrior, e.MinDistance, e.Attempts)
}

const placementRetryBudget = 10000

// placeWarriors chooses an origin Point for each image in order, such
// that every pair of placed images is separated by at least minDistance
// (spec.md §4.4), writes each image into the core at its origin, and
// seeds each warrior's process queue with origin+startOffset. The first
// warrior is placed uniformly at random; later ones are resampled from
// the full core until the constraint holds or the retry budget runs out.
func placeWarriors(c *core.Core, images []parsedImage, minDistance int, rng *rand.Rand) ([]*Warrior, error) {
	extent := c.Extent()
	warriors := make([]*Warrior, len(images))
	placed := make([]placement, 0, len(images))

	for i, img := range images {
		var origin point.Point
		ok := false
		for attempt := 0; attempt < placementRetryBudget; attempt++ {
			origin = randomPoint(extent, rng)
			if fitsAll(origin, len(img.instructions), extent, placed, minDistance) {
				ok = true
				break
			}
		}
		if !ok {
			return nil, &PlacementError{Warrior: i, MinDistance: minDistance, Attempts: placementRetryBudget}
		}

		placed = append(placed, placement{origin: origin, length: len(img.instructions)})
		c.Load(origin, img.instructions)

		w := &Warrior{ID: i, Label: img.label, Origin: origin}
		start := point.Normalise(origin.AddScalar(img.startOffset), extent)
		w.queue.PushBack(start, maxProcessesUnbounded)
		warriors[i] = w
	}
	return warriors, nil
}

// maxProcessesUnbounded is large enough that seeding a single initial
// process is never rejected by PushBack's capacity check, regardless of
// the round's configured max_processes (which only bounds SPL growth).
const maxProcessesUnbounded = 1 << 30

type placement struct {
	origin point.Point
	length int
}

// fitsAll reports whether an image of the given length placed at origin
// keeps its occupied range at least minDistance from every previously
// placed image's occupied range, using the toroidal ring distance
// between linear index ranges (spec.md §4.4's "rectangular-index
// distance", resolved in DESIGN.md).
func fitsAll(origin point.Point, length int, extent point.Point, placed []placement, minDistance int) bool {
	size := extent.X * extent.Y
	start := point.Index(origin, extent)
	for _, p := range placed {
		pStart := point.Index(p.origin, extent)
		if rangeDistance(start, length, pStart, p.length, size) < minDistance {
			return false
		}
	}
	return true
}

// rangeDistance is the shortest toroidal gap between two occupied index
// ranges [aStart, aStart+aLen) and [bStart, bStart+bLen) on a core of the
// given total size; zero when the ranges overlap.
func rangeDistance(aStart, aLen, bStart, bLen, size int) int {
	if size == 0 {
		return 0
	}
	best := size
	for _, da := range []int{0, size} {
		for _, db := range []int{0, size} {
			a0, a1 := aStart+da, aStart+da+aLen
			b0, b1 := bStart+db, bStart+db+bLen
			if a1 <= b0 {
				if gap := b0 - a1; gap < best {
					best = gap
				}
			} else if b1 <= a0 {
				if gap := a0 - b1; gap < best {
					best = gap
				}
			} else {
				return 0 // overlap
			}
		}
	}
	return best
}

func randomPoint(extent point.Point, rng *rand.Rand) point.Point {
	x := 0
	if extent.X > 0 {
		x = rng.IntN(extent.X)
	}
	y := 0
	if extent.Y > 0 {
		y = rng.IntN(extent.Y)
	}
	return point.Point{X: x, Y: y}
}

// parsedImage bundles a warrior's parsed instruction sequence with its
// display label and start offset, the input to placeWarriors.
type parsedImage struct {
	label        string
	instructions []redcode.Instruction
	startOffset  int
}
