package engine

import (
	"fmt"
	"slices"

	"github.com/piwi3910/atlaspack/internal/model"
)

// GuillotineAllocator implements the guillotine bin-packing algorithm.
// It maintains a list of free rectangles and splits the chosen one with a
// single straight cut on each allocation.
type GuillotineAllocator struct {
	size      model.Extent
	freeRects []model.Rect
	live      int
	used      int
}

func NewGuillotineAllocator(size model.Extent) *GuillotineAllocator {
	a := &GuillotineAllocator{size: size}
	if !size.Valid() {
		return a
	}
	a.freeRects = []model.Rect{model.RectAt(0, 0, size)}
	return a
}

func (a *GuillotineAllocator) Size() model.Extent       { return a.size }
func (a *GuillotineAllocator) Strategy() model.Strategy { return model.StrategyGuillotine }

// Allocate places e in the top-left corner of the best-area-fit free
// rectangle and splits the leftover into at most two free rectangles.
func (a *GuillotineAllocator) Allocate(e model.Extent) (model.Rect, error) {
	if err := checkExtent(e, a.size); err != nil {
		return model.Rect{}, err
	}

	idx := a.bestFit(e)
	if idx < 0 {
		return model.Rect{}, fmt.Errorf("no free rectangle for %s: %w", e, ErrOutOfSpace)
	}

	chosen := a.freeRects[idx]
	a.freeRects = slices.Delete(a.freeRects, idx, idx+1)

	placed := model.RectAt(chosen.X, chosen.Y, e)
	for _, r := range splitGuillotine(chosen, e) {
		if !r.Empty() {
			a.freeRects = append(a.freeRects, r)
		}
	}
	a.mergeFree()

	a.live++
	a.used += e.Area()
	return placed, nil
}

// bestFit returns the index of the free rectangle with the least area waste
// for e, breaking ties by the least width waste and then list order.
// Returns -1 if nothing fits. It does not modify the allocator.
func (a *GuillotineAllocator) bestFit(e model.Extent) int {
	best := -1
	bestArea, bestWidth := 0, 0
	for i, r := range a.freeRects {
		if !r.Fits(e) {
			continue
		}
		areaFit := r.Area() - e.Area()
		widthFit := r.W - e.W
		if best < 0 || areaFit < bestArea || (areaFit == bestArea && widthFit < bestWidth) {
			best = i
			bestArea = areaFit
			bestWidth = widthFit
		}
	}
	return best
}

// splitGuillotine cuts the leftover of free around e placed at its top-left
// along the shorter leftover axis. The returned pieces may be empty.
func splitGuillotine(free model.Rect, e model.Extent) [2]model.Rect {
	dw := free.W - e.W
	dh := free.H - e.H
	if dw <= dh {
		// Horizontal cut: short strip to the right, full-width strip below.
		return [2]model.Rect{
			model.NewRect(free.X+e.W, free.Y, dw, e.H),
			model.NewRect(free.X, free.Y+e.H, free.W, dh),
		}
	}
	// Vertical cut: short strip below, full-height strip to the right.
	return [2]model.Rect{
		model.NewRect(free.X, free.Y+e.H, e.W, dh),
		model.NewRect(free.X+e.W, free.Y, dw, free.H),
	}
}

// Deallocate returns r to the free list and merges it with neighbors where
// they form a larger rectangle.
func (a *GuillotineAllocator) Deallocate(r model.Rect) {
	if r.Empty() {
		return
	}
	a.freeRects = append(a.freeRects, r)
	a.mergeFree()
	a.live--
	a.used -= r.Area()
}

// mergeFree repeatedly joins pairs of free rectangles that share a full edge
// until no pair can be joined. The merged rectangle takes the position of
// the earlier of the two so that list order stays deterministic.
func (a *GuillotineAllocator) mergeFree() {
	for {
		merged := false
	scan:
		for i := 0; i < len(a.freeRects); i++ {
			for j := i + 1; j < len(a.freeRects); j++ {
				if m, ok := mergeRects(a.freeRects[i], a.freeRects[j]); ok {
					a.freeRects[i] = m
					a.freeRects = slices.Delete(a.freeRects, j, j+1)
					merged = true
					break scan
				}
			}
		}
		if !merged {
			return
		}
	}
}

// mergeRects joins two rectangles that share a complete edge.
func mergeRects(p, q model.Rect) (model.Rect, bool) {
	switch {
	case p.X == q.X && p.W == q.W && p.MaxY() == q.Y:
		return model.NewRect(p.X, p.Y, p.W, p.H+q.H), true
	case p.X == q.X && p.W == q.W && q.MaxY() == p.Y:
		return model.NewRect(q.X, q.Y, q.W, p.H+q.H), true
	case p.Y == q.Y && p.H == q.H && p.MaxX() == q.X:
		return model.NewRect(p.X, p.Y, p.W+q.W, p.H), true
	case p.Y == q.Y && p.H == q.H && q.MaxX() == p.X:
		return model.NewRect(q.X, q.Y, p.W+q.W, p.H), true
	}
	return model.Rect{}, false
}

// Stats reports the current space usage.
func (a *GuillotineAllocator) Stats() Stats {
	return Stats{
		Allocated:  a.live,
		UsedArea:   a.used,
		FreeArea:   a.size.Area() - a.used,
		Structures: len(a.freeRects),
	}
}
