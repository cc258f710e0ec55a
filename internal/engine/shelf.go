package engine

import (
	"fmt"

	"github.com/piwi3910/atlaspack/internal/model"
)

// ShelfAllocator packs rectangles left-to-right along horizontal shelves.
// Shelves are stacked top-to-bottom; each one is as tall as the request
// that opened it. Freed space inside a shelf is recorded but never reused.
type ShelfAllocator struct {
	size    model.Extent
	shelves []shelf
	top     int // y of the next shelf, the sum of all shelf heights
	live    int
	used    int
}

// shelf is one horizontal row of the canvas.
type shelf struct {
	y      int
	height int
	cursor int // Width consumed from the left edge
	freed  int // Width of deallocated spans, not reclaimable
	live   int
}

func NewShelfAllocator(size model.Extent) *ShelfAllocator {
	return &ShelfAllocator{size: size}
}

func (a *ShelfAllocator) Size() model.Extent       { return a.size }
func (a *ShelfAllocator) Strategy() model.Strategy { return model.StrategyShelf }

// Allocate places e on the best-fitting shelf, opening a new shelf when none
// has room. Best fit minimizes the unused shelf height; ties go to the
// shelf nearest the top.
func (a *ShelfAllocator) Allocate(e model.Extent) (model.Rect, error) {
	if err := checkExtent(e, a.size); err != nil {
		return model.Rect{}, err
	}

	idx := a.bestShelf(e)
	if idx < 0 {
		if a.top+e.H > a.size.H {
			return model.Rect{}, fmt.Errorf("no shelf for %s: %w", e, ErrOutOfSpace)
		}
		a.shelves = append(a.shelves, shelf{y: a.top, height: e.H})
		a.top += e.H
		idx = len(a.shelves) - 1
	}

	s := &a.shelves[idx]
	r := model.RectAt(s.cursor, s.y, e)
	s.cursor += e.W
	s.live++
	a.live++
	a.used += e.Area()
	return r, nil
}

// bestShelf returns the index of the shelf to use for e, or -1.
// It does not modify the allocator.
func (a *ShelfAllocator) bestShelf(e model.Extent) int {
	best := -1
	bestWaste := 0
	for i, s := range a.shelves {
		if s.height < e.H || a.size.W-s.cursor < e.W {
			continue
		}
		waste := s.height - e.H
		// Shelves are ordered by y, so strict comparison keeps the earliest on ties.
		if best < 0 || waste < bestWaste {
			best = i
			bestWaste = waste
		}
	}
	return best
}

// Deallocate marks r as free within its shelf. The shelf cursor does not
// move back, so the space is not handed out again.
func (a *ShelfAllocator) Deallocate(r model.Rect) {
	for i := range a.shelves {
		s := &a.shelves[i]
		if s.y != r.Y || r.MaxX() > s.cursor {
			continue
		}
		s.freed += r.W
		s.live--
		a.live--
		a.used -= r.Area()
		return
	}
}

// Stats reports the current space usage.
func (a *ShelfAllocator) Stats() Stats {
	return Stats{
		Allocated:  a.live,
		UsedArea:   a.used,
		FreeArea:   a.size.Area() - a.used,
		Structures: len(a.shelves),
	}
}
