package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAllocate(t *testing.T, alloc Allocator, w, h int) model.Rect {
	t.Helper()
	r, err := alloc.Allocate(model.NewExtent(w, h))
	require.NoError(t, err, "allocate %dx%d", w, h)
	return r
}

func TestShelf_ScenarioB_SameShelf(t *testing.T) {
	alloc := NewShelfAllocator(model.NewExtent(100, 50))

	assert.Equal(t, model.NewRect(0, 0, 40, 20), mustAllocate(t, alloc, 40, 20))
	assert.Equal(t, model.NewRect(40, 0, 40, 20), mustAllocate(t, alloc, 40, 20))

	require.Len(t, alloc.shelves, 1)
	assert.Equal(t, 80, alloc.shelves[0].cursor)
}

func TestShelf_OpensNewShelfBelow(t *testing.T) {
	alloc := NewShelfAllocator(model.NewExtent(100, 100))

	assert.Equal(t, model.NewRect(0, 0, 60, 30), mustAllocate(t, alloc, 60, 30))
	// 60 wide no longer fits next to the first one.
	assert.Equal(t, model.NewRect(0, 30, 60, 10), mustAllocate(t, alloc, 60, 10))
	assert.Equal(t, 2, alloc.Stats().Structures)
	assert.Equal(t, 40, alloc.top)
}

func TestShelf_BestFitMinimizesHeightWaste(t *testing.T) {
	alloc := NewShelfAllocator(model.NewExtent(100, 100))
	mustAllocate(t, alloc, 60, 30) // shelf 0: y=0 h=30
	mustAllocate(t, alloc, 60, 10) // shelf 1: y=30 h=10

	// Both shelves have 40px left; shelf 1 wastes nothing vertically.
	assert.Equal(t, model.NewRect(60, 30, 30, 10), mustAllocate(t, alloc, 30, 10))
	assert.Equal(t, model.NewRect(90, 30, 10, 10), mustAllocate(t, alloc, 10, 10))
	// Shelf 1 is full now, so the next 10px item falls back to shelf 0.
	assert.Equal(t, model.NewRect(60, 0, 10, 10), mustAllocate(t, alloc, 10, 10))
}

func TestShelf_TieBreakPrefersEarliestShelf(t *testing.T) {
	alloc := NewShelfAllocator(model.NewExtent(100, 100))
	mustAllocate(t, alloc, 80, 20) // shelf 0
	mustAllocate(t, alloc, 80, 20) // shelf 1

	assert.Equal(t, model.NewRect(80, 0, 10, 20), mustAllocate(t, alloc, 10, 20))
	assert.Equal(t, model.NewRect(90, 0, 10, 20), mustAllocate(t, alloc, 10, 20))
	assert.Equal(t, model.NewRect(80, 20, 10, 20), mustAllocate(t, alloc, 10, 20))
}

func TestShelf_TallerRequestNeverUsesShorterShelf(t *testing.T) {
	alloc := NewShelfAllocator(model.NewExtent(100, 100))
	mustAllocate(t, alloc, 10, 10)

	assert.Equal(t, model.NewRect(0, 10, 10, 20), mustAllocate(t, alloc, 10, 20))
}

func TestShelf_OutOfVerticalSpace(t *testing.T) {
	alloc := NewShelfAllocator(model.NewExtent(100, 50))
	mustAllocate(t, alloc, 10, 30)

	before := snapshot(alloc)
	_, err := alloc.Allocate(model.NewExtent(100, 30))
	assert.True(t, errors.Is(err, ErrOutOfSpace))
	assert.Equal(t, before, snapshot(alloc))

	// The remaining 20px still take a shorter shelf.
	assert.Equal(t, model.NewRect(0, 30, 100, 20), mustAllocate(t, alloc, 100, 20))
}

func TestShelf_DeallocateDoesNotReclaim(t *testing.T) {
	alloc := NewShelfAllocator(model.NewExtent(100, 20))
	first := mustAllocate(t, alloc, 50, 20)
	mustAllocate(t, alloc, 50, 20)

	alloc.Deallocate(first)

	stats := alloc.Stats()
	assert.Equal(t, 1, stats.Allocated)
	assert.Equal(t, 1000, stats.UsedArea)
	assert.Equal(t, 50, alloc.shelves[0].freed)
	assert.Equal(t, 100, alloc.shelves[0].cursor, "cursor must not retract")

	_, err := alloc.Allocate(model.NewExtent(10, 20))
	assert.True(t, errors.Is(err, ErrOutOfSpace), "freed shelf space is not reused")
}

func TestShelf_FillsCanvasExactly(t *testing.T) {
	alloc := NewShelfAllocator(model.NewExtent(64, 64))
	for y := 0; y < 64; y += 16 {
		for x := 0; x < 64; x += 16 {
			assert.Equal(t, model.NewRect(x, y, 16, 16), mustAllocate(t, alloc, 16, 16))
		}
	}
	_, err := alloc.Allocate(model.NewExtent(1, 1))
	assert.True(t, errors.Is(err, ErrOutOfSpace))
	assert.Equal(t, 0, alloc.Stats().FreeArea)
}
