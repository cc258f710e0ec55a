// Package engine implements the rectangle-packing allocators and the
// orchestration that drives a request list through one of them.
package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/atlaspack/internal/model"
)

var (
	// ErrOutOfSpace is returned when no free region can hold the requested
	// extent, including extents larger than the canvas itself.
	ErrOutOfSpace = errors.New("out of space")

	// ErrInvalidExtent is returned for extents with a zero or negative dimension.
	ErrInvalidExtent = errors.New("invalid extent")

	// ErrUnknownStrategy is returned by NewAllocator for unsupported strategies.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrDuplicateID is returned when two requests share an identifier.
	ErrDuplicateID = errors.New("duplicate identifier")
)

// Allocator hands out non-overlapping rectangles from a fixed-size canvas.
//
// Every rectangle returned by Allocate lies within the canvas and does not
// overlap any other rectangle returned by the same instance that has not been
// deallocated. A failed Allocate leaves the allocator unchanged.
// Allocators are not safe for concurrent use.
type Allocator interface {
	// Allocate reserves a rectangle of exactly the given extent.
	Allocate(e model.Extent) (model.Rect, error)

	// Deallocate returns a rectangle previously handed out by Allocate.
	// Passing any other rectangle is undefined behavior.
	Deallocate(r model.Rect)

	// Size returns the canvas extent.
	Size() model.Extent

	// Strategy identifies the packing strategy.
	Strategy() model.Strategy

	// Stats reports the current space usage.
	Stats() Stats
}

// Stats summarizes an allocator's free-space bookkeeping.
type Stats struct {
	Allocated  int // Number of live allocations
	UsedArea   int // Area covered by live allocations
	FreeArea   int // Canvas area not covered by live allocations
	Structures int // Shelves or free rectangles currently tracked
}

// NewAllocator builds an allocator of the given strategy for a canvas.
func NewAllocator(size model.Extent, strategy model.Strategy) (Allocator, error) {
	if size.W < 0 || size.H < 0 {
		return nil, fmt.Errorf("canvas %s: %w", size, ErrInvalidExtent)
	}
	switch strategy {
	case model.StrategyShelf:
		return NewShelfAllocator(size), nil
	case model.StrategyGuillotine:
		return NewGuillotineAllocator(size), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}

// checkExtent performs the checks shared by all strategies before any
// free-space search.
func checkExtent(e, canvas model.Extent) error {
	if !e.Valid() {
		return fmt.Errorf("extent %s: %w", e, ErrInvalidExtent)
	}
	if !e.FitsIn(canvas) {
		return fmt.Errorf("extent %s exceeds canvas %s: %w", e, canvas, ErrOutOfSpace)
	}
	return nil
}
