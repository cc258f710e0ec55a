package engine

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator(t *testing.T, w, h int, strategy model.Strategy) Allocator {
	t.Helper()
	alloc, err := NewAllocator(model.NewExtent(w, h), strategy)
	require.NoError(t, err)
	return alloc
}

// snapshot returns a deep copy of an allocator's internal state.
func snapshot(alloc Allocator) any {
	switch a := alloc.(type) {
	case *ShelfAllocator:
		cp := *a
		cp.shelves = slices.Clone(a.shelves)
		return cp
	case *GuillotineAllocator:
		cp := *a
		cp.freeRects = slices.Clone(a.freeRects)
		return cp
	}
	panic("unknown allocator")
}

func TestNewAllocator_UnknownStrategy(t *testing.T) {
	_, err := NewAllocator(model.NewExtent(10, 10), model.Strategy("maxrects"))
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestNewAllocator_Strategies(t *testing.T) {
	for _, s := range model.Strategies {
		alloc := newTestAllocator(t, 32, 16, s)
		assert.Equal(t, s, alloc.Strategy())
		assert.Equal(t, model.NewExtent(32, 16), alloc.Size())
		assert.Equal(t, 32*16, alloc.Stats().FreeArea)
	}
}

func TestAllocate_ScenarioA(t *testing.T) {
	for _, s := range model.Strategies {
		t.Run(s.String(), func(t *testing.T) {
			alloc := newTestAllocator(t, 100, 100, s)
			r, err := alloc.Allocate(model.NewExtent(50, 50))
			require.NoError(t, err)
			assert.Equal(t, model.NewRect(0, 0, 50, 50), r)
		})
	}
}

func TestAllocate_ScenarioD_OversizedIsOutOfSpace(t *testing.T) {
	for _, s := range model.Strategies {
		t.Run(s.String(), func(t *testing.T) {
			alloc := newTestAllocator(t, 100, 100, s)
			_, err := alloc.Allocate(model.NewExtent(10, 10))
			require.NoError(t, err)

			before := snapshot(alloc)
			_, err = alloc.Allocate(model.NewExtent(200, 50))
			assert.True(t, errors.Is(err, ErrOutOfSpace), "got %v", err)
			_, err = alloc.Allocate(model.NewExtent(50, 200))
			assert.True(t, errors.Is(err, ErrOutOfSpace), "got %v", err)
			assert.Equal(t, before, snapshot(alloc))
		})
	}
}

func TestAllocate_InvalidExtent(t *testing.T) {
	for _, s := range model.Strategies {
		t.Run(s.String(), func(t *testing.T) {
			alloc := newTestAllocator(t, 100, 100, s)
			before := snapshot(alloc)
			for _, e := range []model.Extent{{W: 0, H: 10}, {W: 10, H: 0}, {W: -5, H: 10}} {
				_, err := alloc.Allocate(e)
				assert.True(t, errors.Is(err, ErrInvalidExtent), "extent %v: got %v", e, err)
				assert.False(t, errors.Is(err, ErrOutOfSpace))
			}
			assert.Equal(t, before, snapshot(alloc))
		})
	}
}

func TestAllocate_ZeroCanvas(t *testing.T) {
	for _, s := range model.Strategies {
		alloc := newTestAllocator(t, 0, 0, s)
		_, err := alloc.Allocate(model.NewExtent(1, 1))
		assert.True(t, errors.Is(err, ErrOutOfSpace), "%s: got %v", s, err)
	}
}

func TestNewAllocator_NegativeCanvas(t *testing.T) {
	_, err := NewAllocator(model.NewExtent(-1, 10), model.StrategyShelf)
	assert.True(t, errors.Is(err, ErrInvalidExtent))
}

// randomRequests builds a reproducible mix of extents.
func randomRequests(seed int64, n, maxSide int) []model.Extent {
	rng := rand.New(rand.NewSource(seed))
	out := make([]model.Extent, n)
	for i := range out {
		out[i] = model.NewExtent(1+rng.Intn(maxSide), 1+rng.Intn(maxSide))
	}
	return out
}

func TestAllocate_NonOverlapContainmentAndFailureIsolation(t *testing.T) {
	canvas := model.NewRect(0, 0, 256, 256)
	for _, s := range model.Strategies {
		for seed := int64(1); seed <= 5; seed++ {
			alloc := newTestAllocator(t, canvas.W, canvas.H, s)
			var placed []model.Rect
			for _, e := range randomRequests(seed, 200, 48) {
				before := snapshot(alloc)
				r, err := alloc.Allocate(e)
				if err != nil {
					require.True(t, errors.Is(err, ErrOutOfSpace), "%s: %v", s, err)
					require.Equal(t, before, snapshot(alloc), "%s: failed allocate mutated state", s)
					continue
				}
				require.Equal(t, e, r.Extent(), "%s: allocation must match the request", s)
				require.True(t, canvas.Contains(r), "%s: %v outside canvas", s, r)
				for _, p := range placed {
					require.False(t, r.Overlaps(p), "%s: %v overlaps %v", s, r, p)
				}
				placed = append(placed, r)
			}

			stats := alloc.Stats()
			assert.Equal(t, len(placed), stats.Allocated)
			used := 0
			for _, p := range placed {
				used += p.Area()
			}
			assert.Equal(t, used, stats.UsedArea)
			assert.Equal(t, canvas.Area()-used, stats.FreeArea)
		}
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	requests := randomRequests(7, 120, 40)
	for _, s := range model.Strategies {
		run := func() []model.Rect {
			alloc := newTestAllocator(t, 200, 200, s)
			var out []model.Rect
			for _, e := range requests {
				r, err := alloc.Allocate(e)
				if err != nil {
					out = append(out, model.Rect{})
					continue
				}
				out = append(out, r)
			}
			return out
		}
		assert.Equal(t, run(), run(), s.String())
	}
}

func TestDeallocate_AllowsNoOverlapWithLaterAllocations(t *testing.T) {
	for _, s := range model.Strategies {
		alloc := newTestAllocator(t, 128, 128, s)
		live := map[model.Rect]bool{}
		for i, e := range randomRequests(11, 80, 30) {
			r, err := alloc.Allocate(e)
			if err == nil {
				for p := range live {
					require.False(t, r.Overlaps(p), "%s: %v overlaps %v", s, r, p)
				}
				live[r] = true
			}
			// Free every third live rectangle as we go.
			if i%3 == 2 {
				for p := range live {
					alloc.Deallocate(p)
					delete(live, p)
					break
				}
			}
		}
		assert.Equal(t, len(live), alloc.Stats().Allocated, s.String())
	}
}
