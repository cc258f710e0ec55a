package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(w, h int, strategy model.Strategy) model.PackSettings {
	s := model.DefaultSettings()
	s.Width = w
	s.Height = h
	s.Strategy = strategy
	return s
}

func quietPacker(settings model.PackSettings) *Packer {
	p := New(settings)
	p.Logger = log.New(io.Discard)
	return p
}

func TestRun_ScenarioA_Fragment(t *testing.T) {
	for _, s := range model.Strategies {
		alloc := newTestAllocator(t, 100, 100, s)
		placements, err := Run(alloc, []model.Request{model.NewRequest("a.png", 50, 50)})
		require.NoError(t, err)
		require.Len(t, placements, 1)

		f := placements[0].Fragment()
		assert.Equal(t, model.Vector2{X: 25, Y: 25}, f.Center)
		assert.Equal(t, model.Vector2{X: 50, Y: 50}, f.Size)
	}
}

func TestRun_PreservesInputOrder(t *testing.T) {
	alloc := newTestAllocator(t, 100, 50, model.StrategyShelf)
	requests := []model.Request{
		model.NewRequest("small", 10, 10),
		model.NewRequest("big", 40, 20),
		model.NewRequest("mid", 20, 15),
	}

	placements, err := Run(alloc, requests)
	require.NoError(t, err)
	require.Len(t, placements, 3)
	for i, req := range requests {
		assert.Equal(t, req.ID, placements[i].ID)
		assert.Equal(t, req.Extent, placements[i].Requested)
		size := placements[i].Fragment().Size
		assert.Equal(t, model.Vector2{X: float64(req.Extent.W), Y: float64(req.Extent.H)}, size)
	}
}

func TestRun_FailFastReturnsNoPlacements(t *testing.T) {
	alloc := newTestAllocator(t, 64, 64, model.StrategyGuillotine)
	requests := []model.Request{
		model.NewRequest("first", 64, 64),
		model.NewRequest("second", 64, 64),
		model.NewRequest("third", 1, 1),
	}

	placements, err := Run(alloc, requests)
	assert.Nil(t, placements)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfSpace))
	assert.Contains(t, err.Error(), `"second"`)
	assert.Equal(t, 1, alloc.Stats().Allocated, "the third request is never attempted")
}

func TestRun_InvalidExtent(t *testing.T) {
	alloc := newTestAllocator(t, 64, 64, model.StrategyShelf)
	_, err := Run(alloc, []model.Request{model.NewRequest("empty", 0, 10)})
	assert.True(t, errors.Is(err, ErrInvalidExtent))
}

func TestRun_DuplicateIDs(t *testing.T) {
	alloc := newTestAllocator(t, 64, 64, model.StrategyShelf)
	_, err := Run(alloc, []model.Request{
		model.NewRequest("a", 1, 1),
		model.NewRequest("a", 2, 2),
	})
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Equal(t, 0, alloc.Stats().Allocated, "duplicates are rejected before allocating")
}

func TestFit_ContinuesPastFailures(t *testing.T) {
	alloc := newTestAllocator(t, 64, 64, model.StrategyGuillotine)
	report := Fit(alloc, []model.Request{
		model.NewRequest("big", 64, 32),
		model.NewRequest("huge", 100, 10),
		model.NewRequest("rest", 64, 32),
	})

	require.Len(t, report.Placed, 2)
	require.Len(t, report.Unplaced, 1)
	assert.Equal(t, "huge", report.Unplaced[0].ID)
	assert.Equal(t, model.NewRect(0, 32, 64, 32), report.Placed[1].Rect)
	assert.InDelta(t, 100.0, report.Efficiency(), 1e-9)
}

// orderSensitive fails with the shelf strategy in input order but packs
// completely when the large request goes first.
func orderSensitive() []model.Request {
	return []model.Request{
		model.NewRequest("small", 20, 10),
		model.NewRequest("large", 80, 50),
	}
}

func TestPack_DoesNotSortByDefault(t *testing.T) {
	p := quietPacker(testSettings(100, 50, model.StrategyShelf))
	_, err := p.Pack(orderSensitive())
	assert.True(t, errors.Is(err, ErrOutOfSpace))
}

func TestPack_AreaOrder(t *testing.T) {
	settings := testSettings(100, 50, model.StrategyShelf)
	settings.Order = model.OrderArea
	p := quietPacker(settings)

	result, err := p.Pack(orderSensitive())
	require.NoError(t, err)
	require.Len(t, result.Placements, 2)
	assert.Equal(t, "large", result.Placements[0].ID)
	assert.Equal(t, model.NewRect(0, 0, 80, 50), result.Placements[0].Rect)
	assert.Equal(t, model.NewRect(80, 0, 20, 10), result.Placements[1].Rect)
	assert.Equal(t, model.StrategyShelf, result.Strategy)
	assert.Equal(t, model.NewExtent(100, 50), result.Canvas)
}

func TestPack_GeneticOrder(t *testing.T) {
	settings := testSettings(100, 50, model.StrategyShelf)
	settings.Order = model.OrderGenetic
	p := quietPacker(settings)

	result, err := p.Pack(orderSensitive())
	require.NoError(t, err)
	assert.Len(t, result.Placements, 2)
}

func TestPack_UnknownStrategy(t *testing.T) {
	p := quietPacker(testSettings(100, 50, model.Strategy("nope")))
	_, err := p.Pack(orderSensitive())
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestPack_NilLoggerUsesDefault(t *testing.T) {
	p := New(testSettings(100, 100, model.StrategyGuillotine))
	result, err := p.Pack([]model.Request{model.NewRequest("a", 10, 10)})
	require.NoError(t, err)
	assert.Len(t, result.Placements, 1)
}

func TestPack_LayoutIDIsStable(t *testing.T) {
	requests := []model.Request{
		model.NewRequest("a", 30, 20),
		model.NewRequest("b", 10, 40),
		model.NewRequest("c", 25, 25),
	}

	shelf := quietPacker(testSettings(100, 100, model.StrategyShelf))
	r1, err := shelf.Pack(requests)
	require.NoError(t, err)
	r2, err := shelf.Pack(requests)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.NotEmpty(t, r1.LayoutID)

	guillotine := quietPacker(testSettings(100, 100, model.StrategyGuillotine))
	r3, err := guillotine.Pack(requests)
	require.NoError(t, err)
	assert.NotEqual(t, r1.LayoutID, r3.LayoutID)
}
