package engine

import (
	"encoding/binary"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/piwi3910/atlaspack/internal/model"
)

// Run drives requests through alloc in the given order. Requests are never
// reordered here; callers that want a denser packing sort them first
// (see SortRequests).
//
// On the first request that cannot be placed Run stops and returns the
// error with no placements: a partial atlas is never a valid result.
func Run(alloc Allocator, requests []model.Request) ([]model.Placement, error) {
	if err := checkUniqueIDs(requests); err != nil {
		return nil, err
	}
	placements := make([]model.Placement, 0, len(requests))
	for i, req := range requests {
		rect, err := alloc.Allocate(req.Extent)
		if err != nil {
			return nil, fmt.Errorf("request %d %q: %w", i, req.ID, err)
		}
		placements = append(placements, model.Placement{
			ID:        req.ID,
			Rect:      rect,
			Requested: req.Extent,
		})
	}
	return placements, nil
}

// Fit is the best-effort variant of Run: requests that cannot be placed are
// collected in the report and packing continues with the next one.
func Fit(alloc Allocator, requests []model.Request) model.FitReport {
	report := model.FitReport{
		Canvas:   alloc.Size(),
		Strategy: alloc.Strategy(),
	}
	for _, req := range requests {
		rect, err := alloc.Allocate(req.Extent)
		if err != nil {
			report.Unplaced = append(report.Unplaced, req)
			continue
		}
		report.Placed = append(report.Placed, model.Placement{
			ID:        req.ID,
			Rect:      rect,
			Requested: req.Extent,
		})
	}
	return report
}

func checkUniqueIDs(requests []model.Request) error {
	seen := make(map[string]int, len(requests))
	for i, r := range requests {
		if j, ok := seen[r.ID]; ok {
			return fmt.Errorf("requests %d and %d share %q: %w", j, i, r.ID, ErrDuplicateID)
		}
		seen[r.ID] = i
	}
	return nil
}

// Packer runs a complete packing pass for a request list.
type Packer struct {
	Settings model.PackSettings
	Logger   *log.Logger
}

func New(settings model.PackSettings) *Packer {
	return &Packer{Settings: settings}
}

func (p *Packer) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}

// Order applies the configured pre-sort to requests and returns the
// sequence that Pack will feed to the allocator.
func (p *Packer) Order(requests []model.Request) ([]model.Request, error) {
	if p.Settings.Order != model.OrderGenetic {
		return SortRequests(requests, p.Settings.Order), nil
	}
	cfg := DefaultGeneticConfig()
	cfg.Seed = p.Settings.Seed
	return SearchOrder(p.Settings.Canvas(), p.Settings.Strategy, requests, cfg)
}

// Pack orders requests, builds a fresh allocator and places every request.
// The returned error wraps ErrOutOfSpace or ErrInvalidExtent when a request
// cannot be placed.
func (p *Packer) Pack(requests []model.Request) (model.PackResult, error) {
	logger := p.logger()
	canvas := p.Settings.Canvas()

	ordered, err := p.Order(requests)
	if err != nil {
		return model.PackResult{}, err
	}

	alloc, err := NewAllocator(canvas, p.Settings.Strategy)
	if err != nil {
		return model.PackResult{}, err
	}

	logger.Debug("packing", "requests", len(ordered), "canvas", canvas, "strategy", alloc.Strategy(), "order", p.Settings.Order)
	placements, err := Run(alloc, ordered)
	if err != nil {
		logger.Error("packing failed", "err", err)
		return model.PackResult{}, err
	}
	for _, pl := range placements {
		logger.Debug("placed", "id", pl.ID, "rect", pl.Rect)
	}

	stats := alloc.Stats()
	logger.Debug("allocator state", "used", stats.UsedArea, "free", stats.FreeArea, "structures", stats.Structures)

	return model.PackResult{
		LayoutID:   LayoutID(canvas, alloc.Strategy(), placements),
		Canvas:     canvas,
		Strategy:   alloc.Strategy(),
		Placements: placements,
	}, nil
}

// LayoutID derives a stable identifier from a finished layout, so identical
// runs produce identical IDs.
func LayoutID(canvas model.Extent, strategy model.Strategy, placements []model.Placement) string {
	buf := make([]byte, 0, 64+len(placements)*32)
	buf = binary.AppendVarint(buf, int64(canvas.W))
	buf = binary.AppendVarint(buf, int64(canvas.H))
	buf = append(buf, strategy...)
	for _, p := range placements {
		buf = append(buf, 0)
		buf = append(buf, p.ID...)
		buf = append(buf, 0)
		for _, v := range []int{p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, p.Requested.W, p.Requested.H} {
			buf = binary.AppendVarint(buf, int64(v))
		}
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, buf).String()
}
