package engine

import (
	"cmp"
	"slices"

	"github.com/piwi3910/atlaspack/internal/model"
)

// SortRequests returns a copy of requests sorted by the given order,
// descending. The sort is stable, so equal keys keep their input order.
// OrderNone and OrderGenetic return an unmodified copy; the genetic order
// is produced by SearchOrder.
func SortRequests(requests []model.Request, order model.Order) []model.Request {
	out := slices.Clone(requests)
	key := sortKey(order)
	if key == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.Request) int {
		return cmp.Compare(key(b.Extent), key(a.Extent))
	})
	return out
}

func sortKey(order model.Order) func(model.Extent) int {
	switch order {
	case model.OrderArea:
		return model.Extent.Area
	case model.OrderHeight:
		return func(e model.Extent) int { return e.H }
	case model.OrderWidth:
		return func(e model.Extent) int { return e.W }
	case model.OrderPerimeter:
		return func(e model.Extent) int { return 2 * (e.W + e.H) }
	case model.OrderMaxSide:
		return func(e model.Extent) int { return max(e.W, e.H) }
	}
	return nil
}
