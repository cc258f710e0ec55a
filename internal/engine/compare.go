package engine

import (
	"github.com/piwi3910/atlaspack/internal/model"
)

// ComparisonScenario defines a named strategy/order combination to compare.
type ComparisonScenario struct {
	Name     string
	Strategy model.Strategy
	Order    model.Order
}

// ComparisonResult holds the best-effort outcome and statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Report        model.FitReport
	PlacedCount   int
	UnplacedCount int
	Efficiency    float64
	Structures    int // Shelves or free rectangles left after packing
	Complete      bool
}

// CompareScenarios packs the same requests once per scenario on a canvas
// and returns the results in scenario order. Unlike Pack it does not stop
// at the first failure, so scenarios can be ranked by how much they place.
func CompareScenarios(canvas model.Extent, scenarios []ComparisonScenario, requests []model.Request, seed int64) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		ordered := SortRequests(requests, scenario.Order)
		if scenario.Order == model.OrderGenetic {
			cfg := DefaultGeneticConfig()
			cfg.Seed = seed
			var err error
			ordered, err = SearchOrder(canvas, scenario.Strategy, requests, cfg)
			if err != nil {
				return nil, err
			}
		}

		alloc, err := NewAllocator(canvas, scenario.Strategy)
		if err != nil {
			return nil, err
		}
		report := Fit(alloc, ordered)

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Report:        report,
			PlacedCount:   len(report.Placed),
			UnplacedCount: len(report.Unplaced),
			Efficiency:    report.Efficiency(),
			Structures:    alloc.Stats().Structures,
			Complete:      len(report.Unplaced) == 0,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates every strategy with the given order and,
// when that order is not already area-first, with an area-first pre-sort.
func BuildDefaultScenarios(order model.Order) []ComparisonScenario {
	if order == "" {
		order = model.OrderNone
	}
	var scenarios []ComparisonScenario
	for _, s := range model.Strategies {
		scenarios = append(scenarios, ComparisonScenario{
			Name:     s.String() + "/" + string(order),
			Strategy: s,
			Order:    order,
		})
	}
	if order != model.OrderArea {
		for _, s := range model.Strategies {
			scenarios = append(scenarios, ComparisonScenario{
				Name:     s.String() + "/" + string(model.OrderArea),
				Strategy: s,
				Order:    model.OrderArea,
			})
		}
	}
	return scenarios
}
