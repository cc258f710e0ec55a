package export

import (
	"os"
	"testing"

	"github.com/piwi3910/atlaspack/internal/model"
)

// buildTestResult creates a small packed atlas for testing.
func buildTestResult() model.PackResult {
	return model.PackResult{
		LayoutID: "5b1f0c9e-2d7a-5c8e-9f11-3a4b5c6d7e8f",
		Canvas:   model.NewExtent(256, 128),
		Strategy: model.StrategyShelf,
		Placements: []model.Placement{
			{ID: "sprites/hero.png", Rect: model.NewRect(0, 0, 64, 64), Requested: model.NewExtent(64, 64)},
			{ID: "sprites/tile.png", Rect: model.NewRect(64, 0, 32, 32), Requested: model.NewExtent(32, 32)},
			{ID: "sprites/coin.png", Rect: model.NewRect(96, 0, 16, 16), Requested: model.NewExtent(16, 16)},
			{ID: "sprites/banner.png", Rect: model.NewRect(0, 64, 200, 40), Requested: model.NewExtent(200, 40)},
		},
	}
}

// buildManyResult places n 10x10 images in a row-major grid.
func buildManyResult(n int) model.PackResult {
	result := model.PackResult{Canvas: model.NewExtent(400, 400), Strategy: model.StrategyGuillotine}
	for i := 0; i < n; i++ {
		result.Placements = append(result.Placements, model.Placement{
			ID:        "img_" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Rect:      model.NewRect((i%40)*10, (i/40)*10, 10, 10),
			Requested: model.NewExtent(10, 10),
		})
	}
	return result
}

func assertNonEmptyFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("file is empty")
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}
