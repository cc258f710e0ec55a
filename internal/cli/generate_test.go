package cli

import (
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/export"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func readFragments(t *testing.T, path string) []model.NamedFragment {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	frags, err := export.ReadMetadata(f)
	require.NoError(t, err)
	return frags
}

func TestGenerate_WritesAtlasAndMetadata(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 60, 40, red)
	b := writeImage(t, dir, "b.png", 30, 30, green)
	c := writeImage(t, dir, "c.png", 40, 20, blue)
	atlas := filepath.Join(dir, "atlas.png")
	meta := filepath.Join(dir, "atlas.json")

	out, _, err := runCLI(t, "generate", "-f", a, "-f", b, c,
		"-a", atlas, "-m", meta, "--width", "100", "--height", "100",
		"--config", filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Packed 3 images")

	frags := readFragments(t, meta)
	require.Len(t, frags, 3)
	assert.Equal(t, []string{a, b, c}, []string{frags[0].ID, frags[1].ID, frags[2].ID})
	assert.Equal(t, model.Vector2{X: 30, Y: 20}, frags[0].Fragment.Center)
	assert.Equal(t, model.Vector2{X: 75, Y: 15}, frags[1].Fragment.Center)
	assert.Equal(t, model.Vector2{X: 20, Y: 50}, frags[2].Fragment.Center)
	assert.Equal(t, model.Vector2{X: 40, Y: 20}, frags[2].Fragment.Size)

	f, err := os.Open(atlas)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, color.NRGBAModel.Convert(img.At(10, 10)), red)
	assert.Equal(t, color.NRGBAModel.Convert(img.At(70, 10)), green)
	assert.Equal(t, color.NRGBAModel.Convert(img.At(5, 45)), blue)
	assert.Equal(t, color.NRGBAModel.Convert(img.At(95, 95)), color.NRGBA{})
}

func TestGenerate_OutOfSpaceWritesNothing(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 60, 40, red)
	atlas := filepath.Join(dir, "atlas.png")
	meta := filepath.Join(dir, "atlas.json")

	_, _, err := runCLI(t, "generate", a, "-a", atlas, "-m", meta,
		"--width", "50", "--height", "50", "--config", filepath.Join(dir, "config.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrOutOfSpace), "got %v", err)

	assert.NoFileExists(t, atlas)
	assert.NoFileExists(t, meta)
}

func TestGenerate_NoInput(t *testing.T) {
	_, _, err := runCLI(t, "generate", "--config", filepath.Join(t.TempDir(), "config.toml"))
	assert.Error(t, err)
}

func TestGenerate_ConfigDefaultsAndProject(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := model.DefaultAppConfig()
	cfg.DefaultWidth = 64
	cfg.DefaultHeight = 64
	cfg.DefaultStrategy = model.StrategyGuillotine
	cfg.Outputs.Atlas = filepath.Join(dir, "from-config.png")
	cfg.Outputs.Metadata = filepath.Join(dir, "from-config.json")
	require.NoError(t, project.SaveAppConfig(cfgPath, cfg))

	img := writeImage(t, dir, "tile.png", 16, 16, red)
	projPath := filepath.Join(dir, "tiles.atlas.json")

	_, _, err := runCLI(t, "generate", img, "--project", projPath, "--config", cfgPath)
	require.NoError(t, err)

	assert.FileExists(t, cfg.Outputs.Atlas)
	assert.FileExists(t, cfg.Outputs.Metadata)

	proj, err := project.LoadProject(projPath)
	require.NoError(t, err)
	assert.Equal(t, "tiles", proj.Name)
	assert.Equal(t, model.StrategyGuillotine, proj.Settings.Strategy)
	assert.Equal(t, 64, proj.Settings.Width)
	require.NotNil(t, proj.Result)
	assert.Len(t, proj.Result.Placements, 1)

	updated, err := project.LoadAppConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{projPath}, updated.RecentProjects)
}
