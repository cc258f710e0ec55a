package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/export"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// packOpts holds the canvas and ordering flags shared by generate, plan
// and compare.
type packOpts struct {
	width     int
	height    int
	algorithm string
	order     string
	seed      int64
}

func bindPackFlags(cmd *cobra.Command, opts *packOpts) {
	defaults := model.DefaultSettings()
	cmd.Flags().IntVar(&opts.width, "width", defaults.Width, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", defaults.Height, "canvas height in pixels")
	cmd.Flags().StringVar(&opts.algorithm, "algorithm", string(defaults.Strategy), "allocator: shelf (etagere), guillotine (guillotiere)")
	cmd.Flags().StringVar(&opts.order, "order", string(defaults.Order), "pre-sort: none, area, height, width, perimeter, maxside, genetic")
	cmd.Flags().Int64Var(&opts.seed, "seed", defaults.Seed, "seed for the genetic order search")
}

// resolveSettings layers config defaults under the flags the user set.
func resolveSettings(cmd *cobra.Command, cfg model.AppConfig, opts *packOpts) (model.PackSettings, error) {
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	flags := cmd.Flags()
	if flags.Changed("width") {
		settings.Width = opts.width
	}
	if flags.Changed("height") {
		settings.Height = opts.height
	}
	if flags.Changed("seed") {
		settings.Seed = opts.seed
	}
	if flags.Changed("algorithm") {
		settings.Strategy = model.Strategy(opts.algorithm)
	}
	if flags.Changed("order") {
		settings.Order = model.Order(opts.order)
	}

	var err error
	if settings.Strategy, err = model.ParseStrategy(string(settings.Strategy)); err != nil {
		return model.PackSettings{}, err
	}
	if settings.Order, err = model.ParseOrder(string(settings.Order)); err != nil {
		return model.PackSettings{}, err
	}
	if settings.Width <= 0 || settings.Height <= 0 {
		return model.PackSettings{}, fmt.Errorf("canvas must be positive, got %dx%d", settings.Width, settings.Height)
	}
	return settings, nil
}

// outputOpts names the files written after a successful pack.
type outputOpts struct {
	metadata string
	report   string
	labels   string
	sheet    string
	dxf      string
	project  string
}

func bindOutputFlags(cmd *cobra.Command, opts *outputOpts) {
	cmd.Flags().StringVarP(&opts.metadata, "metadata", "m", "", "metadata JSON output (default from config, atlas.json)")
	cmd.Flags().StringVar(&opts.report, "report", "", "write a PDF layout report")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write a PDF of QR-coded labels")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "write an XLSX placement sheet")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "write a DXF outline drawing")
	cmd.Flags().StringVar(&opts.project, "project", "", "save requests, settings and result as a project file")
}

// withConfigDefaults fills unset output paths from the config.
func (o outputOpts) withConfigDefaults(cfg model.OutputConfig) outputOpts {
	pick := func(flag, fallback string) string {
		if flag != "" {
			return flag
		}
		return fallback
	}
	o.metadata = pick(o.metadata, cfg.Metadata)
	o.report = pick(o.report, cfg.Report)
	o.labels = pick(o.labels, cfg.Labels)
	o.sheet = pick(o.sheet, cfg.Sheet)
	o.dxf = pick(o.dxf, cfg.DXF)
	return o
}

// pack runs the packer, logging an estimate of whether the requests can fit.
func pack(ctx context.Context, settings model.PackSettings, requests []model.Request) (model.PackResult, error) {
	logger := loggerFromContext(ctx)

	est := model.EstimateCanvas(requests, settings.Canvas())
	logger.Debug("estimate", "area", est.TotalArea, "fill", fmt.Sprintf("%.1f%%", est.FillPercent), "min_pow2", est.PowerOfTwo)
	if !est.Fits {
		logger.Warn("requests cannot fit the canvas", "needed", est.TotalArea, "canvas", settings.Canvas(), "suggested", fmt.Sprintf("%dx%d", est.PowerOfTwo, est.PowerOfTwo))
	}

	p := newProgress(logger)
	packer := engine.New(settings)
	packer.Logger = logger
	result, err := packer.Pack(requests)
	if err != nil {
		return model.PackResult{}, err
	}
	p.done(fmt.Sprintf("Packed %d images with %s (%.1f%% used)", len(result.Placements), result.Strategy, result.Efficiency()))
	return result, nil
}

// writeOutputs writes the metadata and every requested report, and returns
// the paths written in order.
func writeOutputs(ctx context.Context, result model.PackResult, out outputOpts) ([]string, error) {
	logger := loggerFromContext(ctx)
	var written []string

	steps := []struct {
		path  string
		write func(string, model.PackResult) error
	}{
		{out.metadata, export.ExportMetadata},
		{out.report, export.ExportReport},
		{out.labels, export.ExportLabels},
		{out.sheet, export.ExportSheet},
		{out.dxf, export.ExportDXF},
	}
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		if err := s.write(s.path, result); err != nil {
			return written, fmt.Errorf("write %s: %w", s.path, err)
		}
		logger.Debug("wrote", "path", s.path)
		written = append(written, s.path)
	}
	return written, nil
}

// saveProject stores the run as a project file and records it in the
// config's recent list when configPath is writable.
func saveProject(path, configPath string, cfg model.AppConfig, name string, settings model.PackSettings, requests []model.Request, result model.PackResult) error {
	proj := model.NewProject()
	proj.Name = name
	proj.Requests = requests
	proj.Settings = settings
	proj.Result = &result
	if err := project.SaveProject(path, proj); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if configPath == "" {
		return nil
	}
	project.AddRecentProject(&cfg, path)
	return project.SaveAppConfig(configPath, cfg)
}

func printSummary(p printer, result model.PackResult, written []string) {
	p.success("Packed %d images on %s with %s", len(result.Placements), result.Canvas, result.Strategy)
	p.keyValue("layout", result.LayoutID)
	p.keyValue("efficiency", fmt.Sprintf("%.1f%%", result.Efficiency()))
	for _, path := range written {
		p.file(path)
	}
}
