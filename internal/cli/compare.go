package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/importer"
	"github.com/piwi3910/atlaspack/internal/model"
)

type compareOpts struct {
	requests string
	files    []string
	pack     packOpts
}

// newCompareCmd creates the compare command. Every strategy is run over
// the same input on a best-effort basis, so scenarios that cannot place
// everything still report how far they got.
func newCompareCmd(root *rootOpts) *cobra.Command {
	opts := compareOpts{}

	cmd := &cobra.Command{
		Use:   "compare [images...]",
		Short: "Compare strategies and orders on the same input",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			settings, err := resolveSettings(cmd, cfg, &opts.pack)
			if err != nil {
				return err
			}
			requests, err := compareInput(cmd.Context(), opts, cfg.Workers)
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(settings.Order)
			results, err := engine.CompareScenarios(settings.Canvas(), scenarios, requests, settings.Seed)
			if err != nil {
				return err
			}
			printComparison(printer{cmd.OutOrStdout()}, settings.Canvas(), len(requests), results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.requests, "requests", "r", "", "request list (.csv or .xlsx)")
	cmd.Flags().StringSliceVarP(&opts.files, "files", "f", nil, "input image files")
	bindPackFlags(cmd, &opts.pack)

	return cmd
}

func compareInput(ctx context.Context, opts compareOpts, workers int) ([]model.Request, error) {
	switch {
	case opts.requests != "" && len(opts.files) > 0:
		return nil, fmt.Errorf("use either -r or image files, not both")
	case opts.requests != "":
		return loadRequestList(ctx, opts.requests)
	case len(opts.files) > 0:
		sources, err := importer.LoadImages(ctx, opts.files, workers)
		if err != nil {
			return nil, err
		}
		return importer.Requests(sources), nil
	}
	return nil, fmt.Errorf("no input (use -r or image files)")
}

var compareWidths = []int{24, 10, 10, 12, 12}

func printComparison(p printer, canvas model.Extent, total int, results []engine.ComparisonResult) {
	p.title(fmt.Sprintf("%d requests on %s", total, canvas))
	p.row(compareWidths, "scenario", "placed", "unplaced", "efficiency", "structures")
	for _, r := range results {
		p.row(compareWidths,
			r.Scenario.Name,
			fmt.Sprintf("%d", r.PlacedCount),
			fmt.Sprintf("%d", r.UnplacedCount),
			fmt.Sprintf("%.1f%%", r.Efficiency),
			fmt.Sprintf("%d", r.Structures),
		)
	}

	best := -1
	for i, r := range results {
		if r.Complete && (best < 0 || r.Efficiency > results[best].Efficiency) {
			best = i
		}
	}
	if best < 0 {
		p.failure("no scenario places every request; try a larger canvas")
		return
	}
	p.success("%s places everything", results[best].Scenario.Name)
}
