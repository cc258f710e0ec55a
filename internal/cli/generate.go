package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/export"
	"github.com/piwi3910/atlaspack/internal/importer"
	"github.com/piwi3910/atlaspack/internal/model"
)

type generateOpts struct {
	files   []string
	atlas   string
	workers int
	pack    packOpts
	out     outputOpts
}

// newGenerateCmd creates the generate command, which packs image files
// into an atlas PNG and writes the fragment metadata.
func newGenerateCmd(root *rootOpts) *cobra.Command {
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate [images...]",
		Short: "Pack images into an atlas PNG with JSON metadata",
		Example: `  atlaspack generate -f a.png b.png -a atlas.png -m atlas.json
  atlaspack generate sprites/*.png --width 512 --height 512 --algorithm guillotine --order area`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			if len(opts.files) == 0 {
				return fmt.Errorf("no input images (use -f or positional arguments)")
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			settings, err := resolveSettings(cmd, cfg, &opts.pack)
			if err != nil {
				return err
			}
			if opts.atlas == "" {
				opts.atlas = cfg.Outputs.Atlas
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = cfg.Workers
			}
			out := opts.out.withConfigDefaults(cfg.Outputs)

			result, requests, written, err := runGenerate(cmd.Context(), settings, opts.files, opts.atlas, opts.workers, out)
			if err != nil {
				return err
			}
			if opts.out.project != "" {
				if err := saveProject(opts.out.project, root.recentConfigPath(), cfg, projectName(opts.out.project), settings, requests, result); err != nil {
					return err
				}
				written = append(written, opts.out.project)
			}
			printSummary(printer{cmd.OutOrStdout()}, result, written)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.files, "files", "f", nil, "input image files (png, jpeg, gif, bmp, tiff, webp)")
	cmd.Flags().StringVarP(&opts.atlas, "atlas", "a", "", "atlas PNG output (default from config, atlas.png)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "images decoded in parallel (0 = one per CPU)")
	bindPackFlags(cmd, &opts.pack)
	bindOutputFlags(cmd, &opts.out)

	return cmd
}

// runGenerate decodes files, packs them, and writes the atlas and outputs.
// Nothing is written when packing fails.
func runGenerate(ctx context.Context, settings model.PackSettings, files []string, atlasPath string, workers int, out outputOpts) (model.PackResult, []model.Request, []string, error) {
	logger := loggerFromContext(ctx)

	p := newProgress(logger)
	sources, err := importer.LoadImages(ctx, files, workers)
	if err != nil {
		return model.PackResult{}, nil, nil, err
	}
	p.done(fmt.Sprintf("Decoded %d images", len(sources)))

	requests := importer.Requests(sources)
	result, err := pack(ctx, settings, requests)
	if err != nil {
		return model.PackResult{}, nil, nil, err
	}

	var written []string
	if atlasPath != "" {
		p = newProgress(logger)
		img, err := export.ComposeAtlas(result.Canvas, result.Placements, importer.Images(sources))
		if err != nil {
			return model.PackResult{}, nil, nil, err
		}
		if err := export.ExportAtlas(atlasPath, img); err != nil {
			return model.PackResult{}, nil, nil, err
		}
		p.done("Wrote " + atlasPath)
		written = append(written, atlasPath)
	}

	extra, err := writeOutputs(ctx, result, out)
	written = append(written, extra...)
	if err != nil {
		return model.PackResult{}, nil, written, err
	}
	return result, requests, written, nil
}

// projectName derives a display name from a project file path.
func projectName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".atlas.json", ".json"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return base
}
