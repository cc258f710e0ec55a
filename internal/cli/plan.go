package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/importer"
	"github.com/piwi3910/atlaspack/internal/model"
)

type planOpts struct {
	requests string
	pack     packOpts
	out      outputOpts
}

// newPlanCmd creates the plan command, which packs a request list
// (id, width, height) from CSV or XLSX without any image data.
func newPlanCmd(root *rootOpts) *cobra.Command {
	opts := planOpts{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Pack a CSV/XLSX request list and write metadata and reports",
		Example: `  atlaspack plan -r requests.csv -m plan.json
  atlaspack plan -r requests.xlsx --order genetic --report plan.pdf --sheet plan.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.requests == "" {
				return fmt.Errorf("no request list (use -r)")
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			settings, err := resolveSettings(cmd, cfg, &opts.pack)
			if err != nil {
				return err
			}
			out := opts.out.withConfigDefaults(cfg.Outputs)

			requests, err := loadRequestList(cmd.Context(), opts.requests)
			if err != nil {
				return err
			}
			result, err := pack(cmd.Context(), settings, requests)
			if err != nil {
				return err
			}
			written, err := writeOutputs(cmd.Context(), result, out)
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

	cmd.Flags().StringVarP(&opts.requests, "requests", "r", "", "request list (.csv or .xlsx) with id, width, height columns")
	bindPackFlags(cmd, &opts.pack)
	bindOutputFlags(cmd, &opts.out)

	return cmd
}

// loadRequestList imports a request list, logging warnings. Any row error
// fails the import so that no request is silently dropped.
func loadRequestList(ctx context.Context, path string) ([]model.Request, error) {
	logger := loggerFromContext(ctx)

	result := importer.ImportFile(path)
	for _, w := range result.Warnings {
		logger.Debug(w, "file", path)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			logger.Error(e, "file", path)
		}
		return nil, fmt.Errorf("import %s: %w", path, errors.New(strings.Join(result.Errors, "; ")))
	}
	logger.Infof("Imported %d requests from %s", len(result.Requests), path)
	return result.Requests, nil
}
