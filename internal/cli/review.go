package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/poolreview/poolreview/pkg/pipeline"
)

// reviewCommand creates the review command for generating a report.
func (c *CLI) reviewCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "review [pool directory]",
		Short: "Generate a markdown review report for a change set",
		Long: `Generate a markdown review report for a change set.

The review command loads every record in the pool, resolves the changed
paths given via --diff or --changes against it, and computes the full
dependency closure of the changed parts. The report lists the changed
items, the parts overview tree, derived parts, per-record detail tables
and rendered symbol and package previews.

Exactly one of --diff (unified diff) or --changes (git name-status
listing) must be given. Defaults for the output paths can be placed in
a poolreview.toml next to the pool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.PoolDir = args[0]

			cfg, err := loadConfig(opts.PoolDir)
			if err != nil {
				return err
			}
			cfg.apply(&opts)
			if opts.Output == "" {
				opts.Output = "review.md"
			}
			if opts.ImagesDir == "" {
				opts.ImagesDir = "images"
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runReview(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "report output file (default review.md)")
	cmd.Flags().StringVarP(&opts.ImagesDir, "img-dir", "i", "", "directory for rendered images (default images)")
	cmd.Flags().StringVarP(&opts.ImagesPrefix, "img-prefix", "p", "", "prefix prepended to image links in the report")
	cmd.Flags().StringVar(&opts.DiffPath, "diff", "", "unified diff describing the change set")
	cmd.Flags().StringVar(&opts.ChangesPath, "changes", "", "git name-status listing describing the change set")
	cmd.Flags().BoolVar(&opts.Graph, "graph", false, "include per-root dependency diagrams")

	return cmd
}

// runReview executes the pipeline and reports the outcome.
func (c *CLI) runReview(ctx context.Context, opts pipeline.Options) error {
	runner := c.newRunner()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Generating review...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Review failed")
		return fmt.Errorf("review: %w", err)
	}
	spinner.Stop()

	printSuccess("Review written")
	printFile(opts.Output)
	if result.Stats.ImageCount > 0 {
		printFile(opts.ImagesDir + "/")
	}
	printStats(result.Stats.RecordCount, result.Stats.ItemCount,
		result.Stats.NodeCount, result.Stats.ImageCount)
	printDetail("load %s · review %s · report %s",
		result.Stats.LoadTime.Round(time.Millisecond),
		result.Stats.ReviewTime.Round(time.Millisecond),
		result.Stats.ReportTime.Round(time.Millisecond))
	return nil
}
