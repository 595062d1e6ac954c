package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dmdpattern/pkg/observability"
	"github.com/matzehuels/dmdpattern/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
// Flags that are set override the corresponding [output] settings of the
// job file.
type renderOpts struct {
	outDir   string // output directory
	inspect  bool   // write inspect_<name>.png for lattice patterns
	catalog  bool   // record saved patterns in <dir>/catalog.db
	only     []string
	cache    cacheFlags
	progress bool // show a spinner while rendering
}

// renderCommand creates the render command for rendering a job file.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{progress: true}

	cmd := &cobra.Command{
		Use:   "render <job.toml>",
		Short: "Render every pattern of a job file",
		Long: `Render every pattern of a TOML job file.

Each pattern is saved as pattern_<name> (the device image) and
template_<name> (the labeled real-space image) in the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := pipeline.LoadJob(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out-dir") {
				job.Output.Dir = opts.outDir
			}
			if cmd.Flags().Changed("inspect") {
				job.Output.Inspect = opts.inspect
			}
			if cmd.Flags().Changed("catalog") {
				job.Output.Catalog = opts.catalog
			}
			if len(opts.only) > 0 {
				if err := filterPatterns(job, opts.only); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), job, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", pipeline.DefaultOutputDir, "output directory (overrides the job file)")
	cmd.Flags().BoolVar(&opts.inspect, "inspect", false, "write an inspection panel for lattice patterns")
	cmd.Flags().BoolVar(&opts.catalog, "catalog", false, "record saved patterns in the output directory's catalog")
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "render only the named patterns (comma-separated)")
	cmd.Flags().BoolVar(&opts.progress, "progress", opts.progress, "show a progress spinner")
	opts.cache.register(cmd)

	return cmd
}

// filterPatterns keeps only the named patterns of job.
func filterPatterns(job *pipeline.Job, names []string) error {
	byName := make(map[string]pipeline.Pattern, len(job.Patterns))
	for _, p := range job.Patterns {
		byName[p.Name] = p
	}
	kept := make([]pipeline.Pattern, 0, len(names))
	for _, n := range names {
		p, ok := byName[n]
		if !ok {
			return fmt.Errorf("job has no pattern named %q", n)
		}
		kept = append(kept, p)
	}
	job.Patterns = kept
	return nil
}

func (c *CLI) runRender(ctx context.Context, job *pipeline.Job, opts renderOpts, jobPath string) error {
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	c.Logger.Debug("rendering job",
		"patterns", len(job.Patterns),
		"rows", job.Device.Rows,
		"cols", job.Device.Cols,
		"flip", job.Device.Flip)

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if opts.progress {
		spinner = newSpinner(ctx, "Rendering")
		observability.SetPipelineHooks(&spinnerHooks{spinner: spinner, total: len(job.Patterns)})
		defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
		spinner.Start()
	}

	result, err := runner.Execute(ctx, job)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Render failed")
		} else {
			spinner.Stop()
		}
	}
	if result != nil {
		printSaved(result, job)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && result != nil {
			printWarning("Interrupted after %d of %d patterns", len(result.Saved), len(job.Patterns))
		}
		return err
	}

	printSuccess("Rendered %d patterns into %s (%s)", len(result.Saved), job.Output.Dir, prog.elapsed())
	if result.Stats.CacheHits > 0 {
		printDetail("%d served from cache", result.Stats.CacheHits)
	}
	printNextStep("Preview", fmt.Sprintf("%s serve %s", appName, jobPath))
	return nil
}

func printSaved(result *pipeline.Result, job *pipeline.Job) {
	total := job.Device.Rows * job.Device.Cols
	for _, s := range result.Saved {
		printInfo("%s", StyleTitle.Render(s.Name))
		printPatternStats(s.Kind, s.OnCount, total, s.CacheHit)
		printFile(s.Paths.Pattern)
		printFile(s.Paths.Template)
		if s.Inspect != "" {
			printFile(s.Inspect)
		}
	}
}
