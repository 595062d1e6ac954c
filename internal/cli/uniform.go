package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dmdpattern/pkg/dmd"
	"github.com/matzehuels/dmdpattern/pkg/io"
	"github.com/matzehuels/dmdpattern/pkg/pipeline"
)

// singleOpts are the flags shared by commands that save one pattern.
type singleOpts struct {
	geom    dmd.Geometry
	name    string
	outDir  string
	catalog bool
}

func (o *singleOpts) register(cmd *cobra.Command, defaultName string) {
	o.geom = dmd.DefaultGeometry
	o.outDir = pipeline.DefaultOutputDir
	addDeviceFlags(cmd, &o.geom)
	cmd.Flags().StringVarP(&o.name, "name", "n", defaultName, "output file name (.bmp or .png)")
	cmd.Flags().StringVarP(&o.outDir, "out-dir", "o", o.outDir, "output directory")
	cmd.Flags().BoolVar(&o.catalog, "catalog", false, "record the pattern in the output directory's catalog")
}

// uniformCommand creates the uniform command, which writes a frame with
// every mirror set to one color.
func (c *CLI) uniformCommand() *cobra.Command {
	var (
		opts  singleOpts
		color string
	)

	cmd := &cobra.Command{
		Use:   "uniform",
		Short: "Write a pattern with every mirror set to one color",
		Example: `  dmdpattern uniform                      # all mirrors on
  dmdpattern uniform --color 0 -n off.bmp # all mirrors off
  dmdpattern uniform --color 0.5          # 50% gray`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := dmd.ParseColorString(color)
			if err != nil {
				return err
			}
			p := pipeline.DefaultPattern(pipeline.KindUniform)
			p.Name = opts.name
			p.Color = col
			return c.saveSingle(cmd.Context(), opts, p)
		},
	}

	opts.register(cmd, "uniform.bmp")
	cmd.Flags().StringVarP(&color, "color", "c", "1", `color: 0/1, a gray level, "r,g,b" or "#rrggbb"`)
	return cmd
}

// convertCommand creates the convert command, which maps an edited
// real-space image back to the device.
func (c *CLI) convertCommand() *cobra.Command {
	var opts singleOpts

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert a real-space image into a device pattern",
		Long: `Convert a real-space image into a device pattern.

The image must have the real-space size of the device, for example a
template_<name> file edited in an image editor. Pixels outside the mirror
area are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.DefaultPattern(pipeline.KindTemplate)
			p.Source = args[0]
			p.Name = opts.name
			if p.Name == "" {
				p.Name = strings.TrimPrefix(filepath.Base(args[0]), io.TemplatePrefix)
			}
			return c.saveSingle(cmd.Context(), opts, p)
		},
	}

	opts.register(cmd, "")
	return cmd
}

// saveSingle renders p without the cache and saves it.
func (c *CLI) saveSingle(ctx context.Context, opts singleOpts, p pipeline.Pattern) error {
	prog := newProgress(c.Logger)
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	job := &pipeline.Job{
		Device:   opts.geom,
		Output:   pipeline.Output{Dir: opts.outDir, Catalog: opts.catalog},
		Patterns: []pipeline.Pattern{p},
	}
	result, err := runner.Execute(ctx, job)
	if err != nil {
		return err
	}
	printSaved(result, job)
	prog.done("Saved " + p.Name)
	return nil
}
