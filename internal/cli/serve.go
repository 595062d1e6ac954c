package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dmdpattern/pkg/pipeline"
	"github.com/matzehuels/dmdpattern/pkg/preview"
)

// serveCommand creates the serve command, which previews a job over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		cache cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve <job.toml>",
		Short: "Preview the patterns of a job in the browser",
		Long: `Preview the patterns of a job in the browser.

Patterns are rendered on first request and kept in memory. Open
/patterns for the list; each pattern offers mirror, real, template and
intensity views, and lattice patterns an inspect view:

  /patterns/<name>/real.png?width=800`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := pipeline.LoadJob(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := preview.New(runner, job, c.Logger)
			if err != nil {
				return err
			}
			printInfo("Serving %d patterns at %s", len(job.Patterns), StyleValue.Render("http://"+addr+"/patterns"))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cache.register(cmd)
	return cmd
}
