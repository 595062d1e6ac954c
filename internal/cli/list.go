package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dmdpattern/pkg/catalog"
	"github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/pipeline"
)

// listCommand creates the list command, which prints catalog entries.
func (c *CLI) listCommand() *cobra.Command {
	var (
		dir    string
		name   string
		id     string
		limit  int
		asJSON bool
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patterns recorded in a catalog",
		Long: `List patterns recorded in a catalog.

Patterns are recorded when rendered with --catalog (or catalog = true in the
job's [output] table). The catalog lives next to the patterns.

In a terminal, list opens a picker; choosing an entry prints its files and
the recipe that produced it. Use --plain (or --json) for a static listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := filepath.Join(dir, catalog.FileName)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return errors.New(errors.ErrCodeFileNotFound, "no catalog in %s (render with --catalog first)", dir)
			}

			cat, err := catalog.Open(ctx, path)
			if err != nil {
				return err
			}
			defer cat.Close()

			if id != "" {
				uid, err := uuid.Parse(id)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid id %q", id)
				}
				e, err := cat.Get(ctx, uid)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), e)
				}
				printEntry(e)
				return nil
			}

			entries, err := cat.List(ctx, catalog.ListOptions{Name: name, Limit: limit})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				printInfo("No patterns recorded in %s", dir)
				return nil
			}
			if !plain && len(entries) > 1 && isTerminal() {
				chosen, err := pickEntry(entries)
				if err != nil {
					return err
				}
				if chosen == nil {
					printDetail("No selection made")
					return nil
				}
				printEntry(*chosen)
				return nil
			}
			for _, e := range entries {
				printInfo("%s %s", StyleTitle.Render(e.Name), StyleDim.Render(e.ID.String()))
				printPatternStats(e.Kind, e.OnCount, e.Rows*e.Cols, false)
				printKeyValue("  device", fmt.Sprintf("%dx%d flip=%v", e.Rows, e.Cols, e.Flip))
				printKeyValue("  created", e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				printFile(e.PatternPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", pipeline.DefaultOutputDir, "pattern directory holding the catalog")
	cmd.Flags().StringVar(&name, "name", "", "only show entries with this pattern name")
	cmd.Flags().StringVar(&id, "id", "", "show the entry with this id")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print a static listing instead of the interactive picker")
	return cmd
}

// printEntry prints one catalog entry in full: its files and its recipe.
func printEntry(e catalog.Entry) {
	printInfo("%s %s", StyleTitle.Render(e.Name), StyleDim.Render(e.ID.String()))
	printPatternStats(e.Kind, e.OnCount, e.Rows*e.Cols, false)
	printKeyValue("  device", fmt.Sprintf("%dx%d flip=%v", e.Rows, e.Cols, e.Flip))
	printKeyValue("  created", e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	printFile(e.PatternPath)
	printFile(e.TemplatePath)
	var recipe bytes.Buffer
	if err := json.Indent(&recipe, e.Recipe, "  ", "  "); err == nil {
		fmt.Fprintln(stdout, "  "+StyleDim.Render("recipe:")+" "+recipe.String())
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// kindsCommand creates the kinds command, which lists the pattern kinds
// accepted in job files with their default parameters.
func (c *CLI) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the supported pattern kinds and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, k := range pipeline.Kinds() {
				p := pipeline.DefaultPattern(k)
				fmt.Fprintf(w, "%-14s %s\n", k, defaultsSummary(p))
			}
			return nil
		},
	}
}

// defaultsSummary renders the non-zero parameters of a default recipe as
// key=value pairs, in job-file key names.
func defaultsSummary(p pipeline.Pattern) string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}
	delete(m, "name")
	delete(m, "kind")

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := json.Marshal(m[k])
		parts = append(parts, k+"="+string(v))
	}
	return strings.Join(parts, " ")
}
