package app

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openfield/gleaner"
)

// NewHarvestersCommand creates the harvesters command.
func (a *App) NewHarvestersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "harvesters",
		Short: "List the registered harvesters",
		Long:  `Harvesters lists every registered harvester with the catalogs it understands.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			g, err := gleaner.New()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tDESCRIPTION")
			for _, info := range g.Harvesters() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Title, info.Description)
			}
			return w.Flush()
		},
	}
}
