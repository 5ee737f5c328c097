package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfield/gleaner"
	repomemory "github.com/openfield/gleaner/internal/repository/memory"
	"github.com/openfield/gleaner/internal/sources"
	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/record"
)

// NewRunCommand creates the run command.
func (a *App) NewRunCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <source-id>",
		Short: "Execute one harvest run against a configured source",
		Long: `Run executes one gather-fetch-import harvest run against a source
defined in the sources file.

Discovered datasets are snapshotted into the harvest object store and
reconciled into the record portal. Per-dataset failures are recorded and
reported without aborting the run; the command fails only when discovery
itself was cut short.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHarvest(cmd.Context(), args[0], dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile into an in-memory record store instead of the portal")

	return cmd
}

// runHarvest executes one harvest run for the named source definition.
func (a *App) runHarvest(ctx context.Context, sourceID string, dryRun bool) error {
	defs, err := sources.Load(a.config.SourcesFile)
	if err != nil {
		return err
	}
	def, ok := sources.Find(defs, sourceID)
	if !ok {
		return errors.NewNotFoundError("source", sourceID)
	}

	store, err := a.Store()
	if err != nil {
		return err
	}
	repo, err := a.Repository(dryRun)
	if err != nil {
		return err
	}
	seedSourceRecord(repo, def)

	g, err := a.Gleaner(store, repo, gleaner.WithHarvester(def.Harvester))
	if err != nil {
		return err
	}

	result, err := g.Run(ctx, def.Source())
	if err != nil {
		return err
	}

	printResult(result)

	if result.Status == harvest.RunStatusErrored {
		return fmt.Errorf("run %s ended with status %s", result.RunID, result.Status)
	}
	return nil
}

// seedSourceRecord plants the source's own record into an in-memory
// repository so imports can resolve the owning organization. A real
// portal already holds it.
func seedSourceRecord(repo record.Repository, def *sources.Definition) {
	mem, ok := repo.(*repomemory.Repository)
	if !ok {
		return
	}
	mem.Seed(&record.Dataset{
		ID:       def.ID,
		Name:     def.ID,
		Title:    def.Title,
		OwnerOrg: def.OwnerOrg,
	})
}

// printResult writes the run summary to stdout.
func printResult(result *gleaner.RunResult) {
	fmt.Printf("run %s: %s\n", result.RunID, result.Status)
	fmt.Printf("  gathered: %d\n", result.Gathered)
	fmt.Printf("  imported: %d\n", result.Imported)
	fmt.Printf("  failed:   %d\n", result.Failed)
	fmt.Printf("  deleted:  %d\n", result.Deleted)
	for _, msg := range result.Errors {
		fmt.Printf("  error: %s\n", msg)
	}
}
