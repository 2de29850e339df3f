package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/fleetid/internal/listing"
	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchOutput string
	watchParent string
	watchRole   string
	watchSource string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream identifiers as they are issued",
	Long: `Stream identifiers as they are issued by any process sharing the registry.

Output Formats:
  default - Human-readable lines with emojis
  jsonl   - Line-delimited JSON for programmatic processing

Examples:
  # Watch everything in the fleet
  fleetid watch

  # Only builders under forge, as JSONL
  fleetid watch --parent forge --role "*Builder" --output jsonl

Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "default", "Output format: default or jsonl")
	watchCmd.Flags().StringVarP(&watchParent, "parent", "p", "", "Filter by parent key")
	watchCmd.Flags().StringVarP(&watchRole, "role", "r", "", "Filter by role (glob pattern)")
	watchCmd.Flags().StringVar(&watchSource, "source", "", "Filter by source: spawn or migration")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := listing.ParseOutputFormat(watchOutput)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: default, jsonl"})
	}

	criteria, err := buildCriteria("", "", watchParent, watchRole, watchSource)
	if err != nil {
		return err
	}

	f, err := loadFleet()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := f.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if format == listing.OutputFormatDefault {
		printer.Info("Watching fleet '%s' for new identifiers (Ctrl+C to stop)...\n", client.Fleet())
	}

	opts := watch.Options{Criteria: criteria, Format: format, Schema: f.schema}
	if err := watch.Stream(ctx, client, opts, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil && err != context.Canceled {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
