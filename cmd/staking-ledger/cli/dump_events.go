package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
)

func DumpEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-events",
		Short: "Prints stored ledger events as JSON lines",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpEvents,
	}

	cmd.Flags().Uint64("after", 0, "Print events with a sequence greater than this one")
	cmd.Flags().Int64("limit", 0, "Maximum number of events to print, 0 prints all")

	return cmd
}

func dumpEvents(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	after, err := cmd.Flags().GetUint64("after")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt64("limit")
	if err != nil {
		return err
	}

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	store, err := db.Open(ctx, cfg.Db)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	docs, err := store.GetLedgerEvents(ctx, after, limit)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	for _, doc := range docs {
		ev, err := doc.ToLedgerEvent()
		if err != nil {
			return err
		}
		if err := encoder.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}
