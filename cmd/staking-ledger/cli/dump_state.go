package cli

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
)

func DumpStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-state",
		Short: "Prints the stored ledger snapshot",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpState,
	}

	return cmd
}

func dumpState(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	store, err := db.Open(ctx, cfg.Db)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	snapshot, err := store.GetLedgerSnapshot(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			fmt.Println("No ledger snapshot stored yet")
			return nil
		}
		return err
	}

	lastSequence, err := store.GetLastEventSequence(ctx)
	if err != nil {
		return err
	}

	spew.Fdump(os.Stdout, snapshot)
	fmt.Printf("Snapshot sequence: %d, last event sequence: %d\n", snapshot.Sequence, lastSequence)
	return nil
}
