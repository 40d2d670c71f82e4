package cli

import (
	"fmt"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func ShowRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-record [owner]",
		Short: "Dump the staking record of an owner including its pending reward",
		Args:  cobra.ExactArgs(1),
		RunE:  showRecord,
	}

	cmd.Flags().Int64("events", 0, "Also dump the latest N ledger events of the owner")
	return cmd
}

func showRecord(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	owner := args[0]

	eventsLimit, err := cmd.Flags().GetInt64("events")
	if err != nil {
		return err
	}

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	service, closeService, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	record, serviceErr := service.GetRecord(ctx, owner)
	if serviceErr != nil {
		return fmt.Errorf("failed to load staking record of %s: %w", owner, serviceErr)
	}
	spew.Fdump(cmd.OutOrStdout(), record)

	if eventsLimit > 0 {
		events, serviceErr := service.ListEvents(ctx, owner, eventsLimit)
		if serviceErr != nil {
			return fmt.Errorf("failed to load ledger events of %s: %w", owner, serviceErr)
		}
		spew.Fdump(cmd.OutOrStdout(), events)
	}

	return nil
}
