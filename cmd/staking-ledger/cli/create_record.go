package cli

import (
	"fmt"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// CreateRecordCmd allocates a staking record for an owner, e.g.
// ./staking-ledger create-record alice --config config.yml
func CreateRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-record [owner]",
		Short: "Create the staking record of an owner",
		Args:  cobra.ExactArgs(1),
		RunE:  createRecord,
	}

	return cmd
}

func createRecord(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	owner := args[0]

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	service, closeService, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	record, serviceErr := service.CreateRecord(ctx, owner)
	if serviceErr != nil {
		return fmt.Errorf("failed to create staking record for %s: %w", owner, serviceErr)
	}

	log.Info().
		Str("owner", record.Owner).
		Int64("last_accrual_time", record.LastAccrualTime).
		Msg("staking record created")
	return nil
}
