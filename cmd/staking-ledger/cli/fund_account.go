package cli

import (
	"fmt"
	"strconv"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// FundAccountCmd credits backing value to an identity, e.g. to seed the
// custodian's reward pool:
// ./staking-ledger fund-account custodian 1000000 --config config.yml
func FundAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund-account [identity] [amount]",
		Short: "Credit base units to the balance of an identity",
		Args:  cobra.ExactArgs(2),
		RunE:  fundAccount,
	}

	return cmd
}

func fundAccount(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	identity := args[0]

	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
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

	balance, serviceErr := service.FundAccount(ctx, identity, amount)
	if serviceErr != nil {
		return fmt.Errorf("failed to fund %s: %w", identity, serviceErr)
	}

	log.Info().
		Str("identity", balance.Identity).
		Uint64("balance", balance.Balance).
		Msg("account funded")
	return nil
}
