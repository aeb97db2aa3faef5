package main

import (
	"fmt"

	"github.com/tdex-network/tdex-custody/internal/config"
	"github.com/urfave/cli/v2"
)

var checkout = cli.Command{
	Name:  "checkout",
	Usage: "allocate the credit over the given assets and submit the withdrawal",
	Flags: []cli.Flag{
		assetFlag,
		creditFlag,
		&cli.StringFlag{
			Name:  "from",
			Usage: "the account submitting the withdrawal, defaults to the configured one",
		},
	},
	Action: checkoutAction,
}

func checkoutAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	from := ctx.String("from")
	if from == "" {
		from = config.GetString(config.FromAddressKey)
	}
	if from == "" {
		return fmt.Errorf("missing from address")
	}

	allocation, err := allocationFromFlags(ctx)
	if err != nil {
		return err
	}

	result, err := appConfig.CheckoutService().Checkout(ctx.Context, from, allocation)
	if err != nil {
		if result != nil {
			printJSON(result)
		}
		return err
	}

	printJSON(map[string]interface{}{
		"checkout":   result.ID,
		"status":     result.Status.String(),
		"txHashes":   result.TxHashes,
		"allocation": allocationInfo(allocation),
	})
	return nil
}
