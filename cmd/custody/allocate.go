package main

import (
	"fmt"
	"strings"

	"github.com/tdex-network/tdex-custody/internal/config"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var (
	assetFlag = &cli.StringSliceFlag{
		Name:     "asset",
		Usage:    "asset to withdraw as <contract>:<token id>:<fee>, can be repeated",
		Required: true,
	}
	creditFlag = &cli.StringFlag{
		Name:  "credit",
		Usage: "the credit available to pay the fees, in native currency",
		Value: "0",
	}
)

var allocate = cli.Command{
	Name:   "allocate",
	Usage:  "preview how the credit is split over the fees of the given assets",
	Flags:  []cli.Flag{assetFlag, creditFlag},
	Action: allocateAction,
}

func allocateAction(ctx *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}

	result, err := allocationFromFlags(ctx)
	if err != nil {
		return err
	}
	printJSON(allocationInfo(result))
	return nil
}

func allocationFromFlags(ctx *cli.Context) (*domain.AllocationResult, error) {
	assets, err := parseAssets(ctx.StringSlice("asset"))
	if err != nil {
		return nil, err
	}
	return domain.Allocate(
		assets, ctx.String("credit"), int32(config.GetInt(config.DecimalsKey)),
	)
}

func parseAssets(list []string) ([]domain.SelectedAsset, error) {
	assets := make([]domain.SelectedAsset, 0, len(list))
	for _, s := range list {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf(
				"invalid asset %q, must be in the form <contract>:<token id>:<fee>", s,
			)
		}
		assets = append(assets, domain.SelectedAsset{
			Address: parts[0],
			TokenID: parts[1],
			Fee:     parts[2],
		})
	}
	return assets, nil
}

func allocationInfo(r *domain.AllocationResult) map[string]interface{} {
	decimals := r.Decimals()
	items := make([]map[string]string, 0, r.Len())
	for _, i := range r.Items() {
		items = append(items, map[string]string{
			"asset":          domain.AssetKey(i.Address, i.TokenID.String()),
			"fee":            mathutil.FromSmallestUnit(i.Fee, decimals),
			"feeAfterCredit": mathutil.FromSmallestUnit(i.FeeAfterCredit, decimals),
			"creditUsed":     mathutil.FromSmallestUnit(i.CreditUsed, decimals),
		})
	}
	return map[string]interface{}{
		"id":              r.ID(),
		"totalFee":        mathutil.FromSmallestUnit(r.TotalFee(), decimals),
		"totalCreditUsed": mathutil.FromSmallestUnit(r.TotalCreditUsed(), decimals),
		"remainingCredit": mathutil.FromSmallestUnit(r.RemainingCredit(), decimals),
		"items":           items,
	}
}
