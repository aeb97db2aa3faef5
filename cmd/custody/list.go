package main

import (
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var list = cli.Command{
	Name:  "list",
	Usage: "list one page of the assets of an owner, split by custody status",
	Flags: []cli.Flag{
		ownerFlag,
		contractFlag,
		&cli.IntFlag{
			Name:  "page",
			Usage: "the 1-indexed page to list",
			Value: 1,
		},
	},
	Action: listAction,
}

type assetInfo struct {
	Key         string `json:"key"`
	Status      string `json:"status"`
	LockedUntil string `json:"lockedUntil,omitempty"`
	Price       string `json:"price"`
	Value       string `json:"value"`
	Name        string `json:"name,omitempty"`
	Image       string `json:"image,omitempty"`
}

func listAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := appConfig.CustodyService().ListPage(
		ctx.Context, ctx.String("owner"), ctx.StringSlice("contract"), ctx.Int("page"),
	)
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"page":      result.Page.Number,
		"available": toAssetInfo(result.Available),
		"locked":    toAssetInfo(result.Locked),
		"warnings":  result.WarningsString(),
	})
	return nil
}

func toAssetInfo(assets []domain.Asset) []assetInfo {
	list := make([]assetInfo, 0, len(assets))
	for _, a := range assets {
		info := assetInfo{
			Key:    a.Key(),
			Status: a.State.Status.String(),
			Price:  a.Valuation.Price.String(),
			Value:  a.Valuation.Value.String(),
			Name:   a.Metadata.Name,
			Image:  a.Metadata.Image,
		}
		if a.IsLocked() {
			info.LockedUntil = a.State.LockedUntilTime().String()
		}
		list = append(list, info)
	}
	return list
}
