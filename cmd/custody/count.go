package main

import (
	"github.com/urfave/cli/v2"
)

var count = cli.Command{
	Name:  "count",
	Usage: "count all the assets of one or more owners by custody status",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "owner",
			Usage:    "the address of an owner, can be repeated",
			Required: true,
		},
		contractFlag,
	},
	Action: countAction,
}

func countAction(ctx *cli.Context) error {
	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	counts, err := appConfig.CustodyService().CountAllForOwners(
		ctx.Context, ctx.StringSlice("owner"), ctx.StringSlice("contract"),
	)
	if err != nil {
		return err
	}

	resp := make(map[string]map[string]int, len(counts))
	for owner, c := range counts {
		resp[owner] = map[string]int{
			"available": c.Available,
			"locked":    c.Locked,
			"total":     c.Total(),
		}
	}
	printJSON(resp)
	return nil
}
