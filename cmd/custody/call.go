package main

import (
	"fmt"
	"math/big"

	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var call = cli.Command{
	Name:      "call",
	Usage:     "perform a read-only contract call, retried on failure",
	ArgsUsage: "<contract> <method signature> [args...]",
	Action:    callAction,
}

func callAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return fmt.Errorf("contract and method are missing")
	}
	contract := ctx.Args().Get(0)
	if err := domain.ValidateAddress(contract); err != nil {
		return err
	}
	method := ctx.Args().Get(1)
	args := parseCallArgs(ctx.Args().Slice()[2:])

	appConfig, cleanup, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	words, err := appConfig.CustodyService().Call(ctx.Context, contract, method, args...)
	if err != nil {
		return err
	}

	result := make([]string, 0, len(words))
	for _, w := range words {
		result = append(result, w.String())
	}
	printJSON(map[string]interface{}{"result": result})
	return nil
}

// parseCallArgs passes addresses through as strings and converts anything
// else that looks like an integer to *big.Int.
func parseCallArgs(list []string) []interface{} {
	args := make([]interface{}, 0, len(list))
	for _, s := range list {
		if domain.ValidateAddress(s) == nil {
			args = append(args, s)
			continue
		}
		if n, ok := new(big.Int).SetString(s, 0); ok {
			args = append(args, n)
			continue
		}
		args = append(args, s)
	}
	return args
}
