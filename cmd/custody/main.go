package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/config"
	"github.com/tdex-network/tdex-custody/internal/core/application"
	"github.com/urfave/cli/v2"
)

var (
	ownerFlag = &cli.StringFlag{
		Name:     "owner",
		Usage:    "the address of the owner of the assets",
		Required: true,
	}
	contractFlag = &cli.StringSliceFlag{
		Name:  "contract",
		Usage: "restrict to the given asset contract, can be repeated",
	}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "custody"
	app.Usage = "Command line interface to enumerate custodied assets and withdraw them"
	app.Commands = append(
		app.Commands,
		&list,
		&count,
		&allocate,
		&checkout,
		&call,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

// getAppConfig loads the configuration from env and wires the services
// in-process. The returned cleanup releases the storage.
func getAppConfig() (*application.Config, func(), error) {
	if err := config.InitConfig(); err != nil {
		return nil, nil, err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	appConfig, err := config.AppConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := appConfig.Validate(); err != nil {
		return nil, nil, err
	}
	cleanup := func() { appConfig.RepoManager().Close() }
	return appConfig, cleanup, nil
}

func printJSON(resp interface{}) {
	b, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(b))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[custody] %v\n", err)
	os.Exit(1)
}
