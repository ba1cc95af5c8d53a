package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

const version = "1.0.0"

const defaultConfigPath = "landsatlst.yaml"

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Value: defaultConfigPath,
		Usage: "YAML configuration file; missing means defaults",
	},
	cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error), overrides output.logLevel",
	},
	cli.BoolFlag{
		Name:  "strict-bands",
		Usage: "Reject scenes in which two files provide the same band",
	},
	cli.BoolFlag{
		Name:  "memoize",
		Usage: "Cache band rasters and intermediate products within one run",
	},
}

var commands = cli.Commands{
	cli.Command{
		Name:      "info",
		Aliases:   []string{"i"},
		Usage:     "Describe the metadata file and bands of a scene directory",
		ArgsUsage: "<scene-dir>",
		Action:    infoAction,
	},
	cli.Command{
		Name:      "compute",
		Aliases:   []string{"c"},
		Usage:     "Compute products for a scene and print their statistics",
		ArgsUsage: "<scene-dir> <product>...",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "preview-dir",
				Usage: "Write a quicklook TIFF per product into this directory",
			},
		},
		Action: computeAction,
	},
	cli.Command{
		Name:      "init-config",
		Usage:     "Write a configuration file holding the defaults",
		ArgsUsage: "<path>",
		Action:    initConfigAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the landsatlst CLI",
		Action:  versionAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "landsatlst"
	app.Usage = "Derive radiance, reflectance, NDVI and land surface temperature from Landsat scenes"
	app.Version = version
	app.Flags = globalFlags
	app.Commands = commands
	return
}
