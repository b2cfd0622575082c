// oslexport converts scene descriptions into OpenRC .osl scene files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

var version = "0.3.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "oslexport: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "oslexport"
	app.Usage = "export scenes to the OpenRC .osl layout"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write JSON logs to `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "export",
			Usage: "convert scene files to .osl",
			Description: `
Load each scene (YAML or glTF), translate cameras, point lights and meshes and
write the result next to the input, or into --output-dir when given.

An export that fails leaves no output file behind.`,
			ArgsUsage: "scene1.yaml scene2.glb ...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output file name (single input only)",
				},
				cli.StringFlag{
					Name:  "output-dir, d",
					Usage: "directory for exported files",
				},
				cli.BoolFlag{
					Name:  "summary, s",
					Usage: "print a section table for every exported scene",
				},
			},
			Action: exportScenes,
		},
		{
			Name:      "summary",
			Usage:     "translate scenes and print their section sizes without writing",
			ArgsUsage: "scene1.yaml scene2.glb ...",
			Action:    summarizeScenes,
		},
		{
			Name:  "config",
			Usage: "inspect or create configuration files",
			Subcommands: []cli.Command{
				{
					Name:   "show",
					Usage:  "print the effective configuration",
					Action: showConfig,
				},
				{
					Name:      "init",
					Usage:     "write the default configuration",
					ArgsUsage: "[path]",
					Flags: []cli.Flag{
						cli.BoolFlag{
							Name:  "force, f",
							Usage: "overwrite an existing file",
						},
					},
					Action: initConfig,
				},
			},
		},
	}
	return app
}
