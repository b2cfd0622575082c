package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Faultbox/oslexport/internal/config"
	"github.com/Faultbox/oslexport/internal/export"
	"github.com/Faultbox/oslexport/internal/logger"
)

func exportScenes(c *cli.Context) error {
	if c.NArg() == 0 {
		return errNoScenes
	}
	out := c.String("out")
	if out != "" && c.NArg() > 1 {
		return errors.New("--out needs exactly one scene file")
	}

	cfg, err := setup(c, config.Overrides{
		OutputDir: c.String("output-dir"),
		Summary:   c.Bool("summary"),
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ex := export.New(cfg, logger.Named("export"))
	for _, input := range c.Args() {
		res, err := ex.Run(input, out)
		if err != nil {
			logger.Error("export failed", zap.String("input", input), zap.Error(err))
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s -> %s (%d bytes)\n", res.Input, res.Output, res.Bytes)
		if cfg.Export.Summary {
			export.Summary(res.Scene, c.App.Writer)
		}
	}
	return nil
}

func summarizeScenes(c *cli.Context) error {
	if c.NArg() == 0 {
		return errNoScenes
	}
	cfg, err := setup(c, config.Overrides{})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ex := export.New(cfg, logger.Named("export"))
	for _, input := range c.Args() {
		sc, _, err := ex.Build(input)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s\n", input)
		export.Summary(sc, c.App.Writer)
		if !sc.HasCamera() {
			logger.Warn("scene has no camera and cannot be exported", zap.String("input", input))
		}
	}
	return nil
}

func showConfig(c *cli.Context) error {
	cfg, err := setup(c, config.Overrides{})
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func initConfig(c *cli.Context) error {
	cfg := config.Default()

	path := c.Args().Get(0)
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	var err error
	if c.NArg() == 0 {
		path, err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}
